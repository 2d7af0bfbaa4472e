package intent

import (
	"context"
	"errors"
	"testing"

	"ai-chatbot-be/pkg/llm"
)

type scriptedLLM struct {
	response string
	err      error
	calls    int
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	s.calls++
	return s.response, s.err
}

func TestLLMStageLabelMapping(t *testing.T) {
	tests := []struct {
		name           string
		response       string
		wantIntent     Intent
		wantConfidence float64
	}{
		{"knowledge seeking", `{"label": "KNOWLEDGE_SEEKING"}`, IntentQuestion, 0.85},
		{"conversational", `{"label": "CONVERSATIONAL"}`, IntentChitChat, 0.80},
		{"out of scope", `{"label": "OUT_OF_SCOPE"}`, IntentOutOfScope, 0.80},
		{"ambiguous defaults to question", `{"label": "AMBIGUOUS"}`, IntentQuestion, 0.50},
		{"unknown label defaults to question", `{"label": "SOMETHING_NEW"}`, IntentQuestion, 0.50},
		{"bare label without json", "OUT_OF_SCOPE", IntentOutOfScope, 0.80},
		{"prose wrapped json", "Sure! Here: {\"label\": \"CONVERSATIONAL\"} hope that helps", IntentChitChat, 0.80},
		{"garbage defaults to question", "no idea what you mean", IntentQuestion, 0.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := NewLLMStage(&scriptedLLM{response: tt.response}, nil)
			result, err := stage.Classify(context.Background(), "some message")
			if err != nil {
				t.Fatalf("Classify returned error: %v", err)
			}
			if result.Intent != tt.wantIntent {
				t.Errorf("intent = %s, want %s", result.Intent, tt.wantIntent)
			}
			if result.Confidence != tt.wantConfidence {
				t.Errorf("confidence = %.2f, want %.2f", result.Confidence, tt.wantConfidence)
			}
			if result.Stage != StageLLM {
				t.Errorf("stage = %s, want llm", result.Stage)
			}
		})
	}
}

func TestLLMStagePropagatesProviderError(t *testing.T) {
	stage := NewLLMStage(&scriptedLLM{err: errors.New("provider down")}, nil)
	_, err := stage.Classify(context.Background(), "some message")
	if err == nil {
		t.Fatal("expected error from failing provider")
	}
}
