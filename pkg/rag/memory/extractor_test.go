package memory

import (
	"context"
	"errors"
	"testing"

	"ai-chatbot-be/pkg/llm"
)

type scriptedLLM struct {
	response string
	err      error
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.response, s.err
}

var transcript = []llm.Message{
	{Role: "user", Content: "hi, i run a bakery and need invoicing help"},
	{Role: "assistant", Content: "Happy to help with invoicing."},
}

func TestExtractFiltersAndNormalizes(t *testing.T) {
	provider := &scriptedLLM{response: `[
		{"content": "Customer runs a bakery", "category": "context", "confidence": 0.9},
		{"content": "Needs invoicing help", "category": "made_up_category", "confidence": 0.8},
		{"content": "Maybe interested in upgrades", "category": "preference", "confidence": 0.3},
		{"content": "  ", "category": "context", "confidence": 0.9}
	]`}
	e := NewExtractor(provider, nil)

	facts, err := e.Extract(context.Background(), transcript)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("facts = %d, want 2 (low confidence and blank dropped)", len(facts))
	}
	if facts[1].Category != CategoryContext {
		t.Errorf("unknown category must normalize to context, got %s", facts[1].Category)
	}
}

func TestExtractEmptyTranscriptIsNoop(t *testing.T) {
	provider := &scriptedLLM{err: errors.New("must not be called")}
	e := NewExtractor(provider, nil)

	facts, err := e.Extract(context.Background(), nil)
	if err != nil || facts != nil {
		t.Fatalf("facts=%v err=%v", facts, err)
	}
}

func TestExtractEmptyArray(t *testing.T) {
	provider := &scriptedLLM{response: "[]"}
	e := NewExtractor(provider, nil)

	facts, err := e.Extract(context.Background(), transcript)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(facts) != 0 {
		t.Errorf("facts = %v", facts)
	}
}

func TestExtractUnparseableIsError(t *testing.T) {
	provider := &scriptedLLM{response: "the customer runs a bakery"}
	e := NewExtractor(provider, nil)

	if _, err := e.Extract(context.Background(), transcript); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExtractCapsFactCount(t *testing.T) {
	provider := &scriptedLLM{response: `[
		{"content": "f1", "category": "context", "confidence": 0.9},
		{"content": "f2", "category": "context", "confidence": 0.9},
		{"content": "f3", "category": "context", "confidence": 0.9},
		{"content": "f4", "category": "context", "confidence": 0.9},
		{"content": "f5", "category": "context", "confidence": 0.9},
		{"content": "f6", "category": "context", "confidence": 0.9},
		{"content": "f7", "category": "context", "confidence": 0.9},
		{"content": "f8", "category": "context", "confidence": 0.9},
		{"content": "f9", "category": "context", "confidence": 0.9},
		{"content": "f10", "category": "context", "confidence": 0.9},
		{"content": "f11", "category": "context", "confidence": 0.9}
	]`}
	e := NewExtractor(provider, nil)

	facts, err := e.Extract(context.Background(), transcript)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(facts) != maxFactsPerConversation {
		t.Errorf("facts = %d, want %d", len(facts), maxFactsPerConversation)
	}
}
