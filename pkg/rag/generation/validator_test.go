package generation

import (
	"context"
	"strings"
	"testing"

	"ai-chatbot-be/pkg/llm"
)

type scriptedLLM struct {
	responses []string
	errs      []error
	calls     int
}

func (s *scriptedLLM) next() (string, error) {
	i := s.calls
	s.calls++
	var resp string
	var err error
	if i < len(s.responses) {
		resp = s.responses[i]
	} else if len(s.responses) > 0 {
		resp = s.responses[len(s.responses)-1]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return resp, err
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return s.next()
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.next()
}

// Offline harnesses dispatch on the criteria keys appearing in the prompt,
// so the prompt must carry every field of the expected JSON schema.
func TestValidatorPromptCarriesOutputSchema(t *testing.T) {
	v := NewValidator(&scriptedLLM{}, nil)
	prompt := v.buildPrompt("what does the premium plan cost?", "it costs $99", nil)

	for _, key := range []string{
		"answers_question", "grounded", "no_hallucination", "concise",
		"precise", "confidence", "retry_recommended", "suggested_adjustment",
	} {
		if !strings.Contains(prompt, key) {
			t.Errorf("validator prompt is missing schema key %q", key)
		}
	}
}

func TestValidateAllCriteriaPass(t *testing.T) {
	provider := &scriptedLLM{responses: []string{
		`{"answers_question": true, "grounded": true, "no_hallucination": true, "concise": true, "precise": true, "confidence": 0.92}`,
	}}
	v := NewValidator(provider, nil)

	result, err := v.Validate(context.Background(), "q", "a", nil)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !result.IsValid {
		t.Errorf("expected valid, got issues %v", result.Issues)
	}
	if result.Confidence != 0.92 {
		t.Errorf("confidence = %.2f, want 0.92", result.Confidence)
	}
}

func TestValidateNamesEachFailedCriterion(t *testing.T) {
	provider := &scriptedLLM{responses: []string{
		`{"answers_question": false, "grounded": false, "no_hallucination": true, "concise": true, "precise": true, "confidence": 0.9, "retry_recommended": true, "suggested_adjustment": "more documents"}`,
	}}
	v := NewValidator(provider, nil)

	result, err := v.Validate(context.Background(), "q", "a", nil)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if result.IsValid {
		t.Fatal("expected invalid")
	}
	wantIssues := map[string]bool{IssueNotAnswering: true, IssueUngrounded: true}
	if len(result.Issues) != len(wantIssues) {
		t.Errorf("issues = %v, want exactly %v", result.Issues, wantIssues)
	}
	for _, issue := range result.Issues {
		if !wantIssues[issue] {
			t.Errorf("unexpected issue %q", issue)
		}
	}
	if !result.RetryRecommended || result.SuggestedAdjustment != "more documents" {
		t.Error("retry recommendation not carried through")
	}
}

func TestValidateLowConfidenceIsInvalid(t *testing.T) {
	provider := &scriptedLLM{responses: []string{
		`{"answers_question": true, "grounded": true, "no_hallucination": true, "concise": true, "precise": true, "confidence": 0.55}`,
	}}
	v := NewValidator(provider, nil)

	result, err := v.Validate(context.Background(), "q", "a", nil)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if result.IsValid {
		t.Error("confidence below 0.70 must be invalid")
	}
	if len(result.Issues) != 1 || result.Issues[0] != IssueLowConfidence {
		t.Errorf("issues = %v, want [low_confidence]", result.Issues)
	}
}

func TestValidateConfidenceClamped(t *testing.T) {
	provider := &scriptedLLM{responses: []string{
		`{"answers_question": true, "grounded": true, "no_hallucination": true, "concise": true, "precise": true, "confidence": 1.4}`,
	}}
	v := NewValidator(provider, nil)

	result, err := v.Validate(context.Background(), "q", "a", nil)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if result.Confidence != 1.0 {
		t.Errorf("confidence = %.2f, want clamped to 1.0", result.Confidence)
	}
}

func TestValidateUnparseableOutputIsError(t *testing.T) {
	provider := &scriptedLLM{responses: []string{"the answer looks fine to me"}}
	v := NewValidator(provider, nil)

	if _, err := v.Validate(context.Background(), "q", "a", nil); err == nil {
		t.Fatal("expected parse error for non-JSON output")
	}
}

func TestFailOpenTagged(t *testing.T) {
	result := FailOpen(FailOpenRateLimited)
	if !result.IsValid {
		t.Error("fail-open result must be valid")
	}
	if len(result.Tags) != 1 || result.Tags[0] != "fail_open:rate_limited" {
		t.Errorf("tags = %v, want [fail_open:rate_limited]", result.Tags)
	}
}
