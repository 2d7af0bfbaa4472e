package generation

import (
	"context"
	"errors"
	"testing"

	"ai-chatbot-be/pkg/rag/retrieval"
)

type fakeRetriever struct {
	result *retrieval.Result
	calls  []retrieval.Config
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, scope retrieval.TenantScope, cfg retrieval.Config) *retrieval.Result {
	f.calls = append(f.calls, cfg)
	return f.result
}

func withContext() *retrieval.Result {
	return &retrieval.Result{
		Candidates:   []retrieval.Candidate{{Content: "Our plans start at $10/month.", Similarity: 0.8}},
		Tier:         retrieval.TierPrimary,
		ContextFound: true,
	}
}

const invalidVerdict = `{"answers_question": false, "grounded": true, "no_hallucination": true, "concise": true, "precise": true, "confidence": 0.9, "retry_recommended": true, "suggested_adjustment": "lower threshold"}`
const validVerdict = `{"answers_question": true, "grounded": true, "no_hallucination": true, "concise": true, "precise": true, "confidence": 0.9}`

func TestLoopValidFirstAttempt(t *testing.T) {
	retriever := &fakeRetriever{result: withContext()}
	genLLM := &scriptedLLM{responses: []string{"Plans start at $10/month."}}
	valLLM := &scriptedLLM{responses: []string{validVerdict}}
	loop := NewLoop(retriever, NewGenerator(genLLM, nil), NewValidator(valLLM, nil), DefaultMaxRetries, nil)

	result := loop.Run(context.Background(), "how much?", retrieval.TenantScope{}, retrieval.DefaultConfig(), nil, nil)

	if result.Response != "Plans start at $10/month." {
		t.Errorf("response = %q", result.Response)
	}
	if result.Retries != 0 {
		t.Errorf("retries = %d, want 0", result.Retries)
	}
	if !result.Validation.IsValid {
		t.Error("expected valid result")
	}
}

func TestLoopRetryCapBoundsGenerationCalls(t *testing.T) {
	retriever := &fakeRetriever{result: withContext()}
	genLLM := &scriptedLLM{responses: []string{"attempt"}}
	valLLM := &scriptedLLM{responses: []string{invalidVerdict}}
	loop := NewLoop(retriever, NewGenerator(genLLM, nil), NewValidator(valLLM, nil), DefaultMaxRetries, nil)

	result := loop.Run(context.Background(), "q", retrieval.TenantScope{}, retrieval.DefaultConfig(), nil, nil)

	if genLLM.calls != DefaultMaxRetries+1 {
		t.Errorf("generation calls = %d, want %d", genLLM.calls, DefaultMaxRetries+1)
	}
	if result.Retries != DefaultMaxRetries {
		t.Errorf("retries = %d, want %d", result.Retries, DefaultMaxRetries)
	}
	if result.Validation.IsValid {
		t.Error("exhausted result must stay invalid")
	}
	if result.Response != "attempt" {
		t.Errorf("exhausted loop must still return the last answer, got %q", result.Response)
	}
}

func TestLoopAdjustmentLowersThreshold(t *testing.T) {
	retriever := &fakeRetriever{result: withContext()}
	genLLM := &scriptedLLM{responses: []string{"attempt"}}
	valLLM := &scriptedLLM{responses: []string{invalidVerdict, validVerdict}}
	loop := NewLoop(retriever, NewGenerator(genLLM, nil), NewValidator(valLLM, nil), DefaultMaxRetries, nil)

	cfg := retrieval.DefaultConfig()
	loop.Run(context.Background(), "q", retrieval.TenantScope{}, cfg, nil, nil)

	if len(retriever.calls) != 2 {
		t.Fatalf("retrieval calls = %d, want 2", len(retriever.calls))
	}
	want := cfg.Threshold - 0.10
	if got := retriever.calls[1].Threshold; got != want {
		t.Errorf("retry threshold = %.2f, want %.2f", got, want)
	}
}

func TestLoopAdjustmentThresholdFloor(t *testing.T) {
	cfg := retrieval.DefaultConfig()
	cfg.Threshold = 0.25

	adjusted, _ := applyAdjustment(cfg, false, "please lower threshold")
	if adjusted.Threshold != cfg.AbsoluteFloor {
		t.Errorf("threshold = %.2f, want clamped to %.2f", adjusted.Threshold, cfg.AbsoluteFloor)
	}
}

func TestLoopAdjustmentMoreDocumentsCapped(t *testing.T) {
	cfg := retrieval.DefaultConfig()
	cfg.TopK = 15

	adjusted, _ := applyAdjustment(cfg, false, "fetch more documents")
	if adjusted.TopK != 20 {
		t.Errorf("topK = %d, want capped at 20", adjusted.TopK)
	}
}

func TestLoopAdjustmentRephrase(t *testing.T) {
	cfg := retrieval.DefaultConfig()
	_, rephrase := applyAdjustment(cfg, false, "rephrase the answer")
	if !rephrase {
		t.Error("rephrase flag not set")
	}
}

func TestLoopNoContextFallback(t *testing.T) {
	retriever := &fakeRetriever{result: &retrieval.Result{ContextFound: false}}
	genLLM := &scriptedLLM{}
	loop := NewLoop(retriever, NewGenerator(genLLM, nil), NewValidator(&scriptedLLM{}, nil), DefaultMaxRetries, nil)

	result := loop.Run(context.Background(), "q", retrieval.TenantScope{}, retrieval.DefaultConfig(), nil, nil)

	if result.Response != FallbackNoContext {
		t.Errorf("response = %q, want no-context fallback", result.Response)
	}
	if genLLM.calls != 0 {
		t.Error("generation must not run without context")
	}
}

func TestLoopGenerationErrorFallback(t *testing.T) {
	retriever := &fakeRetriever{result: withContext()}
	genLLM := &scriptedLLM{errs: []error{errors.New("connection refused")}}
	valLLM := &scriptedLLM{}
	loop := NewLoop(retriever, NewGenerator(genLLM, nil), NewValidator(valLLM, nil), DefaultMaxRetries, nil)

	result := loop.Run(context.Background(), "q", retrieval.TenantScope{}, retrieval.DefaultConfig(), nil, nil)

	if result.Response != FallbackGenerationError {
		t.Errorf("response = %q, want generation-error fallback", result.Response)
	}
	if valLLM.calls != 0 {
		t.Error("validation must not run after a failed generation")
	}
}

func TestLoopValidatorErrorFailsOpen(t *testing.T) {
	retriever := &fakeRetriever{result: withContext()}
	genLLM := &scriptedLLM{responses: []string{"the answer"}}
	valLLM := &scriptedLLM{errs: []error{errors.New("boom")}}
	loop := NewLoop(retriever, NewGenerator(genLLM, nil), NewValidator(valLLM, nil), DefaultMaxRetries, nil)

	result := loop.Run(context.Background(), "q", retrieval.TenantScope{}, retrieval.DefaultConfig(), nil, nil)

	if result.Response != "the answer" {
		t.Errorf("fail-open must keep the answer, got %q", result.Response)
	}
	if !result.Validation.IsValid {
		t.Error("fail-open result must be valid")
	}
	if len(result.Validation.Tags) != 1 || result.Validation.Tags[0] != "fail_open:"+FailOpenValidatorError {
		t.Errorf("tags = %v", result.Validation.Tags)
	}
}

func TestLoopRateLimitShortCircuits(t *testing.T) {
	retriever := &fakeRetriever{result: withContext()}
	genLLM := &scriptedLLM{responses: []string{"the answer"}}
	valLLM := &scriptedLLM{errs: []error{errors.New("429 too many requests")}}
	loop := NewLoop(retriever, NewGenerator(genLLM, nil), NewValidator(valLLM, nil), DefaultMaxRetries, nil)

	result := loop.Run(context.Background(), "q", retrieval.TenantScope{}, retrieval.DefaultConfig(), nil, nil)

	if genLLM.calls != 1 {
		t.Errorf("generation calls = %d, want 1 (no retries under rate limit)", genLLM.calls)
	}
	if len(result.Validation.Tags) != 1 || result.Validation.Tags[0] != "fail_open:"+FailOpenRateLimited {
		t.Errorf("tags = %v", result.Validation.Tags)
	}
}
