package generation

import (
	"context"
	"log"
	"strings"
	"time"

	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag/retrieval"
)

// DefaultMaxRetries bounds the validation retry loop.
const DefaultMaxRetries = 2

// Retriever is the retrieval primitive the loop re-runs with adjusted
// parameters between attempts.
type Retriever interface {
	Retrieve(ctx context.Context, query string, scope retrieval.TenantScope, cfg retrieval.Config) *retrieval.Result
}

// Latency is the per-stage timing of one loop run (cumulative across
// retries).
type Latency struct {
	Retrieve time.Duration
	Generate time.Duration
	Validate time.Duration
}

// LoopResult is the terminal outcome of the generation & validation loop.
type LoopResult struct {
	Response     string
	Sources      []retrieval.Candidate
	ContextFound bool
	Validation   *ValidationResult
	Retries      int
	Latency      Latency
}

// Loop runs retrieve -> generate -> validate with an explicit retry state
// machine: while the result is invalid, a retry is recommended, the retry
// budget is not exhausted, and no rate limit was hit, it adjusts retrieval
// parameters per the validator's suggestion and re-runs. Run never returns
// an error; every failure path resolves to a well-formed result.
type Loop struct {
	retriever  Retriever
	generator  *Generator
	validator  *Validator
	maxRetries int
	logger     *log.Logger
}

func NewLoop(retriever Retriever, generator *Generator, validator *Validator, maxRetries int, logger *log.Logger) *Loop {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Loop{
		retriever:  retriever,
		generator:  generator,
		validator:  validator,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Run executes the loop for one normalized query.
func (l *Loop) Run(ctx context.Context, query string, scope retrieval.TenantScope, cfg retrieval.Config, history []llm.Message, facts []string) *LoopResult {
	result := &LoopResult{}
	rephrase := false

	for {
		t0 := time.Now()
		retrieved := l.retriever.Retrieve(ctx, query, scope, cfg)
		result.Latency.Retrieve += time.Since(t0)

		if !retrieved.ContextFound {
			result.Response = FallbackNoContext
			result.ContextFound = false
			l.logTerminal(result, "no_context")
			return result
		}
		result.Sources = retrieved.Candidates
		result.ContextFound = true

		prompt := NewAnswerPrompt(query, retrieved.Candidates, history, facts)
		if rephrase {
			prompt = prompt.WithRephrase()
		}

		t0 = time.Now()
		answer, err := l.generator.Answer(ctx, prompt.Build())
		result.Latency.Generate += time.Since(t0)
		if err != nil {
			result.Response = FallbackGenerationError
			l.logTerminal(result, "generation_error")
			return result
		}
		result.Response = answer

		t0 = time.Now()
		validation, err := l.validator.Validate(ctx, query, answer, retrieved.Candidates)
		result.Latency.Validate += time.Since(t0)
		if err != nil {
			// Fail open: the validator must not block the answer.
			reason := FailOpenValidatorError
			if llm.IsRateLimited(err) {
				reason = FailOpenRateLimited
			}
			result.Validation = FailOpen(reason)
			l.logTerminal(result, "fail_open:"+reason)
			return result
		}
		result.Validation = validation

		if validation.IsValid {
			l.logTerminal(result, "valid")
			return result
		}

		if !validation.RetryRecommended || result.Retries >= l.maxRetries {
			l.logTerminal(result, "retries_exhausted")
			return result
		}

		cfg, rephrase = applyAdjustment(cfg, rephrase, validation.SuggestedAdjustment)
		result.Retries++
		l.logf("[LOOP] Retry %d/%d (adjustment=%q)", result.Retries, l.maxRetries, validation.SuggestedAdjustment)
	}
}

// applyAdjustment keyword-matches the validator's free-text suggestion onto
// a parameter change for the next attempt.
func applyAdjustment(cfg retrieval.Config, rephrase bool, suggestion string) (retrieval.Config, bool) {
	lower := strings.ToLower(suggestion)
	switch {
	case strings.Contains(lower, "lower threshold"):
		cfg.Threshold -= 0.10
		if cfg.Threshold < cfg.AbsoluteFloor {
			cfg.Threshold = cfg.AbsoluteFloor
		}
	case strings.Contains(lower, "more documents"):
		cfg.TopK *= 2
		if cfg.TopK > 20 {
			cfg.TopK = 20
		}
	case strings.Contains(lower, "rephrase"):
		rephrase = true
	}
	return cfg, rephrase
}

func (l *Loop) logTerminal(result *LoopResult, outcome string) {
	confidence := 0.0
	if result.Validation != nil {
		confidence = result.Validation.Confidence
	}
	l.logf("[LOOP] Done (%s): confidence=%.2f retries=%d latency retrieve=%s generate=%s validate=%s",
		outcome, confidence, result.Retries,
		result.Latency.Retrieve, result.Latency.Generate, result.Latency.Validate)
}

func (l *Loop) logf(format string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Printf(format, args...)
	}
}
