package intent

import (
	"context"
	"log"
)

// Cascade runs the classification stages in cost order: context override,
// patterns, semantic similarity, LLM fallback. Each stage may end the
// cascade; any stage failure falls back to the best already-computed result.
// Classify never returns an error.
type Cascade struct {
	overrider ContextOverrider
	semantic  *SemanticStage
	llmStage  *LLMStage
	logger    *log.Logger
}

func NewCascade(overrider ContextOverrider, semantic *SemanticStage, llmStage *LLMStage, logger *log.Logger) *Cascade {
	return &Cascade{
		overrider: overrider,
		semantic:  semantic,
		llmStage:  llmStage,
		logger:    logger,
	}
}

// Classify labels the (already normalized) text given the current dialog
// state. Total failure defaults to QUESTION at low confidence.
func (c *Cascade) Classify(ctx context.Context, text string, dialogState string) Classification {
	// Stage 1: context override. Dialog state outranks content.
	if c.overrider != nil {
		if forced, ok := c.overrider.OverrideIntent(dialogState, text); ok {
			c.logf("[CASCADE] Context override: %s (state=%s)", forced, dialogState)
			return Classification{Intent: forced, Confidence: 0.90, Stage: StageContext}
		}
	}

	// Stage 2: patterns. Terminal matches return immediately.
	best, terminal := classifyByPattern(text)
	c.logf("[CASCADE] Pattern stage: %s (%.2f, terminal=%v)", best.Intent, best.Confidence, terminal)
	if terminal {
		return best
	}

	// Stage 3: semantic similarity, only for QUESTION/UNKNOWN pattern output.
	if c.semantic != nil {
		result, accepted, err := c.semantic.Classify(ctx, text)
		if err != nil {
			c.logf("[CASCADE] Semantic stage failed, keeping %s: %v", best.Intent, err)
		} else if accepted {
			return result
		}
	}

	// Stage 4: LLM fallback.
	if c.llmStage != nil {
		result, err := c.llmStage.Classify(ctx, text)
		if err != nil {
			c.logf("[CASCADE] LLM stage failed, keeping %s: %v", best.Intent, err)
		} else if result.Confidence >= best.Confidence {
			return result
		}
	}

	if best.Intent == "" {
		return Classification{Intent: IntentQuestion, Confidence: 0.30, Stage: StageFallback}
	}
	return best
}

func (c *Cascade) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
