package planning

import (
	"ai-chatbot-be/pkg/rag/intent"
)

// ShouldPlan decides whether a turn goes down the multi-step planning path
// instead of the single-shot retrieval path.
func ShouldPlan(classified intent.Intent, raw string) bool {
	if classified == intent.IntentUnknown {
		return true
	}
	return intent.HasMultiStepMarkers(raw)
}
