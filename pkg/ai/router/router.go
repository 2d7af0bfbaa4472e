package router

import (
	"ai-chatbot-be/pkg/rag/intent"
	"ai-chatbot-be/pkg/rag/planning"
)

// Route is the path a classified turn takes through the pipeline.
type Route string

const (
	RouteTemplate Route = "template"
	RouteRAG      Route = "rag"
	RoutePlan     Route = "plan"
)

// templateIntents resolve on canned replies without touching retrieval.
var templateIntents = map[intent.Intent]bool{
	intent.IntentGreeting:   true,
	intent.IntentFarewell:   true,
	intent.IntentGratitude:  true,
	intent.IntentHelp:       true,
	intent.IntentChitChat:   true,
	intent.IntentUnclear:    true,
	intent.IntentOutOfScope: true,
}

// Decide picks the route for one turn. holdingAffirmative marks a bare
// affirmative that keeps the session waiting for an actual question.
func Decide(classification intent.Classification, normalized string, holdingAffirmative bool) Route {
	if holdingAffirmative {
		return RouteTemplate
	}
	if templateIntents[classification.Intent] {
		return RouteTemplate
	}
	if planning.ShouldPlan(classification.Intent, normalized) {
		return RoutePlan
	}
	return RouteRAG
}
