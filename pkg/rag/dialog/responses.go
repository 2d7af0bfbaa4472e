package dialog

import (
	"ai-chatbot-be/pkg/rag/intent"
)

// Canned replies for states that bypass retrieval and generation entirely.
var stateResponses = map[string]string{
	StateAwaitingQuestion: "What would you like to know?",
}

// Template replies for intents resolved on the fast path.
var intentResponses = map[intent.Intent]string{
	intent.IntentGreeting:   "Hello! How can I help you today?",
	intent.IntentFarewell:   "Goodbye! Feel free to come back any time.",
	intent.IntentGratitude:  "You're welcome! Is there anything else I can help you with?",
	intent.IntentHelp:       "I can answer questions about our company, services, pricing and contact details. What would you like to know?",
	intent.IntentChitChat:   "I'm doing great, thanks! I'm here to answer questions about our company and services.",
	intent.IntentUnclear:    "Could you tell me a bit more about what you'd like to know? For example, a specific service or topic.",
	intent.IntentOutOfScope: "I'm afraid that's outside what I can help with. I can answer questions about our company and its services.",
}

// StateResponse returns the canned reply for a short-circuiting state.
func StateResponse(state string) (string, bool) {
	resp, ok := stateResponses[state]
	return resp, ok
}

// IntentResponse returns the template reply for a fast-path intent.
func IntentResponse(it intent.Intent) (string, bool) {
	resp, ok := intentResponses[it]
	return resp, ok
}
