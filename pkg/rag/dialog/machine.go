package dialog

import (
	"log"
	"regexp"

	"ai-chatbot-be/pkg/rag/intent"
)

// Conversation-level states tracked across turns.
const (
	StateIdle             = "IDLE"
	StateGreeting         = "GREETING"
	StateAwaitingQuestion = "AWAITING_QUESTION"
	StateAnswering        = "ANSWERING"
	StateFollowup         = "FOLLOWUP"
	StateClosing          = "CLOSING"
	StateHelp             = "HELP"
)

// Lexical triggers layered on top of intent.
var (
	questionSignalRe = regexp.MustCompile(`(?i)\b(i\s+have\s+(one|another|a)(\s+more)?\s+question|one\s+more\s+question|can\s+i\s+ask)\b`)
	affirmativeRe    = regexp.MustCompile(`(?i)^\s*(yes|ok|okay|yep|yeah|sure|alright)[\s!.]*$`)
	followupLeadRe   = regexp.MustCompile(`(?i)^\s*(also|and)\b`)
)

// Machine is the dialog state machine. All transitions go through Next;
// nothing else mutates dialog state.
type Machine struct {
	logger *log.Logger
}

func NewMachine(logger *log.Logger) *Machine {
	return &Machine{logger: logger}
}

// Next computes the state after a turn classified as it with raw text raw.
// Lexical triggers outrank the intent-based transition table.
func (m *Machine) Next(current string, it intent.Intent, raw string) string {
	if current == "" {
		current = StateIdle
	}

	next := m.transition(current, it, raw)
	if m.logger != nil && next != current {
		m.logger.Printf("[STATE] %s -> %s (intent=%s)", current, next, it)
	}
	return next
}

func (m *Machine) transition(current string, it intent.Intent, raw string) string {
	// Phrases signaling intent to ask force AWAITING_QUESTION from any state.
	if questionSignalRe.MatchString(raw) {
		return StateAwaitingQuestion
	}

	// Short affirmatives hold AWAITING_QUESTION.
	if current == StateAwaitingQuestion && affirmativeRe.MatchString(raw) {
		return StateAwaitingQuestion
	}

	// A leading "also"/"and" while answering promotes to FOLLOWUP.
	if (current == StateAnswering || current == StateFollowup) && followupLeadRe.MatchString(raw) {
		return StateFollowup
	}

	switch it {
	case intent.IntentGreeting:
		return StateGreeting
	case intent.IntentFarewell:
		return StateClosing
	case intent.IntentHelp:
		return StateHelp
	case intent.IntentGratitude:
		if current == StateClosing {
			return StateClosing
		}
		if current == StateAnswering || current == StateFollowup {
			return StateFollowup
		}
		return current
	case intent.IntentQuestion, intent.IntentUnknown:
		if current == StateAnswering || current == StateFollowup {
			return StateFollowup
		}
		return StateAnswering
	case intent.IntentUnclear:
		return StateAwaitingQuestion
	case intent.IntentChitChat, intent.IntentOutOfScope:
		return current
	default:
		return current
	}
}

// OverrideIntent implements the context-outranks-content rule: while in
// AWAITING_QUESTION, any message that is not itself a greeting, farewell, or
// a new question-signal is force-reclassified as QUESTION, whatever the
// pattern/semantic/LLM stages would have said. Bare affirmatives are left to
// the state short-circuit instead.
func (m *Machine) OverrideIntent(state string, text string) (intent.Intent, bool) {
	if state != StateAwaitingQuestion {
		return "", false
	}
	if intent.IsGreeting(text) || intent.IsFarewell(text) {
		return "", false
	}
	if questionSignalRe.MatchString(text) {
		return "", false
	}
	if affirmativeRe.MatchString(text) {
		return "", false
	}
	return intent.IntentQuestion, true
}

// IsHoldingAffirmative reports whether raw is a bare affirmative holding
// AWAITING_QUESTION ("yes", "ok"), which short-circuits the pipeline with a
// canned prompt.
func (m *Machine) IsHoldingAffirmative(state string, raw string) bool {
	return state == StateAwaitingQuestion && affirmativeRe.MatchString(raw)
}
