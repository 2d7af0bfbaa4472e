package dialog

import (
	"testing"

	"ai-chatbot-be/pkg/rag/intent"
)

func TestNextTransitions(t *testing.T) {
	m := NewMachine(nil)

	tests := []struct {
		name    string
		current string
		intent  intent.Intent
		raw     string
		want    string
	}{
		{"greeting from idle", StateIdle, intent.IntentGreeting, "hi", StateGreeting},
		{"farewell closes", StateAnswering, intent.IntentFarewell, "bye", StateClosing},
		{"help from anywhere", StateFollowup, intent.IntentHelp, "what can you do", StateHelp},
		{"question starts answering", StateGreeting, intent.IntentQuestion, "what are your prices", StateAnswering},
		{"second question is followup", StateAnswering, intent.IntentQuestion, "what about delivery", StateFollowup},
		{"unclear awaits question", StateGreeting, intent.IntentUnclear, "services", StateAwaitingQuestion},
		{"question signal forces awaiting", StateAnswering, intent.IntentQuestion, "I have one more question", StateAwaitingQuestion},
		{"affirmative holds awaiting", StateAwaitingQuestion, intent.IntentChitChat, "yes", StateAwaitingQuestion},
		{"leading also promotes followup", StateAnswering, intent.IntentQuestion, "also, do you ship abroad", StateFollowup},
		{"gratitude after answer is followup", StateAnswering, intent.IntentGratitude, "thanks", StateFollowup},
		{"gratitude while closing stays closing", StateClosing, intent.IntentGratitude, "thanks bye", StateClosing},
		{"gratitude early holds state", StateGreeting, intent.IntentGratitude, "thanks", StateGreeting},
		{"chit chat holds state", StateAnswering, intent.IntentChitChat, "haha nice", StateAnswering},
		{"out of scope holds state", StateFollowup, intent.IntentOutOfScope, "write me a poem", StateFollowup},
		{"empty current treated as idle", "", intent.IntentChitChat, "how are you", StateIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Next(tt.current, tt.intent, tt.raw)
			if got != tt.want {
				t.Errorf("Next(%s, %s, %q) = %s, want %s", tt.current, tt.intent, tt.raw, got, tt.want)
			}
		})
	}
}

func TestOverrideIntent(t *testing.T) {
	m := NewMachine(nil)

	tests := []struct {
		name      string
		state     string
		text      string
		wantOk    bool
		wantForce intent.Intent
	}{
		{"plain message while awaiting", StateAwaitingQuestion, "the blue one on your homepage", true, intent.IntentQuestion},
		{"lol while awaiting still forced", StateAwaitingQuestion, "lol", true, intent.IntentQuestion},
		{"greeting not overridden", StateAwaitingQuestion, "hello", false, ""},
		{"farewell not overridden", StateAwaitingQuestion, "bye", false, ""},
		{"question signal not overridden", StateAwaitingQuestion, "can I ask something else", false, ""},
		{"affirmative not overridden", StateAwaitingQuestion, "yes", false, ""},
		{"no override outside awaiting", StateAnswering, "the blue one", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forced, ok := m.OverrideIntent(tt.state, tt.text)
			if ok != tt.wantOk {
				t.Fatalf("OverrideIntent(%s, %q) ok = %v, want %v", tt.state, tt.text, ok, tt.wantOk)
			}
			if ok && forced != tt.wantForce {
				t.Errorf("OverrideIntent(%s, %q) = %s, want %s", tt.state, tt.text, forced, tt.wantForce)
			}
		})
	}
}

func TestIsHoldingAffirmative(t *testing.T) {
	m := NewMachine(nil)

	if !m.IsHoldingAffirmative(StateAwaitingQuestion, "yes") {
		t.Error("expected bare yes to hold AWAITING_QUESTION")
	}
	if !m.IsHoldingAffirmative(StateAwaitingQuestion, "Okay!") {
		t.Error("expected okay to hold AWAITING_QUESTION")
	}
	if m.IsHoldingAffirmative(StateAnswering, "yes") {
		t.Error("affirmative outside AWAITING_QUESTION must not short-circuit")
	}
	if m.IsHoldingAffirmative(StateAwaitingQuestion, "yes, what are your prices?") {
		t.Error("affirmative followed by content must not short-circuit")
	}
}

func TestStateResponse(t *testing.T) {
	resp, ok := StateResponse(StateAwaitingQuestion)
	if !ok || resp != "What would you like to know?" {
		t.Errorf("StateResponse(AWAITING_QUESTION) = %q, %v", resp, ok)
	}
	if _, ok := StateResponse(StateAnswering); ok {
		t.Error("ANSWERING must not short-circuit")
	}
}
