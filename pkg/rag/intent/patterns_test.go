package intent

import (
	"testing"
)

func TestGreetingPatterns(t *testing.T) {
	// Case and punctuation must not matter.
	greetings := []string{
		"hi", "Hi", "HI!", "hello", "Hello.", "hey", "Good morning",
		"good evening!", "hola", "Buenos dias", "bonjour", "Hallo",
		"guten Tag", "ciao", "Buongiorno",
	}

	for _, g := range greetings {
		result, terminal := classifyByPattern(g)
		if !terminal {
			t.Errorf("classifyByPattern(%q) not terminal", g)
		}
		if result.Intent != IntentGreeting {
			t.Errorf("classifyByPattern(%q) = %s, want GREETING", g, result.Intent)
		}
		if result.Confidence < 0.9 {
			t.Errorf("classifyByPattern(%q) confidence %.2f, want >= 0.9", g, result.Confidence)
		}
	}
}

func TestFarewellAndGratitudePatterns(t *testing.T) {
	tests := []struct {
		input string
		want  Intent
	}{
		{"bye", IntentFarewell},
		{"Goodbye!", IntentFarewell},
		{"see you later", IntentFarewell},
		{"au revoir", IntentFarewell},
		{"auf Wiedersehen", IntentFarewell},
		{"thanks", IntentGratitude},
		{"Thank you so much!", IntentGratitude},
		{"merci beaucoup", IntentGratitude},
		{"danke", IntentGratitude},
		{"grazie mille", IntentGratitude},
	}

	for _, tt := range tests {
		result, terminal := classifyByPattern(tt.input)
		if !terminal {
			t.Errorf("classifyByPattern(%q) not terminal", tt.input)
		}
		if result.Intent != tt.want {
			t.Errorf("classifyByPattern(%q) = %s, want %s", tt.input, result.Intent, tt.want)
		}
	}
}

func TestHelpVersusOwnershipDisambiguation(t *testing.T) {
	tests := []struct {
		input        string
		want         Intent
		wantTerminal bool
	}{
		{"what can you do", IntentHelp, true},
		{"who are you", IntentHelp, true},
		{"how does this work?", IntentHelp, true},
		{"what are your services", IntentQuestion, false},
		{"what are your prices?", IntentQuestion, false},
		{"tell me about your company", IntentQuestion, false},
	}

	for _, tt := range tests {
		result, terminal := classifyByPattern(tt.input)
		if result.Intent != tt.want {
			t.Errorf("classifyByPattern(%q) = %s, want %s", tt.input, result.Intent, tt.want)
		}
		if terminal != tt.wantTerminal {
			t.Errorf("classifyByPattern(%q) terminal = %v, want %v", tt.input, terminal, tt.wantTerminal)
		}
	}
}

func TestVagueTopicReturnsUnclear(t *testing.T) {
	vague := []string{"services", "more info", "prices", "contact details"}
	for _, v := range vague {
		result, terminal := classifyByPattern(v)
		if !terminal || result.Intent != IntentUnclear {
			t.Errorf("classifyByPattern(%q) = %s (terminal=%v), want terminal UNCLEAR", v, result.Intent, terminal)
		}
	}

	// A question mark or length disqualifies the vague-topic rule.
	result, _ := classifyByPattern("what services do you offer to small businesses?")
	if result.Intent == IntentUnclear {
		t.Errorf("long question misclassified as UNCLEAR")
	}
}

func TestHasMultiStepMarkers(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"first tell me your prices, then send me an email", true},
		{"what are your prices? and your address? and opening hours?", true},
		{"book a demo and send the invoice and update my email", true},
		{"what are your prices?", false},
		{"cheese and wine", false},
	}

	for _, tt := range tests {
		if got := HasMultiStepMarkers(tt.input); got != tt.want {
			t.Errorf("HasMultiStepMarkers(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
