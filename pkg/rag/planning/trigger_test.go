package planning

import (
	"testing"

	"ai-chatbot-be/pkg/rag/intent"
)

func TestShouldPlan(t *testing.T) {
	tests := []struct {
		name   string
		intent intent.Intent
		text   string
		want   bool
	}{
		{"unknown intent always plans", intent.IntentUnknown, "do the thing", true},
		{"sequencing words", intent.IntentQuestion, "first tell me your prices, then email them to me", true},
		{"two question marks", intent.IntentQuestion, "what are your prices? and your opening hours?", true},
		{"two and-joins", intent.IntentQuestion, "prices and opening hours and your address please", true},
		{"plain question", intent.IntentQuestion, "what are your prices?", false},
		{"greeting", intent.IntentGreeting, "hello there", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldPlan(tt.intent, tt.text); got != tt.want {
				t.Errorf("ShouldPlan(%s, %q) = %v, want %v", tt.intent, tt.text, got, tt.want)
			}
		})
	}
}
