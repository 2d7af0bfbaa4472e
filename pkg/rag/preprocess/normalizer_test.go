package preprocess

import (
	"testing"
)

func TestNormalizeMisspellings(t *testing.T) {
	n := NewNormalizer("", "", nil)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "contact typo",
			input: "how do I contcat support",
			want:  "how do I contact support",
		},
		{
			name:  "email typo",
			input: "whats your emial adress",
			want:  "what is your email address",
		},
		{
			name:  "services typo",
			input: "tell me about your servises",
			want:  "tell me about your services",
		},
		{
			name:  "business and pricing typos",
			input: "bussiness priceing info",
			want:  "business pricing info",
		},
		{
			name:  "case preserved elsewhere",
			input: "Can I Shedule a call?",
			want:  "Can I schedule a call?",
		},
		{
			name:  "clean input untouched",
			input: "What are your opening hours?",
			want:  "What are your opening hours?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeBrandCanonicalization(t *testing.T) {
	n := NewNormalizer("acme", "Acme Industrial Solutions", nil)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare brand expanded",
			input: "does acme offer refunds",
			want:  "does Acme Industrial Solutions offer refunds",
		},
		{
			name:  "already qualified untouched",
			input: "does Acme Industrial Solutions offer refunds",
			want:  "does Acme Industrial Solutions offer refunds",
		},
		{
			name:  "no brand mention",
			input: "do you offer refunds",
			want:  "do you offer refunds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
