package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-chatbot-be/pkg/llm"
)

// The LLM fallback classifies into a coarse four-way label set which is then
// mapped onto pipeline intents. AMBIGUOUS defaults to QUESTION rather than
// dead-ending the turn; unknown labels take the same safe default.
type llmMapping struct {
	intent     Intent
	confidence float64
}

var llmLabelTable = map[string]llmMapping{
	"CONVERSATIONAL":    {IntentChitChat, 0.80},
	"KNOWLEDGE_SEEKING": {IntentQuestion, 0.85},
	"OUT_OF_SCOPE":      {IntentOutOfScope, 0.80},
	"AMBIGUOUS":         {IntentQuestion, 0.50},
}

var llmDefaultMapping = llmMapping{IntentQuestion, 0.50}

// LLMStage is the last cascade stage: a single classification call.
type LLMStage struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewLLMStage(provider llm.LLMProvider, logger *log.Logger) *LLMStage {
	return &LLMStage{provider: provider, logger: logger}
}

type llmClassifyResponse struct {
	Label string `json:"label"`
}

func (s *LLMStage) Classify(ctx context.Context, text string) (Classification, error) {
	prompt := s.buildPrompt(text)

	response, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return Classification{}, fmt.Errorf("llm classification: %w", err)
	}

	label := parseLabel(response)
	mapping, ok := llmLabelTable[label]
	if !ok {
		mapping = llmDefaultMapping
	}

	if s.logger != nil {
		s.logger.Printf("[LLM-CLASSIFY] Label: %s -> %s (%.2f)", label, mapping.intent, mapping.confidence)
	}

	return Classification{Intent: mapping.intent, Confidence: mapping.confidence, Stage: StageLLM}, nil
}

func (s *LLMStage) buildPrompt(text string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a message classifier for a company support chatbot.\n")
	prompt.WriteString("You do NOT answer the message. You only classify it.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<message>\n")
	prompt.WriteString(text)
	prompt.WriteString("\n</message>\n\n")

	prompt.WriteString("<labels>\n")
	prompt.WriteString("CONVERSATIONAL: small talk, social phrases, no information need\n")
	prompt.WriteString("KNOWLEDGE_SEEKING: asks about the company, its services, prices, contact details\n")
	prompt.WriteString("OUT_OF_SCOPE: unrelated to the company or its services\n")
	prompt.WriteString("AMBIGUOUS: cannot tell with confidence\n")
	prompt.WriteString("</labels>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\"label\": \"CONVERSATIONAL|KNOWLEDGE_SEEKING|OUT_OF_SCOPE|AMBIGUOUS\"}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func parseLabel(response string) string {
	jsonContent := extractJSON(response)
	if jsonContent != "" {
		var parsed llmClassifyResponse
		if err := json.Unmarshal([]byte(jsonContent), &parsed); err == nil && parsed.Label != "" {
			return strings.ToUpper(strings.TrimSpace(parsed.Label))
		}
	}
	// Some models answer with the bare label
	return strings.ToUpper(strings.TrimSpace(response))
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
