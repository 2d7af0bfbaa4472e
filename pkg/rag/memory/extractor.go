package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-chatbot-be/pkg/llm"
)

// Fact categories the extractor may emit.
const (
	CategoryPreference = "preference"
	CategoryContact    = "contact"
	CategoryContext    = "context"
	CategoryIssue      = "issue"
)

// maxFactsPerConversation caps how many facts one conversation may add.
const maxFactsPerConversation = 10

// minFactConfidence drops facts the model itself is unsure about.
const minFactConfidence = 0.5

// Fact is one durable statement extracted from a finished conversation.
type Fact struct {
	Content    string  `json:"content"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Extractor mines a finished conversation transcript for facts worth
// remembering across sessions.
type Extractor struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewExtractor(provider llm.LLMProvider, logger *log.Logger) *Extractor {
	return &Extractor{provider: provider, logger: logger}
}

// Extract runs one LLM call over the transcript and returns the filtered
// fact list. An empty transcript or a model that finds nothing both yield an
// empty slice, not an error.
func (e *Extractor) Extract(ctx context.Context, transcript []llm.Message) ([]Fact, error) {
	if len(transcript) == 0 {
		return nil, nil
	}

	response, err := e.provider.Generate(ctx, e.buildPrompt(transcript), llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("fact extraction: %w", err)
	}

	facts, err := parseFacts(response)
	if err != nil {
		return nil, fmt.Errorf("fact extraction parse: %w", err)
	}

	filtered := make([]Fact, 0, len(facts))
	for _, f := range facts {
		if strings.TrimSpace(f.Content) == "" || f.Confidence < minFactConfidence {
			continue
		}
		if !validCategory(f.Category) {
			f.Category = CategoryContext
		}
		filtered = append(filtered, f)
		if len(filtered) == maxFactsPerConversation {
			break
		}
	}

	if e.logger != nil {
		e.logger.Printf("[MEMORY] Extracted %d facts (%d raw)", len(filtered), len(facts))
	}
	return filtered, nil
}

func validCategory(category string) bool {
	switch category {
	case CategoryPreference, CategoryContact, CategoryContext, CategoryIssue:
		return true
	}
	return false
}

func parseFacts(response string) ([]Fact, error) {
	startIdx := strings.Index(response, "[")
	endIdx := strings.LastIndex(response, "]")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return nil, fmt.Errorf("no JSON array found")
	}

	var facts []Fact
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &facts); err != nil {
		return nil, err
	}
	return facts, nil
}

func (e *Extractor) buildPrompt(transcript []llm.Message) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You extract durable facts from a finished support conversation.\n")
	prompt.WriteString("A fact is something worth knowing in the customer's NEXT conversation.\n")
	prompt.WriteString("Ignore pleasantries and anything already answered by the knowledge base.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<conversation>\n")
	for _, m := range transcript {
		prompt.WriteString(m.Role)
		prompt.WriteString(": ")
		prompt.WriteString(m.Content)
		prompt.WriteString("\n")
	}
	prompt.WriteString("</conversation>\n\n")

	prompt.WriteString("<categories>\n")
	prompt.WriteString("preference: how the customer wants to be served\n")
	prompt.WriteString("contact: contact details the customer shared\n")
	prompt.WriteString("context: situation or background the customer described\n")
	prompt.WriteString("issue: an unresolved problem to follow up on\n")
	prompt.WriteString("</categories>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY a valid JSON array (possibly empty):\n")
	prompt.WriteString("[{\"content\": \"...\", \"category\": \"preference|contact|context|issue\", \"confidence\": 0.9}]\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}
