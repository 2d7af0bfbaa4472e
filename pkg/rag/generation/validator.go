package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag/retrieval"
)

// minValidConfidence is the validator's acceptance floor.
const minValidConfidence = 0.70

// Named defects a validation can report.
const (
	IssueNotAnswering  = "not_answering"
	IssueUngrounded    = "ungrounded"
	IssueHallucination = "hallucination"
	IssueVerbose       = "verbose"
	IssueImprecise     = "imprecise"
	IssueLowConfidence = "low_confidence"
)

// ValidationResult is the outcome of self-checking one generation attempt.
type ValidationResult struct {
	IsValid             bool
	Confidence          float64
	Issues              []string
	RetryRecommended    bool
	SuggestedAdjustment string
	// Tags carry observability markers ("fail_open:...", "rate_limited");
	// tagged results are identical in shape to genuine outcomes.
	Tags []string
}

// Validator scores a (query, response, sources) triple via a second LLM call.
type Validator struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewValidator(provider llm.LLMProvider, logger *log.Logger) *Validator {
	return &Validator{provider: provider, logger: logger}
}

type validatorResponse struct {
	AnswersQuestion     bool    `json:"answers_question"`
	Grounded            bool    `json:"grounded"`
	NoHallucination     bool    `json:"no_hallucination"`
	Concise             bool    `json:"concise"`
	Precise             bool    `json:"precise"`
	Confidence          float64 `json:"confidence"`
	RetryRecommended    bool    `json:"retry_recommended"`
	SuggestedAdjustment string  `json:"suggested_adjustment"`
}

func (v *Validator) Validate(ctx context.Context, query, response string, sources []retrieval.Candidate) (*ValidationResult, error) {
	prompt := v.buildPrompt(query, response, sources)

	raw, err := v.provider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("validation call: %w", err)
	}

	parsed, err := parseValidatorResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("validation parse: %w", err)
	}

	result := &ValidationResult{
		Confidence:          clamp01(parsed.Confidence),
		RetryRecommended:    parsed.RetryRecommended,
		SuggestedAdjustment: parsed.SuggestedAdjustment,
	}

	if !parsed.AnswersQuestion {
		result.Issues = append(result.Issues, IssueNotAnswering)
	}
	if !parsed.Grounded {
		result.Issues = append(result.Issues, IssueUngrounded)
	}
	if !parsed.NoHallucination {
		result.Issues = append(result.Issues, IssueHallucination)
	}
	if !parsed.Concise {
		result.Issues = append(result.Issues, IssueVerbose)
	}
	if !parsed.Precise {
		result.Issues = append(result.Issues, IssueImprecise)
	}
	if result.Confidence < minValidConfidence {
		result.Issues = append(result.Issues, IssueLowConfidence)
	}

	result.IsValid = len(result.Issues) == 0

	if v.logger != nil {
		v.logger.Printf("[VALIDATE] valid=%v confidence=%.2f issues=%v", result.IsValid, result.Confidence, result.Issues)
	}
	return result, nil
}

func (v *Validator) buildPrompt(query, response string, sources []retrieval.Candidate) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a strict reviewer of support-bot answers. You never answer the question yourself.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<sources>\n")
	for i, s := range sources {
		prompt.WriteString(fmt.Sprintf("[Source %d] %s\n", i+1, s.Content))
	}
	prompt.WriteString("</sources>\n\n")

	prompt.WriteString("<question>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</question>\n\n")

	prompt.WriteString("<answer>\n")
	prompt.WriteString(response)
	prompt.WriteString("\n</answer>\n\n")

	prompt.WriteString("<criteria>\n")
	prompt.WriteString("answers_question: the answer addresses what was asked\n")
	prompt.WriteString("grounded: every claim is supported by the sources\n")
	prompt.WriteString("no_hallucination: nothing is invented beyond the sources\n")
	prompt.WriteString("concise: no filler, no repetition\n")
	prompt.WriteString("precise: specific facts, not vague generalities\n")
	prompt.WriteString("</criteria>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"answers_question\": true,\n")
	prompt.WriteString("  \"grounded\": true,\n")
	prompt.WriteString("  \"no_hallucination\": true,\n")
	prompt.WriteString("  \"concise\": true,\n")
	prompt.WriteString("  \"precise\": true,\n")
	prompt.WriteString("  \"confidence\": 0.9,\n")
	prompt.WriteString("  \"retry_recommended\": false,\n")
	prompt.WriteString("  \"suggested_adjustment\": \"e.g. lower threshold / more documents / rephrase, or empty\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func parseValidatorResponse(raw string) (*validatorResponse, error) {
	startIdx := strings.Index(raw, "{")
	endIdx := strings.LastIndex(raw, "}")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return nil, fmt.Errorf("no JSON found in validator response")
	}

	var parsed validatorResponse
	if err := json.Unmarshal([]byte(raw[startIdx:endIdx+1]), &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
