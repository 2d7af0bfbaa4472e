package generation

import (
	"context"
	"log"

	"ai-chatbot-be/pkg/llm"
)

// Generator issues the answer-generation call.
type Generator struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewGenerator(provider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{provider: provider, logger: logger}
}

func (g *Generator) Answer(ctx context.Context, prompt string) (string, error) {
	response, err := g.provider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		if g.logger != nil {
			g.logger.Printf("[GENERATE] LLM error: %v", err)
		}
		return "", err
	}
	return response, nil
}
