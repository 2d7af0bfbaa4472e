package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"ai-chatbot-be/pkg/ai/pipeline"
	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag/dialog"
	"ai-chatbot-be/pkg/rag/executor"
	"ai-chatbot-be/pkg/rag/generation"
	"ai-chatbot-be/pkg/rag/intent"
	"ai-chatbot-be/pkg/rag/planning"
	"ai-chatbot-be/pkg/rag/preprocess"
	"ai-chatbot-be/pkg/rag/retrieval"
	"ai-chatbot-be/pkg/store"
	"ai-chatbot-be/pkg/tools"
)

// Runs the full query pipeline offline against a canned knowledge base and a
// scripted model, so the routing, state and retry behavior can be inspected
// without a database or an LLM backend.

type scriptedLLM struct{}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) == 0 {
		return "", nil
	}
	return s.Generate(ctx, history[len(history)-1].Content, options...)
}

func (s *scriptedLLM) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	switch {
	case strings.Contains(prompt, "answers_question"):
		return `{"answers_question": true, "grounded": true, "no_hallucination": true, "concise": true, "precise": true, "confidence": 0.92, "retry_recommended": false, "suggested_adjustment": ""}`, nil
	case strings.Contains(prompt, "ASK_CLARIFICATION"):
		return `{"goal": "answer a multi step request", "complexity": "multi_step", "actions": [
			{"type": "SEARCH_KNOWLEDGE", "params": {"query": "pricing"}},
			{"type": "GET_CONTACT_INFO", "params": {"query": "address"}},
			{"type": "FORMAT_RESPONSE", "params": {"instructions": "combine the findings"}}
		]}`, nil
	default:
		return "The premium plan costs $99 per month and includes five chatbots with priority support. Our office at 1 Acme Way is open Monday to Friday.", nil
	}
}

type cannedSearcher struct{}

func (c *cannedSearcher) SearchSimilarWithScore(_ context.Context, _ []float32, threshold float64, _ int, _ retrieval.TenantScope) ([]retrieval.Candidate, error) {
	candidates := []retrieval.Candidate{
		{DocumentID: uuid.New(), Title: "Pricing", Content: "The premium plan costs $99 per month.", Similarity: 0.82},
		{DocumentID: uuid.New(), Title: "Contact", Content: "Office at 1 Acme Way, Monday to Friday.", Similarity: 0.64},
	}
	matched := candidates[:0:0]
	for _, candidate := range candidates {
		if candidate.Similarity >= threshold {
			matched = append(matched, candidate)
		}
	}
	return matched, nil
}

type cannedEmbedder struct{}

func (c *cannedEmbedder) Generate(context.Context, string, string) ([]float32, error) {
	return make([]float32, 8), nil
}

type memorySessions struct {
	sessions map[string]*store.SessionContext
}

func (m *memorySessions) Load(_ context.Context, conversationID string) (*store.SessionContext, error) {
	return m.sessions[conversationID], nil
}

func (m *memorySessions) Save(_ context.Context, session *store.SessionContext) error {
	m.sessions[session.ConversationID] = session
	return nil
}

func main() {
	provider := &scriptedLLM{}

	normalizer := preprocess.NewNormalizer("acme", "Acme Corporation", nil)
	machine := dialog.NewMachine(nil)
	cascade := intent.NewCascade(machine, nil, nil, nil)

	engine := retrieval.NewEngine(&cannedEmbedder{}, &cannedSearcher{}, nil)
	generator := generation.NewGenerator(provider, nil)
	validator := generation.NewValidator(provider, nil)
	loop := generation.NewLoop(engine, generator, validator, generation.DefaultMaxRetries, nil)

	planner := planning.NewPlanner(provider, nil)
	handlers := planning.NewHandlers(loop, provider, tools.NewRegistry(nil), nil)
	planExecutor := planning.NewExecutor(handlers, nil, nil)
	replanner := planning.NewReplanner(planner, planExecutor, provider, nil)

	cfg := retrieval.DefaultConfig()
	templatePath := pipeline.NewTemplatePath(machine, nil)
	ragPath := pipeline.NewRAGPath(loop, nil, cfg, nil)
	planPath := pipeline.NewPlanPath(replanner, cfg, nil)

	sessions := &memorySessions{sessions: map[string]*store.SessionContext{}}
	pipelineExecutor := executor.NewPipelineExecutor(
		normalizer, cascade, machine, templatePath, ragPath, planPath, sessions, nil,
	)

	scope := retrieval.TenantScope{
		CompanyID: uuid.New(),
		ChatbotID: uuid.New(),
		SharedKB:  true,
	}
	conversationID := uuid.NewString()

	turns := []string{
		"hi",
		"how much is the premium plan?",
		"yes",
		"first check the price and then tell me your address",
		"thanks, bye",
	}

	user := color.New(color.FgCyan, color.Bold)
	bot := color.New(color.FgGreen)
	meta := color.New(color.FgYellow)

	var history []llm.Message
	for _, turn := range turns {
		user.Printf("\nvisitor > %s\n", turn)

		started := time.Now()
		result := pipelineExecutor.Execute(context.Background(), scope, conversationID, turn, history)

		bot.Printf("bot     > %s\n", result.Response)
		meta.Printf("          intent=%s (%.2f via %s) route=%s state=%s context=%t retries=%d %s\n",
			result.Intent, result.Confidence, result.Stage, result.Route,
			result.DialogState, result.ContextFound, result.Retries,
			time.Since(started).Round(time.Millisecond))
		if result.PlanTrace != nil {
			meta.Printf("          plan attempts=%d\n", len(result.PlanTrace.Attempts))
		}

		history = append(history,
			llm.Message{Role: "user", Content: turn},
			llm.Message{Role: "assistant", Content: result.Response},
		)
	}

	fmt.Println()
}
