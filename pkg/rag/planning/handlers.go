package planning

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag/generation"
	"ai-chatbot-be/pkg/rag/retrieval"
	"ai-chatbot-be/pkg/tools"
)

// DefaultClarification is the canned ASK_CLARIFICATION text when the plan
// carries no question of its own.
const DefaultClarification = "Could you tell me a bit more about what you need? I want to make sure I help with the right thing."

// toolNameFor maps tool-backed action types onto registry tool names.
var toolNameFor = map[ActionType]string{
	ActionSendEmail:     "send_email",
	ActionCheckCalendar: "check_calendar",
	ActionQueryCRM:      "query_crm",
	ActionCallAPI:       "web_search",
}

// Handlers executes individual plan actions against the pipeline's
// primitives. Knowledge actions reuse the retrieval+generation loop; tool
// actions go through the registry.
type Handlers struct {
	loop     *generation.Loop
	provider llm.LLMProvider
	registry *tools.Registry
	logger   *log.Logger
}

func NewHandlers(loop *generation.Loop, provider llm.LLMProvider, registry *tools.Registry, logger *log.Logger) *Handlers {
	return &Handlers{loop: loop, provider: provider, registry: registry, logger: logger}
}

// Handle runs one action. shared is the accumulating execution context; the
// caller owns writes into it.
func (h *Handlers) Handle(ctx context.Context, action Action, scope retrieval.TenantScope, cfg retrieval.Config, shared map[string]interface{}) (string, error) {
	switch action.Type {
	case ActionSearchKnowledge:
		return h.searchKnowledge(ctx, action, scope, cfg)
	case ActionGetContactInfo:
		return h.getContactInfo(ctx, action, scope, cfg)
	case ActionFormatResponse:
		return h.formatResponse(ctx, action, shared)
	case ActionAskClarification:
		if q := paramString(action, "question"); q != "" {
			return q, nil
		}
		return DefaultClarification, nil
	default:
		name, ok := toolNameFor[action.Type]
		if !ok {
			return "", fmt.Errorf("no handler for action %s", action.Type)
		}
		result := h.registry.Execute(ctx, name, action.Params)
		if !result.Success {
			return "", fmt.Errorf("tool %s: %s", name, result.Error)
		}
		return result.Output, nil
	}
}

func (h *Handlers) searchKnowledge(ctx context.Context, action Action, scope retrieval.TenantScope, cfg retrieval.Config) (string, error) {
	query := paramString(action, "query")
	if query == "" {
		return "", fmt.Errorf("search action missing query")
	}

	result := h.loop.Run(ctx, query, scope, cfg, nil, nil)
	if !result.ContextFound {
		return "", fmt.Errorf("no knowledge found for %q", query)
	}
	return result.Response, nil
}

func (h *Handlers) getContactInfo(ctx context.Context, action Action, scope retrieval.TenantScope, cfg retrieval.Config) (string, error) {
	query := paramString(action, "query")
	if query == "" {
		query = "company contact email phone address"
	} else if !strings.Contains(strings.ToLower(query), "contact") {
		// Keep the factual branch engaged even when the planner phrased the
		// lookup loosely.
		query = "contact " + query
	}

	result := h.loop.Run(ctx, query, scope, cfg, nil, nil)
	if !result.ContextFound {
		return "", fmt.Errorf("no contact information found")
	}
	return result.Response, nil
}

func (h *Handlers) formatResponse(ctx context.Context, action Action, shared map[string]interface{}) (string, error) {
	knowledge, _ := shared["knowledge"].(string)
	if strings.TrimSpace(knowledge) == "" {
		return "", fmt.Errorf("nothing to format")
	}

	var prompt strings.Builder
	prompt.WriteString("<system>\n")
	prompt.WriteString("You combine the collected findings below into one clear customer reply.\n")
	prompt.WriteString("Use only the findings. Do not add new claims.\n")
	prompt.WriteString("</system>\n\n")
	prompt.WriteString("<findings>\n")
	prompt.WriteString(knowledge)
	prompt.WriteString("\n</findings>\n")
	if instructions := paramString(action, "instructions"); instructions != "" {
		prompt.WriteString("\n<instructions>\n")
		prompt.WriteString(instructions)
		prompt.WriteString("\n</instructions>\n")
	}

	response, err := h.provider.Generate(ctx, prompt.String(), llm.WithTemperature(0.3))
	if err != nil {
		return "", fmt.Errorf("format response: %w", err)
	}
	return response, nil
}

func paramString(action Action, key string) string {
	if action.Params == nil {
		return ""
	}
	if v, ok := action.Params[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
