package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-chatbot-be/pkg/llm"
)

// Planner decomposes a complex request into an ordered action plan with a
// single LLM call.
type Planner struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewPlanner(provider llm.LLMProvider, logger *log.Logger) *Planner {
	return &Planner{provider: provider, logger: logger}
}

type rawPlan struct {
	Goal       string `json:"goal"`
	Complexity string `json:"complexity"`
	Actions    []struct {
		Type     string                 `json:"type"`
		Params   map[string]interface{} `json:"params"`
		Optional bool                   `json:"optional"`
	} `json:"actions"`
}

// BuildPlan asks the model for a plan. Any failure, from the call itself to
// an empty action list, degrades to a single knowledge search over the raw
// query so the pipeline always has something executable.
func (p *Planner) BuildPlan(ctx context.Context, query string) Plan {
	response, err := p.provider.Generate(ctx, p.buildPrompt(query), llm.WithTemperature(0.2))
	if err != nil {
		p.logf("[PLANNER] LLM error, degrading to single search: %v", err)
		return fallbackPlan(query)
	}

	plan, err := parsePlan(response)
	if err != nil {
		p.logf("[PLANNER] Unparseable plan, degrading to single search: %v", err)
		return fallbackPlan(query)
	}

	p.logf("[PLANNER] Goal: %q complexity=%s actions=%s", plan.Goal, plan.Complexity, plan.Signature())
	return plan
}

func fallbackPlan(query string) Plan {
	return Plan{
		Goal:       query,
		Complexity: "simple",
		Actions: []Action{
			{Type: ActionSearchKnowledge, Params: map[string]interface{}{"query": query}},
		},
	}
}

func parsePlan(response string) (Plan, error) {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return Plan{}, fmt.Errorf("no JSON found in plan response")
	}

	var raw rawPlan
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &raw); err != nil {
		return Plan{}, err
	}
	if len(raw.Actions) == 0 {
		return Plan{}, fmt.Errorf("plan has no actions")
	}

	plan := Plan{Goal: raw.Goal, Complexity: raw.Complexity}
	for _, a := range raw.Actions {
		plan.Actions = append(plan.Actions, Action{
			Type:     ParseActionType(a.Type),
			Params:   a.Params,
			Optional: a.Optional,
		})
	}
	return plan, nil
}

func (p *Planner) buildPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a task planner for a company support assistant.\n")
	prompt.WriteString("Decompose the request into the smallest ordered list of actions that fulfils it.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<request>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</request>\n\n")

	prompt.WriteString("<action_types>\n")
	prompt.WriteString("SEARCH_KNOWLEDGE: look up an answer in the company knowledge base (params: query)\n")
	prompt.WriteString("GET_CONTACT_INFO: fetch the company's contact details (params: query)\n")
	prompt.WriteString("FORMAT_RESPONSE: combine earlier results into one reply (params: instructions)\n")
	prompt.WriteString("SEND_EMAIL: send an email (params: to, subject, body)\n")
	prompt.WriteString("CHECK_CALENDAR: check availability (params: date)\n")
	prompt.WriteString("QUERY_CRM: look up a customer record (params: query)\n")
	prompt.WriteString("CALL_API: call an external service (params: query)\n")
	prompt.WriteString("ASK_CLARIFICATION: ask the user to clarify (params: question)\n")
	prompt.WriteString("</action_types>\n\n")

	prompt.WriteString("<rules>\n")
	prompt.WriteString("Mark an action \"optional\": true only if the goal survives its failure.\n")
	prompt.WriteString("Prefer 1-4 actions. Use FORMAT_RESPONSE last when multiple lookups must be merged.\n")
	prompt.WriteString("</rules>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"goal\": \"...\",\n")
	prompt.WriteString("  \"complexity\": \"simple|moderate|complex\",\n")
	prompt.WriteString("  \"actions\": [{\"type\": \"SEARCH_KNOWLEDGE\", \"params\": {\"query\": \"...\"}, \"optional\": false}]\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func (p *Planner) logf(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
