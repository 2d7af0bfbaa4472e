package planning

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag/retrieval"
)

// MaxReplanAttempts bounds how many repaired plans run after the first one.
const MaxReplanAttempts = 2

// GenericApology covers a "successful" execution that produced no text.
const GenericApology = "I'm sorry, I wasn't able to put together an answer for that. Could you try asking in a different way?"

// RemediationExhausted is the terminal message when repair attempts run out.
const RemediationExhausted = "I couldn't complete every part of that request. Could you rephrase it, or split it into smaller questions?"

// Replanner drives the execute/repair cycle: run a plan, and while mandatory
// steps fail, ask the model for a repaired plan. A candidate whose
// action-type sequence matches any earlier attempt is rejected and replaced
// by the deterministic fallback, so the cycle can never run the same plan
// twice.
type Replanner struct {
	planner  *Planner
	executor *Executor
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewReplanner(planner *Planner, executor *Executor, provider llm.LLMProvider, logger *log.Logger) *Replanner {
	return &Replanner{planner: planner, executor: executor, provider: provider, logger: logger}
}

// Resolve plans and executes the query to a terminal Trace. It never returns
// an error; exhaustion resolves to a remediation message with the full
// attempt history attached.
func (r *Replanner) Resolve(ctx context.Context, query string, scope retrieval.TenantScope, cfg retrieval.Config) *Trace {
	plan := r.planner.BuildPlan(ctx, query)

	trace := &Trace{}
	seen := map[string]bool{plan.Signature(): true}

	for attempt := 0; ; attempt++ {
		exec := r.executor.Run(ctx, plan, scope, cfg)
		trace.Attempts = append(trace.Attempts, exec)

		if exec.Succeeded() {
			trace.FinalText = composeFinal(exec)
			return trace
		}

		if attempt >= MaxReplanAttempts {
			r.logf("[REPLANNER] Attempts exhausted after %d plans", len(trace.Attempts))
			trace.Remediation = RemediationExhausted
			trace.FinalText = RemediationExhausted
			return trace
		}

		candidate := r.repairedPlan(ctx, exec)
		if candidate == nil || seen[candidate.Signature()] {
			if candidate != nil {
				r.logf("[REPLANNER] Candidate repeats attempt %q, using deterministic fallback", candidate.Signature())
			}
			fallback := deterministicFallback(exec)
			candidate = &fallback
		}
		if seen[candidate.Signature()] {
			trace.Remediation = RemediationExhausted
			trace.FinalText = RemediationExhausted
			return trace
		}

		seen[candidate.Signature()] = true
		plan = *candidate
		r.logf("[REPLANNER] Attempt %d: %s", attempt+2, plan.Signature())
	}
}

// repairedPlan asks the model for a new plan given what happened. nil means
// the model could not produce one.
func (r *Replanner) repairedPlan(ctx context.Context, exec Execution) *Plan {
	response, err := r.provider.Generate(ctx, r.buildRepairPrompt(exec), llm.WithTemperature(0.2))
	if err != nil {
		r.logf("[REPLANNER] Repair call failed: %v", err)
		return nil
	}

	plan, err := parsePlan(response)
	if err != nil {
		r.logf("[REPLANNER] Unparseable repair plan: %v", err)
		return nil
	}
	plan.Goal = exec.Plan.Goal
	return &plan
}

// deterministicFallback keeps the successful steps and substitutes
// ASK_CLARIFICATION for each failed one. Its signature always differs from a
// plan that had at least one failing non-clarification step.
func deterministicFallback(exec Execution) Plan {
	fallback := Plan{Goal: exec.Plan.Goal, Complexity: exec.Plan.Complexity}
	for i, action := range exec.Plan.Actions {
		if i < len(exec.Results) && exec.Results[i].Success {
			fallback.Actions = append(fallback.Actions, action)
			continue
		}
		fallback.Actions = append(fallback.Actions, Action{
			Type: ActionAskClarification,
			Params: map[string]interface{}{
				"question": fmt.Sprintf("I couldn't finish the %q part of your request. Could you give me more detail there?", strings.ToLower(strings.ReplaceAll(string(action.Type), "_", " "))),
			},
		})
	}
	return fallback
}

// composeFinal joins successful outputs in plan order. A successful
// FORMAT_RESPONSE already merges everything before it, so its output stands
// alone.
func composeFinal(exec Execution) string {
	for i := len(exec.Results) - 1; i >= 0; i-- {
		if exec.Results[i].Success && exec.Results[i].Type == ActionFormatResponse {
			return exec.Results[i].Output
		}
	}

	var parts []string
	for _, result := range exec.Results {
		if result.Success && strings.TrimSpace(result.Output) != "" {
			parts = append(parts, result.Output)
		}
	}
	if len(parts) == 0 {
		return GenericApology
	}
	return strings.Join(parts, "\n\n")
}

func (r *Replanner) buildRepairPrompt(exec Execution) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You repair a failed task plan for a company support assistant.\n")
	prompt.WriteString("Produce a NEW plan that reaches the goal a different way. Do not repeat the failed approach.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<goal>\n")
	prompt.WriteString(exec.Plan.Goal)
	prompt.WriteString("\n</goal>\n\n")

	prompt.WriteString("<previous_attempt>\n")
	for i, action := range exec.Plan.Actions {
		outcome := "not executed"
		if i < len(exec.Results) {
			if exec.Results[i].Success {
				outcome = "ok"
			} else {
				outcome = "FAILED: " + exec.Results[i].Error
			}
		}
		prompt.WriteString(fmt.Sprintf("%d. %s -> %s\n", i+1, action.Type, outcome))
	}
	prompt.WriteString("</previous_attempt>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\"goal\": \"...\", \"complexity\": \"simple|moderate|complex\", \"actions\": [{\"type\": \"...\", \"params\": {}, \"optional\": false}]}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func (r *Replanner) logf(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
