package planning

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-chatbot-be/pkg/rag/retrieval"
)

const twoStepPlanJSON = `{"goal": "answer and email", "complexity": "moderate", "actions": [
  {"type": "SEARCH_KNOWLEDGE", "params": {"query": "pricing"}},
  {"type": "SEND_EMAIL", "params": {"to": "a@b.c"}}
]}`

func newTestReplanner(planLLM, repairLLM *scriptedLLM, handler ActionHandler) *Replanner {
	planner := NewPlanner(planLLM, nil)
	executor := NewExecutor(handler, nil, nil)
	return NewReplanner(planner, executor, repairLLM, nil)
}

func TestResolveSuccessFirstAttempt(t *testing.T) {
	handler := &scriptedHandler{outputs: map[ActionType]string{
		ActionSearchKnowledge: "Plans start at $10.",
		ActionSendEmail:       "Email sent to a@b.c.",
	}}
	repairLLM := &scriptedLLM{}
	r := newTestReplanner(&scriptedLLM{responses: []string{twoStepPlanJSON}}, repairLLM, handler)

	trace := r.Resolve(context.Background(), "price and mail it", retrieval.TenantScope{}, retrieval.DefaultConfig())

	if len(trace.Attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(trace.Attempts))
	}
	if trace.Remediation != "" {
		t.Errorf("unexpected remediation %q", trace.Remediation)
	}
	if !strings.Contains(trace.FinalText, "Plans start at $10.") || !strings.Contains(trace.FinalText, "Email sent") {
		t.Errorf("final text = %q", trace.FinalText)
	}
	if repairLLM.calls != 0 {
		t.Error("no repair call expected on success")
	}
}

func TestResolveIdenticalRepairRejectedForFallback(t *testing.T) {
	handler := &scriptedHandler{
		outputs: map[ActionType]string{
			ActionSearchKnowledge:  "Plans start at $10.",
			ActionAskClarification: "Could you confirm the email address?",
		},
		errs: map[ActionType]error{ActionSendEmail: errors.New("smtp refused")},
	}
	// The repair model proposes the exact same action sequence again.
	repairLLM := &scriptedLLM{responses: []string{twoStepPlanJSON}}
	r := newTestReplanner(&scriptedLLM{responses: []string{twoStepPlanJSON}}, repairLLM, handler)

	trace := r.Resolve(context.Background(), "price and mail it", retrieval.TenantScope{}, retrieval.DefaultConfig())

	if len(trace.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2 (original + deterministic fallback)", len(trace.Attempts))
	}
	second := trace.Attempts[1].Plan
	if second.Actions[0].Type != ActionSearchKnowledge {
		t.Errorf("successful step must be retained, got %s", second.Actions[0].Type)
	}
	if second.Actions[1].Type != ActionAskClarification {
		t.Errorf("failed step must become ASK_CLARIFICATION, got %s", second.Actions[1].Type)
	}
	if trace.Remediation != "" {
		t.Errorf("fallback succeeded, no remediation expected; got %q", trace.Remediation)
	}
	if !strings.Contains(trace.FinalText, "confirm the email address") {
		t.Errorf("final text = %q", trace.FinalText)
	}
}

func TestResolveExhaustionYieldsRemediation(t *testing.T) {
	// Every plan fails at its mandatory search step, including clarification.
	handler := &scriptedHandler{errs: map[ActionType]error{
		ActionSearchKnowledge:  errors.New("no knowledge found"),
		ActionAskClarification: errors.New("broken"),
		ActionQueryCRM:         errors.New("crm down"),
	}}
	planJSON := `{"goal": "g", "actions": [{"type": "SEARCH_KNOWLEDGE", "params": {"query": "x"}}]}`
	repairLLM := &scriptedLLM{responses: []string{
		`{"goal": "g", "actions": [{"type": "QUERY_CRM", "params": {"query": "x"}}]}`,
		`{"goal": "g", "actions": [{"type": "SEARCH_KNOWLEDGE", "params": {"query": "y"}}]}`,
	}}
	r := newTestReplanner(&scriptedLLM{responses: []string{planJSON}}, repairLLM, handler)

	trace := r.Resolve(context.Background(), "q", retrieval.TenantScope{}, retrieval.DefaultConfig())

	if len(trace.Attempts) != MaxReplanAttempts+1 {
		t.Fatalf("attempts = %d, want %d", len(trace.Attempts), MaxReplanAttempts+1)
	}
	if trace.Remediation != RemediationExhausted {
		t.Errorf("remediation = %q", trace.Remediation)
	}
	if trace.FinalText != RemediationExhausted {
		t.Errorf("final text = %q", trace.FinalText)
	}
}

func TestResolveRepairErrorUsesDeterministicFallback(t *testing.T) {
	handler := &scriptedHandler{
		outputs: map[ActionType]string{ActionAskClarification: "What exactly should I look up?"},
		errs:    map[ActionType]error{ActionSearchKnowledge: errors.New("no knowledge found")},
	}
	planJSON := `{"goal": "g", "actions": [{"type": "SEARCH_KNOWLEDGE", "params": {"query": "x"}}]}`
	repairLLM := &scriptedLLM{errs: []error{errors.New("timeout")}}
	r := newTestReplanner(&scriptedLLM{responses: []string{planJSON}}, repairLLM, handler)

	trace := r.Resolve(context.Background(), "q", retrieval.TenantScope{}, retrieval.DefaultConfig())

	if len(trace.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(trace.Attempts))
	}
	if trace.Attempts[1].Plan.Actions[0].Type != ActionAskClarification {
		t.Errorf("fallback plan = %+v", trace.Attempts[1].Plan)
	}
	if trace.FinalText != "What exactly should I look up?" {
		t.Errorf("final text = %q", trace.FinalText)
	}
}

func TestComposeFinalPrefersFormatResponse(t *testing.T) {
	exec := Execution{
		Results: []ActionResult{
			{Type: ActionSearchKnowledge, Success: true, Output: "raw finding"},
			{Type: ActionFormatResponse, Success: true, Output: "polished reply"},
		},
	}
	if got := composeFinal(exec); got != "polished reply" {
		t.Errorf("final = %q", got)
	}
}

func TestComposeFinalEmptyIsApology(t *testing.T) {
	exec := Execution{Results: []ActionResult{{Type: ActionSendEmail, Success: true, Output: ""}}}
	if got := composeFinal(exec); got != GenericApology {
		t.Errorf("final = %q", got)
	}
}
