package planning

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ai-chatbot-be/pkg/rag/retrieval"
)

type scriptedHandler struct {
	mu      sync.Mutex
	outputs map[ActionType]string
	errs    map[ActionType]error
	calls   []ActionType
	shared  []map[string]interface{}
}

func (h *scriptedHandler) Handle(ctx context.Context, action Action, scope retrieval.TenantScope, cfg retrieval.Config, shared map[string]interface{}) (string, error) {
	h.mu.Lock()
	h.calls = append(h.calls, action.Type)
	snapshot := make(map[string]interface{}, len(shared))
	for k, v := range shared {
		snapshot[k] = v
	}
	h.shared = append(h.shared, snapshot)
	h.mu.Unlock()

	if err, ok := h.errs[action.Type]; ok {
		return "", err
	}
	return h.outputs[action.Type], nil
}

func TestExecutorSequentialSuccess(t *testing.T) {
	handler := &scriptedHandler{outputs: map[ActionType]string{
		ActionSearchKnowledge: "Plans start at $10.",
		ActionGetContactInfo:  "Reach us at sales@acme.test.",
	}}
	e := NewExecutor(handler, nil, nil)

	plan := Plan{Actions: []Action{
		{Type: ActionSearchKnowledge},
		{Type: ActionGetContactInfo},
	}}
	exec := e.Run(context.Background(), plan, retrieval.TenantScope{}, retrieval.DefaultConfig())

	if !exec.Succeeded() {
		t.Fatalf("execution failed: %+v", exec.Results)
	}
	if len(exec.Results) != 2 {
		t.Fatalf("results = %d", len(exec.Results))
	}
	// The second action must see the first action's output in the shared
	// context.
	last := handler.shared[1]
	if last["step_1"] != "Plans start at $10." {
		t.Errorf("step_1 = %v", last["step_1"])
	}
	if last["knowledge"] != "Plans start at $10." {
		t.Errorf("knowledge = %v", last["knowledge"])
	}
}

func TestExecutorMandatoryFailureHalts(t *testing.T) {
	handler := &scriptedHandler{
		outputs: map[ActionType]string{ActionFormatResponse: "never reached"},
		errs:    map[ActionType]error{ActionSearchKnowledge: errors.New("no knowledge found")},
	}
	e := NewExecutor(handler, nil, nil)

	plan := Plan{Actions: []Action{
		{Type: ActionSearchKnowledge},
		{Type: ActionFormatResponse},
	}}
	exec := e.Run(context.Background(), plan, retrieval.TenantScope{}, retrieval.DefaultConfig())

	if !exec.Halted {
		t.Fatal("expected halt")
	}
	if len(exec.Results) != 1 {
		t.Fatalf("results = %d, want 1 (second action skipped)", len(exec.Results))
	}
	if exec.Succeeded() {
		t.Error("halted execution must not report success")
	}
}

func TestExecutorOptionalFailureContinues(t *testing.T) {
	handler := &scriptedHandler{
		outputs: map[ActionType]string{ActionSearchKnowledge: "answer"},
		errs:    map[ActionType]error{ActionCheckCalendar: errors.New("calendar down")},
	}
	e := NewExecutor(handler, nil, nil)

	plan := Plan{Actions: []Action{
		{Type: ActionCheckCalendar, Optional: true},
		{Type: ActionSearchKnowledge},
	}}
	exec := e.Run(context.Background(), plan, retrieval.TenantScope{}, retrieval.DefaultConfig())

	if exec.Halted {
		t.Fatal("optional failure must not halt")
	}
	if !exec.Succeeded() {
		t.Error("mandatory steps all passed, expected success")
	}
	if len(exec.Results) != 2 {
		t.Fatalf("results = %d", len(exec.Results))
	}
}

func TestExecutorAdjacentOptionalActionsFanOut(t *testing.T) {
	handler := &scriptedHandler{outputs: map[ActionType]string{
		ActionSearchKnowledge: "searched",
		ActionCheckCalendar:   "calendar checked",
		ActionQueryCRM:        "crm checked",
		ActionFormatResponse:  "merged",
	}}
	e := NewExecutor(handler, nil, nil)

	plan := Plan{Actions: []Action{
		{Type: ActionSearchKnowledge},
		{Type: ActionCheckCalendar, Optional: true},
		{Type: ActionQueryCRM, Optional: true},
		{Type: ActionFormatResponse},
	}}
	exec := e.Run(context.Background(), plan, retrieval.TenantScope{}, retrieval.DefaultConfig())

	if !exec.Succeeded() {
		t.Fatalf("execution failed: %+v", exec.Results)
	}
	// Results stay in plan order regardless of fan-out scheduling.
	want := []ActionType{ActionSearchKnowledge, ActionCheckCalendar, ActionQueryCRM, ActionFormatResponse}
	for i, r := range exec.Results {
		if r.Type != want[i] {
			t.Errorf("result %d = %s, want %s", i, r.Type, want[i])
		}
	}
	// The final action sees all three earlier outputs merged.
	final := handler.shared[len(handler.shared)-1]
	if final["step_1"] != "searched" || final["step_2"] != "calendar checked" || final["step_3"] != "crm checked" {
		t.Errorf("shared context = %v", final)
	}
}
