package planning

import (
	"context"
	"errors"
	"testing"

	"ai-chatbot-be/pkg/llm"
)

type scriptedLLM struct {
	responses []string
	errs      []error
	calls     int
}

func (s *scriptedLLM) next() (string, error) {
	i := s.calls
	s.calls++
	var resp string
	var err error
	if i < len(s.responses) {
		resp = s.responses[i]
	} else if len(s.responses) > 0 {
		resp = s.responses[len(s.responses)-1]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return resp, err
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return s.next()
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.next()
}

func TestParseActionType(t *testing.T) {
	tests := []struct {
		raw  string
		want ActionType
	}{
		{"SEARCH_KNOWLEDGE", ActionSearchKnowledge},
		{"send_email", ActionSendEmail},
		{" Check_Calendar ", ActionCheckCalendar},
		{"DO_MAGIC", ActionSearchKnowledge},
		{"", ActionSearchKnowledge},
	}
	for _, tt := range tests {
		if got := ParseActionType(tt.raw); got != tt.want {
			t.Errorf("ParseActionType(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestPlanSignature(t *testing.T) {
	plan := Plan{Actions: []Action{
		{Type: ActionSearchKnowledge},
		{Type: ActionSendEmail},
	}}
	if got := plan.Signature(); got != "SEARCH_KNOWLEDGE>SEND_EMAIL" {
		t.Errorf("signature = %q", got)
	}
}

func TestBuildPlanParsesModelOutput(t *testing.T) {
	provider := &scriptedLLM{responses: []string{`Here is the plan:
{"goal": "price and contact", "complexity": "moderate", "actions": [
  {"type": "SEARCH_KNOWLEDGE", "params": {"query": "pricing"}},
  {"type": "GET_CONTACT_INFO", "params": {"query": "email"}, "optional": true}
]}`}}
	p := NewPlanner(provider, nil)

	plan := p.BuildPlan(context.Background(), "what do you charge and how do i reach you")
	if plan.Goal != "price and contact" {
		t.Errorf("goal = %q", plan.Goal)
	}
	if len(plan.Actions) != 2 {
		t.Fatalf("actions = %d, want 2", len(plan.Actions))
	}
	if plan.Actions[1].Type != ActionGetContactInfo || !plan.Actions[1].Optional {
		t.Errorf("second action = %+v", plan.Actions[1])
	}
}

func TestBuildPlanUnknownTypeDefaultsToSearch(t *testing.T) {
	provider := &scriptedLLM{responses: []string{`{"goal": "g", "actions": [{"type": "SUMMON_HUMAN"}]}`}}
	p := NewPlanner(provider, nil)

	plan := p.BuildPlan(context.Background(), "q")
	if plan.Actions[0].Type != ActionSearchKnowledge {
		t.Errorf("type = %s, want SEARCH_KNOWLEDGE", plan.Actions[0].Type)
	}
}

func TestBuildPlanUnparseableDegradesToSingleSearch(t *testing.T) {
	provider := &scriptedLLM{responses: []string{"I think you should search for it"}}
	p := NewPlanner(provider, nil)

	plan := p.BuildPlan(context.Background(), "what are your prices and hours")
	if len(plan.Actions) != 1 || plan.Actions[0].Type != ActionSearchKnowledge {
		t.Fatalf("plan = %+v", plan)
	}
	if q, _ := plan.Actions[0].Params["query"].(string); q != "what are your prices and hours" {
		t.Errorf("query = %q", q)
	}
}

func TestBuildPlanProviderErrorDegradesToSingleSearch(t *testing.T) {
	provider := &scriptedLLM{errs: []error{errors.New("timeout")}}
	p := NewPlanner(provider, nil)

	plan := p.BuildPlan(context.Background(), "q")
	if len(plan.Actions) != 1 || plan.Actions[0].Type != ActionSearchKnowledge {
		t.Fatalf("plan = %+v", plan)
	}
}

func TestBuildPlanEmptyActionsDegrades(t *testing.T) {
	provider := &scriptedLLM{responses: []string{`{"goal": "g", "actions": []}`}}
	p := NewPlanner(provider, nil)

	plan := p.BuildPlan(context.Background(), "q")
	if len(plan.Actions) != 1 {
		t.Fatalf("plan = %+v", plan)
	}
}
