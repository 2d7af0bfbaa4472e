package executor

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"ai-chatbot-be/pkg/ai/pipeline"
	"ai-chatbot-be/pkg/rag/dialog"
	"ai-chatbot-be/pkg/rag/intent"
	"ai-chatbot-be/pkg/rag/preprocess"
	"ai-chatbot-be/pkg/rag/retrieval"
	"ai-chatbot-be/pkg/store"
)

type memorySessions struct {
	sessions map[string]*store.SessionContext
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[string]*store.SessionContext)}
}

func (m *memorySessions) Load(ctx context.Context, conversationID string) (*store.SessionContext, error) {
	return m.sessions[conversationID], nil
}

func (m *memorySessions) Save(ctx context.Context, session *store.SessionContext) error {
	m.sessions[session.ConversationID] = session
	return nil
}

type recordingPath struct {
	outcome *pipeline.Outcome
	turns   []*pipeline.Turn
}

func (p *recordingPath) Respond(ctx context.Context, turn *pipeline.Turn) *pipeline.Outcome {
	p.turns = append(p.turns, turn)
	return p.outcome
}

func newTestExecutor(sessions SessionStore, rag, plan pipeline.Path) *PipelineExecutor {
	machine := dialog.NewMachine(nil)
	return NewPipelineExecutor(
		preprocess.NewNormalizer("acme", "Acme Corp", nil),
		intent.NewCascade(machine, nil, nil, nil),
		machine,
		pipeline.NewTemplatePath(machine, nil),
		rag,
		plan,
		sessions,
		nil,
	)
}

func testScope() retrieval.TenantScope {
	return retrieval.TenantScope{CompanyID: uuid.New(), ChatbotID: uuid.New(), SharedKB: true}
}

func TestExecuteGreetingTakesTemplatePath(t *testing.T) {
	sessions := newMemorySessions()
	rag := &recordingPath{outcome: &pipeline.Outcome{Response: "rag"}}
	plan := &recordingPath{outcome: &pipeline.Outcome{Response: "plan"}}
	e := newTestExecutor(sessions, rag, plan)

	result := e.Execute(context.Background(), testScope(), "conv-1", "hello!", nil)

	if result.Intent != intent.IntentGreeting {
		t.Errorf("intent = %s", result.Intent)
	}
	if result.Route != "template" {
		t.Errorf("route = %s", result.Route)
	}
	if result.DialogState != dialog.StateGreeting {
		t.Errorf("state = %s", result.DialogState)
	}
	if result.Response == "" || result.Response == "rag" {
		t.Errorf("response = %q", result.Response)
	}
	if len(rag.turns) != 0 || len(plan.turns) != 0 {
		t.Error("greeting must not touch retrieval or planning")
	}

	saved := sessions.sessions["conv-1"]
	if saved == nil || saved.State != dialog.StateGreeting || saved.MessageCount != 1 {
		t.Errorf("saved session = %+v", saved)
	}
}

func TestExecuteAwaitingQuestionOverride(t *testing.T) {
	sessions := newMemorySessions()
	scope := testScope()
	sessions.sessions["conv-2"] = &store.SessionContext{
		ConversationID: "conv-2",
		State:          dialog.StateAwaitingQuestion,
		MessageCount:   2,
	}
	rag := &recordingPath{outcome: &pipeline.Outcome{Response: "The premium plan includes support.", ContextFound: true}}
	plan := &recordingPath{outcome: &pipeline.Outcome{Response: "plan"}}
	e := newTestExecutor(sessions, rag, plan)

	// Not a greeting, farewell or question signal; the dialog state forces
	// QUESTION even though the text alone looks vague.
	result := e.Execute(context.Background(), scope, "conv-2", "the premium plan", nil)

	if result.Intent != intent.IntentQuestion {
		t.Errorf("intent = %s", result.Intent)
	}
	if result.Stage != intent.StageContext || result.Confidence != 0.90 {
		t.Errorf("stage = %s confidence = %.2f", result.Stage, result.Confidence)
	}
	if result.Route != "rag" {
		t.Errorf("route = %s", result.Route)
	}
	if result.DialogState != dialog.StateAnswering {
		t.Errorf("state = %s", result.DialogState)
	}
	if len(rag.turns) != 1 {
		t.Fatalf("rag calls = %d", len(rag.turns))
	}
	if !reflect.DeepEqual(rag.turns[0].Scope, scope) {
		t.Error("tenant scope must reach the rag path unchanged")
	}
}

func TestExecuteBareAffirmativeHoldsAwaitingQuestion(t *testing.T) {
	sessions := newMemorySessions()
	sessions.sessions["conv-3"] = &store.SessionContext{
		ConversationID: "conv-3",
		State:          dialog.StateAwaitingQuestion,
	}
	rag := &recordingPath{outcome: &pipeline.Outcome{Response: "rag"}}
	plan := &recordingPath{outcome: &pipeline.Outcome{Response: "plan"}}
	e := newTestExecutor(sessions, rag, plan)

	result := e.Execute(context.Background(), testScope(), "conv-3", "yes", nil)

	if result.Route != "template" {
		t.Errorf("route = %s", result.Route)
	}
	if result.Response != "What would you like to know?" {
		t.Errorf("response = %q", result.Response)
	}
	if result.DialogState != dialog.StateAwaitingQuestion {
		t.Errorf("state = %s", result.DialogState)
	}
	if len(rag.turns) != 0 {
		t.Error("bare affirmative must not reach retrieval")
	}
}

func TestExecuteMultiStepRequestTakesPlanPath(t *testing.T) {
	sessions := newMemorySessions()
	rag := &recordingPath{outcome: &pipeline.Outcome{Response: "rag"}}
	plan := &recordingPath{outcome: &pipeline.Outcome{Response: "plan reply", ContextFound: true}}
	e := newTestExecutor(sessions, rag, plan)

	result := e.Execute(context.Background(), testScope(), "conv-4", "first tell me your prices, then email them to me", nil)

	if result.Route != "plan" {
		t.Errorf("route = %s", result.Route)
	}
	if result.Response != "plan reply" {
		t.Errorf("response = %q", result.Response)
	}
	if len(plan.turns) != 1 || len(rag.turns) != 0 {
		t.Errorf("plan calls = %d, rag calls = %d", len(plan.turns), len(rag.turns))
	}
}

func TestExecuteNormalizesBeforeClassification(t *testing.T) {
	sessions := newMemorySessions()
	rag := &recordingPath{outcome: &pipeline.Outcome{Response: "answer", ContextFound: true}}
	plan := &recordingPath{outcome: &pipeline.Outcome{Response: "plan"}}
	e := newTestExecutor(sessions, rag, plan)

	result := e.Execute(context.Background(), testScope(), "conv-5", "whats your emial adress?", nil)

	if result.NormalizedQuery != "what is your email address?" {
		t.Errorf("normalized = %q", result.NormalizedQuery)
	}
	if len(rag.turns) != 1 || rag.turns[0].Normalized != result.NormalizedQuery {
		t.Error("rag path must receive the normalized query")
	}
}
