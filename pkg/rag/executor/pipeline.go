package executor

import (
	"context"
	"log"
	"time"

	"ai-chatbot-be/pkg/ai/pipeline"
	"ai-chatbot-be/pkg/ai/router"
	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag/dialog"
	"ai-chatbot-be/pkg/rag/generation"
	"ai-chatbot-be/pkg/rag/intent"
	"ai-chatbot-be/pkg/rag/planning"
	"ai-chatbot-be/pkg/rag/preprocess"
	"ai-chatbot-be/pkg/rag/retrieval"
	"ai-chatbot-be/pkg/store"
)

// SessionStore loads and persists per-conversation dialog state. Load
// returns (nil, nil) for an unknown conversation; the executor creates the
// context on first contact.
type SessionStore interface {
	Load(ctx context.Context, conversationID string) (*store.SessionContext, error)
	Save(ctx context.Context, session *store.SessionContext) error
}

// Result is the terminal outcome of one turn through the pipeline.
type Result struct {
	Response        string
	Sources         []retrieval.Candidate
	ContextFound    bool
	Intent          intent.Intent
	Confidence      float64
	Stage           string
	Route           string
	DialogState     string
	Retries         int
	Validation      *generation.ValidationResult
	PlanTrace       *planning.Trace
	NormalizedQuery string
	Latency         time.Duration
}

// PipelineExecutor drives one message through normalize, classify,
// transition, route and respond, then persists the advanced session state.
// Execute never returns an error.
type PipelineExecutor struct {
	normalizer *preprocess.Normalizer
	cascade    *intent.Cascade
	machine    *dialog.Machine
	template   pipeline.Path
	rag        pipeline.Path
	plan       pipeline.Path
	sessions   SessionStore
	logger     *log.Logger
}

func NewPipelineExecutor(
	normalizer *preprocess.Normalizer,
	cascade *intent.Cascade,
	machine *dialog.Machine,
	template pipeline.Path,
	rag pipeline.Path,
	plan pipeline.Path,
	sessions SessionStore,
	logger *log.Logger,
) *PipelineExecutor {
	return &PipelineExecutor{
		normalizer: normalizer,
		cascade:    cascade,
		machine:    machine,
		template:   template,
		rag:        rag,
		plan:       plan,
		sessions:   sessions,
		logger:     logger,
	}
}

// Execute answers one raw message within the given tenant scope.
func (e *PipelineExecutor) Execute(ctx context.Context, scope retrieval.TenantScope, conversationID string, raw string, history []llm.Message) *Result {
	start := time.Now()

	session := e.loadSession(ctx, scope, conversationID)
	normalized := e.normalizer.Normalize(raw)

	classification := e.cascade.Classify(ctx, normalized, session.State)
	holding := e.machine.IsHoldingAffirmative(session.State, raw)
	nextState := e.machine.Next(session.State, classification.Intent, raw)
	route := router.Decide(classification, normalized, holding)

	e.logf("[PIPELINE] intent=%s (%.2f, %s) state %s -> %s route=%s",
		classification.Intent, classification.Confidence, classification.Stage,
		session.State, nextState, route)

	turn := &pipeline.Turn{
		Raw:            raw,
		Normalized:     normalized,
		Session:        session,
		Scope:          scope,
		History:        history,
		Classification: classification,
		NextState:      nextState,
	}

	var outcome *pipeline.Outcome
	switch route {
	case router.RouteTemplate:
		outcome = e.template.Respond(ctx, turn)
	case router.RoutePlan:
		outcome = e.plan.Respond(ctx, turn)
	default:
		outcome = e.rag.Respond(ctx, turn)
	}

	topic := ""
	if route != router.RouteTemplate {
		topic = normalized
	}
	session.Advance(nextState, string(classification.Intent), topic)

	// Persisting the session is the final step; the write is last-write-wins
	// and its failure must not cost the user their answer.
	if err := e.sessions.Save(ctx, session); err != nil {
		e.logf("[PIPELINE] Session save failed for %s: %v", conversationID, err)
	}

	return &Result{
		Response:        outcome.Response,
		Sources:         outcome.Sources,
		ContextFound:    outcome.ContextFound,
		Intent:          classification.Intent,
		Confidence:      classification.Confidence,
		Stage:           classification.Stage,
		Route:           string(route),
		DialogState:     nextState,
		Retries:         outcome.Retries,
		Validation:      outcome.Validation,
		PlanTrace:       outcome.PlanTrace,
		NormalizedQuery: normalized,
		Latency:         time.Since(start),
	}
}

func (e *PipelineExecutor) loadSession(ctx context.Context, scope retrieval.TenantScope, conversationID string) *store.SessionContext {
	session, err := e.sessions.Load(ctx, conversationID)
	if err != nil {
		e.logf("[PIPELINE] Session load failed for %s, starting fresh: %v", conversationID, err)
		session = nil
	}
	if session == nil {
		session = &store.SessionContext{
			ConversationID: conversationID,
			CompanyID:      scope.CompanyID.String(),
			ChatbotID:      scope.ChatbotID.String(),
			State:          dialog.StateIdle,
			UpdatedAt:      time.Now(),
		}
	}
	return session
}

func (e *PipelineExecutor) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
