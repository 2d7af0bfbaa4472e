package pipeline

import (
	"context"

	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag/generation"
	"ai-chatbot-be/pkg/rag/intent"
	"ai-chatbot-be/pkg/rag/planning"
	"ai-chatbot-be/pkg/rag/retrieval"
	"ai-chatbot-be/pkg/store"
)

// Turn carries everything a path needs to answer one classified message.
type Turn struct {
	Raw            string
	Normalized     string
	Session        *store.SessionContext
	Scope          retrieval.TenantScope
	History        []llm.Message
	Classification intent.Classification
	// NextState is the dialog state the machine chose for this turn; paths
	// read it, the executor persists it.
	NextState string
}

// Outcome is a path's answer plus everything observability wants to know
// about how it was produced.
type Outcome struct {
	Response     string
	Sources      []retrieval.Candidate
	ContextFound bool
	Validation   *generation.ValidationResult
	Retries      int
	PlanTrace    *planning.Trace
}

// Path answers one turn. Implementations never return errors; every failure
// resolves to a well-formed outcome with fallback text.
type Path interface {
	Respond(ctx context.Context, turn *Turn) *Outcome
}
