package pipeline

import (
	"context"
	"log"

	"github.com/google/uuid"

	"ai-chatbot-be/pkg/rag/generation"
	"ai-chatbot-be/pkg/rag/memory"
	"ai-chatbot-be/pkg/rag/retrieval"
)

// RAGPath answers knowledge questions through the retrieval, generation and
// validation loop, enriched with session memory when available.
type RAGPath struct {
	loop   *generation.Loop
	memory *memory.Retriever
	cfg    retrieval.Config
	logger *log.Logger
}

func NewRAGPath(loop *generation.Loop, mem *memory.Retriever, cfg retrieval.Config, logger *log.Logger) *RAGPath {
	return &RAGPath{loop: loop, memory: mem, cfg: cfg, logger: logger}
}

func (p *RAGPath) Respond(ctx context.Context, turn *Turn) *Outcome {
	var facts []string
	if p.memory != nil {
		if sessionID, err := uuid.Parse(turn.Session.ConversationID); err == nil {
			facts = p.memory.Relevant(ctx, turn.Normalized, sessionID)
		}
	}

	result := p.loop.Run(ctx, turn.Normalized, turn.Scope, p.cfg, turn.History, facts)
	return &Outcome{
		Response:     result.Response,
		Sources:      result.Sources,
		ContextFound: result.ContextFound,
		Validation:   result.Validation,
		Retries:      result.Retries,
	}
}
