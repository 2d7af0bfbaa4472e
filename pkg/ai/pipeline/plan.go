package pipeline

import (
	"context"
	"log"

	"ai-chatbot-be/pkg/rag/planning"
	"ai-chatbot-be/pkg/rag/retrieval"
)

// PlanPath handles multi-step requests through plan, execute and replan.
type PlanPath struct {
	replanner *planning.Replanner
	cfg       retrieval.Config
	logger    *log.Logger
}

func NewPlanPath(replanner *planning.Replanner, cfg retrieval.Config, logger *log.Logger) *PlanPath {
	return &PlanPath{replanner: replanner, cfg: cfg, logger: logger}
}

func (p *PlanPath) Respond(ctx context.Context, turn *Turn) *Outcome {
	trace := p.replanner.Resolve(ctx, turn.Normalized, turn.Scope, p.cfg)
	return &Outcome{
		Response:     trace.FinalText,
		ContextFound: trace.Remediation == "",
		PlanTrace:    trace,
	}
}
