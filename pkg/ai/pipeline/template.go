package pipeline

import (
	"context"
	"log"

	"ai-chatbot-be/pkg/rag/dialog"
)

// TemplatePath resolves social and unclear turns on canned replies.
type TemplatePath struct {
	machine *dialog.Machine
	logger  *log.Logger
}

func NewTemplatePath(machine *dialog.Machine, logger *log.Logger) *TemplatePath {
	return &TemplatePath{machine: machine, logger: logger}
}

func (p *TemplatePath) Respond(ctx context.Context, turn *Turn) *Outcome {
	if p.machine.IsHoldingAffirmative(turn.Session.State, turn.Raw) {
		if text, ok := dialog.StateResponse(dialog.StateAwaitingQuestion); ok {
			return &Outcome{Response: text}
		}
	}

	if text, ok := dialog.IntentResponse(turn.Classification.Intent); ok {
		return &Outcome{Response: text}
	}

	// A template-routed intent without a template is a wiring gap; answer
	// like an unclear turn rather than going silent.
	if p.logger != nil {
		p.logger.Printf("[TEMPLATE] No template for intent %s, using unclear reply", turn.Classification.Intent)
	}
	text, _ := dialog.StateResponse(dialog.StateAwaitingQuestion)
	return &Outcome{Response: text}
}
