package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/pkg/store"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	Update(ctx context.Context, conversation *entity.Conversation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// UpdateDialogState persists only the session context columns. Last write
	// wins; there is no row lock around concurrent turns.
	UpdateDialogState(ctx context.Context, id uuid.UUID, state *store.SessionContext, topic string, messageCount int) error
	// FindIdleBefore returns active conversations whose last message predates
	// the cutoff. Used by the idle sweeper.
	FindIdleBefore(ctx context.Context, cutoff time.Time) ([]*entity.Conversation, error)
	// Finish marks a conversation ended.
	Finish(ctx context.Context, id uuid.UUID, endedAt time.Time) error
}
