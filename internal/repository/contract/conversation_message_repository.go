package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
)

type ConversationMessageRepository interface {
	Create(ctx context.Context, message *entity.ConversationMessage) error
	CreateBulk(ctx context.Context, messages []*entity.ConversationMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ConversationMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindRecent returns the newest N messages in chronological order.
	FindRecent(ctx context.Context, conversationId uuid.UUID, limit int) ([]*entity.ConversationMessage, error)
}
