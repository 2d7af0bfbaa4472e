package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
)

type ChatbotRepository interface {
	Create(ctx context.Context, chatbot *entity.Chatbot) error
	Update(ctx context.Context, chatbot *entity.Chatbot) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chatbot, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chatbot, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
