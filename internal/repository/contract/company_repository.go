package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	Update(ctx context.Context, company *entity.Company) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Company, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Company, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
