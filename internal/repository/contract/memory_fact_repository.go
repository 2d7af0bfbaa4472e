package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/pkg/rag/memory"
)

type MemoryFactRepository interface {
	Create(ctx context.Context, fact *entity.MemoryFact) error
	CreateBulk(ctx context.Context, facts []*entity.MemoryFact) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryFact, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarFacts runs the cosine-similarity search scoped to one
	// conversation. Satisfies memory.FactSearcher.
	SearchSimilarFacts(ctx context.Context, embedding []float32, threshold float64, limit int, sessionID uuid.UUID) ([]memory.StoredFact, error)
}
