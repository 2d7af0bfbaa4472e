package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/pkg/rag/retrieval"
)

type DocumentChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	Update(ctx context.Context, chunk *entity.DocumentChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore runs the cosine-similarity search with the tenant
	// filter applied inside the SQL. Satisfies retrieval.VectorSearcher.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, threshold float64, limit int, scope retrieval.TenantScope) ([]retrieval.Candidate, error)
}
