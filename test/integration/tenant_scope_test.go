package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/model"
	"ai-chatbot-be/internal/repository/implementation"
	"ai-chatbot-be/pkg/database"
	"ai-chatbot-be/pkg/rag/retrieval"
)

const embeddingDims = 768

// basisVector returns a unit vector along one axis, so cosine similarity
// between two seeded chunks is exactly 1 (same axis) or 0 (different axis).
func basisVector(axis int) []float32 {
	v := make([]float32, embeddingDims)
	v[axis] = 1
	return v
}

func TestSearchSimilarEnforcesTenantScope(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		t.Skipf("Skipping: pgvector extension unavailable: %v", err)
	}
	if err := db.AutoMigrate(&model.Company{}, &model.Document{}, &model.DocumentChunk{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	ctx := context.Background()
	companyRepo := implementation.NewCompanyRepository(db)
	documentRepo := implementation.NewDocumentRepository(db)
	chunkRepo := implementation.NewDocumentChunkRepository(db)

	// Seed two companies with one document and one chunk each. Both chunks sit
	// on the same embedding axis so only the tenant filter can tell them apart.
	companyA := &entity.Company{Id: uuid.New(), Name: "Tenant A"}
	companyB := &entity.Company{Id: uuid.New(), Name: "Tenant B"}
	assert.NoError(t, companyRepo.Create(ctx, companyA))
	assert.NoError(t, companyRepo.Create(ctx, companyB))

	docA := &entity.Document{Id: uuid.New(), CompanyId: companyA.Id, Title: "Pricing A", Content: "plan costs"}
	docB := &entity.Document{Id: uuid.New(), CompanyId: companyB.Id, Title: "Pricing B", Content: "plan costs"}
	assert.NoError(t, documentRepo.Create(ctx, docA))
	assert.NoError(t, documentRepo.Create(ctx, docB))

	chunkA := &entity.DocumentChunk{Id: uuid.New(), DocumentId: docA.Id, Content: "tenant A pricing", Embedding: basisVector(0), Tags: []string{"billing"}}
	chunkB := &entity.DocumentChunk{Id: uuid.New(), DocumentId: docB.Id, Content: "tenant B pricing", Embedding: basisVector(0), Tags: []string{"billing"}}
	assert.NoError(t, chunkRepo.CreateBulk(ctx, []*entity.DocumentChunk{chunkA, chunkB}))

	defer func() {
		db.Exec("DELETE FROM document_chunks WHERE id IN ?", []uuid.UUID{chunkA.Id, chunkB.Id})
		db.Exec("DELETE FROM documents WHERE id IN ?", []uuid.UUID{docA.Id, docB.Id})
		db.Exec("DELETE FROM companies WHERE id IN ?", []uuid.UUID{companyA.Id, companyB.Id})
	}()

	query := basisVector(0)

	t.Run("company filter excludes other tenants", func(t *testing.T) {
		scope := retrieval.TenantScope{CompanyID: companyA.Id, ChatbotID: uuid.New(), SharedKB: true}
		candidates, err := chunkRepo.SearchSimilarWithScore(ctx, query, 0.5, 10, scope)
		assert.NoError(t, err)
		if assert.Len(t, candidates, 1) {
			assert.Equal(t, docA.Id, candidates[0].DocumentID)
			assert.Equal(t, "tenant A pricing", candidates[0].Content)
			assert.InDelta(t, 1.0, candidates[0].Similarity, 0.001)
		}
	})

	t.Run("allowlist restricts a closed knowledge base", func(t *testing.T) {
		scope := retrieval.TenantScope{
			CompanyID:          companyA.Id,
			ChatbotID:          uuid.New(),
			SharedKB:           false,
			AllowedDocumentIDs: []uuid.UUID{docA.Id},
		}
		candidates, err := chunkRepo.SearchSimilarWithScore(ctx, query, 0.5, 10, scope)
		assert.NoError(t, err)
		assert.Len(t, candidates, 1)

		// An allowlist pointing at another tenant's document still yields
		// nothing: the company filter runs regardless.
		scope.AllowedDocumentIDs = []uuid.UUID{docB.Id}
		candidates, err = chunkRepo.SearchSimilarWithScore(ctx, query, 0.5, 10, scope)
		assert.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("tag filter narrows results", func(t *testing.T) {
		scope := retrieval.TenantScope{CompanyID: companyA.Id, ChatbotID: uuid.New(), SharedKB: true, ScopeTags: []string{"billing"}}
		candidates, err := chunkRepo.SearchSimilarWithScore(ctx, query, 0.5, 10, scope)
		assert.NoError(t, err)
		assert.Len(t, candidates, 1)

		scope.ScopeTags = []string{"legal"}
		candidates, err = chunkRepo.SearchSimilarWithScore(ctx, query, 0.5, 10, scope)
		assert.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("threshold excludes orthogonal chunks", func(t *testing.T) {
		scope := retrieval.TenantScope{CompanyID: companyA.Id, ChatbotID: uuid.New(), SharedKB: true}
		candidates, err := chunkRepo.SearchSimilarWithScore(ctx, basisVector(1), 0.5, 10, scope)
		assert.NoError(t, err)
		assert.Empty(t, candidates)
	})
}
