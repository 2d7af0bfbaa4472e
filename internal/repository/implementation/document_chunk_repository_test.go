package implementation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-chatbot-be/pkg/rag/retrieval"
)

// A closed knowledge base with an empty allowlist must resolve to "nothing
// searchable" before any SQL runs; a nil DB handle proves no query is built.
func TestSearchSimilarClosedKBEmptyAllowlist(t *testing.T) {
	repo := NewDocumentChunkRepository(nil)

	scope := retrieval.TenantScope{
		CompanyID: uuid.New(),
		ChatbotID: uuid.New(),
		SharedKB:  false,
	}

	candidates, err := repo.SearchSimilarWithScore(context.Background(), []float32{0.1, 0.2}, 0.5, 5, scope)
	assert.NoError(t, err)
	assert.Empty(t, candidates)
}
