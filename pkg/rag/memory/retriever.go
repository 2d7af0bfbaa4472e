package memory

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"ai-chatbot-be/pkg/embedding"
)

// defaultFactThreshold filters facts too loosely related to the query.
const defaultFactThreshold = 0.55

// defaultFactLimit bounds how many facts enrich one prompt.
const defaultFactLimit = 5

// StoredFact is a persisted fact returned by the vector search.
type StoredFact struct {
	ID         uuid.UUID
	Content    string
	Category   string
	Similarity float64
}

// FactSearcher is the vector RPC over the memory-fact store, scoped to one
// session's owner.
type FactSearcher interface {
	SearchSimilarFacts(ctx context.Context, embedding []float32, threshold float64, limit int, sessionID uuid.UUID) ([]StoredFact, error)
}

// Retriever fetches the facts relevant to the current query, scoped to the
// session. Failures degrade to an empty fact list; memory is an enrichment,
// never a dependency.
type Retriever struct {
	embedder embedding.EmbeddingProvider
	searcher FactSearcher
	logger   *log.Logger
}

func NewRetriever(embedder embedding.EmbeddingProvider, searcher FactSearcher, logger *log.Logger) *Retriever {
	return &Retriever{embedder: embedder, searcher: searcher, logger: logger}
}

// Relevant returns fact contents for prompt enrichment.
func (r *Retriever) Relevant(ctx context.Context, query string, sessionID uuid.UUID) []string {
	facts, err := r.relevant(ctx, query, sessionID)
	if err != nil {
		if r.logger != nil {
			r.logger.Printf("[MEMORY] Fact lookup degraded to empty: %v", err)
		}
		return nil
	}
	return facts
}

func (r *Retriever) relevant(ctx context.Context, query string, sessionID uuid.UUID) ([]string, error) {
	vector, err := r.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	stored, err := r.searcher.SearchSimilarFacts(ctx, vector, defaultFactThreshold, defaultFactLimit, sessionID)
	if err != nil {
		return nil, fmt.Errorf("search facts: %w", err)
	}

	contents := make([]string, 0, len(stored))
	for _, f := range stored {
		contents = append(contents, f.Content)
	}
	return contents, nil
}
