package retrieval

import (
	"context"
	"log"
	"sort"

	"ai-chatbot-be/pkg/embedding"
)

// Fallback tier names, recorded on the result for observability.
const (
	TierPrimary = "primary"
	TierRelaxed = "relaxed"
	TierFloor   = "floor"
)

// Engine finds tenant-scoped grounding passages: embed, tiered similarity
// search, factual re-ranking. Any RPC failure degrades to an empty result,
// never an error to the caller.
type Engine struct {
	embedder embedding.EmbeddingProvider
	searcher VectorSearcher
	logger   *log.Logger
}

func NewEngine(embedder embedding.EmbeddingProvider, searcher VectorSearcher, logger *log.Logger) *Engine {
	return &Engine{
		embedder: embedder,
		searcher: searcher,
		logger:   logger,
	}
}

// Retrieve runs the full retrieval flow for a normalized query.
func (e *Engine) Retrieve(ctx context.Context, query string, scope TenantScope, cfg Config) *Result {
	queryVec, err := e.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		e.logf("[RETRIEVAL] Embedding failed: %v", err)
		return &Result{ContextFound: false}
	}

	factual := isFactualQuery(query)
	primaryThreshold := cfg.Threshold
	limit := cfg.TopK
	if factual {
		// Contact answers often live in short low-overlap chunks; relax the
		// floor and over-fetch for the re-ranking pass.
		primaryThreshold = cfg.FactualFloor
		limit = cfg.TopK * 2
		e.logf("[RETRIEVAL] Factual query detected, floor=%.2f limit=%d", primaryThreshold, limit)
	}

	candidates, tier := e.tieredSearch(ctx, queryVec, primaryThreshold, limit, scope, cfg)
	if len(candidates) == 0 {
		e.logf("[RETRIEVAL] No candidates in any tier")
		return &Result{Factual: factual, ContextFound: false}
	}

	if factual {
		candidates = e.rerankFactual(query, candidates)
	}

	if len(candidates) > cfg.TopK {
		candidates = candidates[:cfg.TopK]
	}

	// Boosted scores may exceed 1; clamp on output so similarity stays in [0,1].
	for i := range candidates {
		if candidates[i].Similarity > 1.0 {
			candidates[i].Similarity = 1.0
		}
	}

	e.logf("[RETRIEVAL] %d candidates (tier=%s, factual=%v)", len(candidates), tier, factual)

	return &Result{
		Candidates:   candidates,
		Tier:         tier,
		Factual:      factual,
		ContextFound: true,
	}
}

// tieredSearch tries the primary threshold, then a relaxed threshold, then
// the absolute floor. The first non-empty tier's results are used verbatim;
// tiers are never merged.
func (e *Engine) tieredSearch(ctx context.Context, queryVec []float32, primary float64, limit int, scope TenantScope, cfg Config) ([]Candidate, string) {
	tiers := []struct {
		name      string
		threshold float64
	}{
		{TierPrimary, primary},
		{TierRelaxed, primary * cfg.FloorRatio},
		{TierFloor, cfg.AbsoluteFloor},
	}

	prev := -1.0
	for _, tier := range tiers {
		if tier.threshold < cfg.AbsoluteFloor {
			tier.threshold = cfg.AbsoluteFloor
		}
		if prev >= 0 && tier.threshold >= prev {
			continue // this tier cannot find anything the previous one missed
		}
		prev = tier.threshold

		results, err := e.searcher.SearchSimilarWithScore(ctx, queryVec, tier.threshold, limit, scope)
		if err != nil {
			e.logf("[RETRIEVAL] Tier %s search failed: %v", tier.name, err)
			continue
		}
		if len(results) > 0 {
			return results, tier.name
		}
		e.logf("[RETRIEVAL] Tier %s empty (threshold=%.2f)", tier.name, tier.threshold)
	}

	return nil, ""
}

// rerankFactual multiplies similarity by the boost factors for the contact
// signals the query asks for, then re-sorts.
func (e *Engine) rerankFactual(query string, candidates []Candidate) []Candidate {
	needs := detectNeeds(query)
	for i := range candidates {
		factor := boostFactor(candidates[i].Content, needs)
		if factor != 1.0 {
			e.logf("[RETRIEVAL] Boost x%.2f for document %s", factor, candidates[i].DocumentID)
			candidates[i].Similarity *= factor
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	return candidates
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
