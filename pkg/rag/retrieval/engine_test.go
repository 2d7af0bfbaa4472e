package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type stubEmbedder struct{}

func (stubEmbedder) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	return nil, errors.New("embedding down")
}

// thresholdSearcher returns its fixed candidate set filtered by the requested
// threshold, recording each call.
type thresholdSearcher struct {
	candidates []Candidate
	err        error
	calls      []struct {
		threshold float64
		limit     int
		scope     TenantScope
	}
}

func (s *thresholdSearcher) SearchSimilarWithScore(ctx context.Context, embedding []float32, threshold float64, limit int, scope TenantScope) ([]Candidate, error) {
	s.calls = append(s.calls, struct {
		threshold float64
		limit     int
		scope     TenantScope
	}{threshold, limit, scope})
	if s.err != nil {
		return nil, s.err
	}
	var out []Candidate
	for _, c := range s.candidates {
		if c.Similarity >= threshold {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func TestTieredFallbackUsesFirstNonEmptyTierVerbatim(t *testing.T) {
	docA := uuid.New()
	docB := uuid.New()
	searcher := &thresholdSearcher{candidates: []Candidate{
		{DocumentID: docA, Content: "delivery takes three days", Similarity: 0.46},
		{DocumentID: docB, Content: "we are a consulting firm", Similarity: 0.44},
	}}
	engine := NewEngine(stubEmbedder{}, searcher, nil)

	result := engine.Retrieve(context.Background(), "how long is delivry", TenantScope{}, DefaultConfig())

	if !result.ContextFound {
		t.Fatal("expected context_found=true from fallback tier")
	}
	if result.Tier != TierRelaxed {
		t.Errorf("tier = %s, want relaxed", result.Tier)
	}
	// The returned set equals exactly the fallback tier's results.
	if len(result.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(result.Candidates))
	}
	if result.Candidates[0].DocumentID != docA || result.Candidates[1].DocumentID != docB {
		t.Error("fallback tier results were reordered or mixed")
	}
}

func TestAbsoluteFloorTier(t *testing.T) {
	searcher := &thresholdSearcher{candidates: []Candidate{
		{DocumentID: uuid.New(), Content: "loosely related", Similarity: 0.25},
	}}
	engine := NewEngine(stubEmbedder{}, searcher, nil)

	result := engine.Retrieve(context.Background(), "garbled qery txt", TenantScope{}, DefaultConfig())

	if !result.ContextFound || result.Tier != TierFloor {
		t.Errorf("tier = %s (found=%v), want floor tier hit", result.Tier, result.ContextFound)
	}
	if len(searcher.calls) != 3 {
		t.Errorf("searcher called %d times, want 3 tiers", len(searcher.calls))
	}
}

func TestEmptyAllTiers(t *testing.T) {
	searcher := &thresholdSearcher{}
	engine := NewEngine(stubEmbedder{}, searcher, nil)

	result := engine.Retrieve(context.Background(), "anything", TenantScope{}, DefaultConfig())

	if result.ContextFound {
		t.Error("expected context_found=false when every tier is empty")
	}
	if len(result.Candidates) != 0 {
		t.Errorf("got %d candidates, want 0", len(result.Candidates))
	}
}

func TestFactualQueryRelaxesFloorAndBoosts(t *testing.T) {
	contactDoc := uuid.New()
	otherDoc := uuid.New()
	searcher := &thresholdSearcher{candidates: []Candidate{
		{DocumentID: otherDoc, Content: "our services include consulting", Similarity: 0.24},
		{DocumentID: contactDoc, Content: "reach us at info@example.com any time", Similarity: 0.22},
	}}
	engine := NewEngine(stubEmbedder{}, searcher, nil)

	result := engine.Retrieve(context.Background(), "What is your email?", TenantScope{}, DefaultConfig())

	if !result.ContextFound {
		t.Fatal("factual branch should find the low-similarity contact chunk")
	}
	if !result.Factual {
		t.Error("query not flagged factual")
	}
	// First tier already uses the relaxed factual floor.
	if searcher.calls[0].threshold != 0.20 {
		t.Errorf("first tier threshold = %.2f, want factual floor 0.20", searcher.calls[0].threshold)
	}
	if searcher.calls[0].limit != 10 {
		t.Errorf("first tier limit = %d, want 2x top_k", searcher.calls[0].limit)
	}
	// The email boost must put the contact chunk on top despite its lower
	// raw similarity.
	if result.Candidates[0].DocumentID != contactDoc {
		t.Errorf("top candidate = %s, want boosted contact chunk", result.Candidates[0].DocumentID)
	}
}

func TestBoostedSimilarityClampedToOne(t *testing.T) {
	searcher := &thresholdSearcher{candidates: []Candidate{
		{DocumentID: uuid.New(), Content: "email info@example.com, 123 Main Street, call +1 555 123 4567", Similarity: 0.9},
	}}
	engine := NewEngine(stubEmbedder{}, searcher, nil)

	result := engine.Retrieve(context.Background(), "email address and phone number please", TenantScope{}, DefaultConfig())

	if result.Candidates[0].Similarity > 1.0 {
		t.Errorf("similarity %.3f exceeds 1.0 after boost", result.Candidates[0].Similarity)
	}
}

func TestSearcherFailureDegradesToEmpty(t *testing.T) {
	searcher := &thresholdSearcher{err: errors.New("rpc down")}
	engine := NewEngine(stubEmbedder{}, searcher, nil)

	result := engine.Retrieve(context.Background(), "anything", TenantScope{}, DefaultConfig())

	if result.ContextFound {
		t.Error("expected degradation to empty result on RPC failure")
	}
}

func TestEmbedderFailureDegradesToEmpty(t *testing.T) {
	searcher := &thresholdSearcher{}
	engine := NewEngine(failingEmbedder{}, searcher, nil)

	result := engine.Retrieve(context.Background(), "anything", TenantScope{}, DefaultConfig())

	if result.ContextFound {
		t.Error("expected degradation to empty result on embedding failure")
	}
	if len(searcher.calls) != 0 {
		t.Error("search must not run without an embedding")
	}
}

func TestScopePassedThroughUnchanged(t *testing.T) {
	scope := TenantScope{
		CompanyID:          uuid.New(),
		ChatbotID:          uuid.New(),
		SharedKB:           false,
		AllowedDocumentIDs: []uuid.UUID{uuid.New()},
		ScopeTags:          []string{"support"},
	}
	searcher := &thresholdSearcher{}
	engine := NewEngine(stubEmbedder{}, searcher, nil)

	engine.Retrieve(context.Background(), "anything", scope, DefaultConfig())

	for _, call := range searcher.calls {
		if call.scope.CompanyID != scope.CompanyID || call.scope.SharedKB != scope.SharedKB ||
			len(call.scope.AllowedDocumentIDs) != 1 || len(call.scope.ScopeTags) != 1 {
			t.Error("tenant scope was altered between engine and searcher")
		}
	}
}
