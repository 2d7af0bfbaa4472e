package retrieval

import (
	"context"

	"github.com/google/uuid"
)

// TenantScope is the trusted multitenancy boundary for one request. It is
// supplied by the authorization layer and must never be widened by any
// retrieval stage.
type TenantScope struct {
	CompanyID uuid.UUID
	ChatbotID uuid.UUID
	// SharedKB selects the company-wide knowledge base; when false, only the
	// explicit allowlist below is searchable.
	SharedKB           bool
	AllowedDocumentIDs []uuid.UUID
	// ScopeTags optionally narrows retrieval to topically tagged chunks.
	ScopeTags []string
}

// Candidate is one ranked grounding passage. Ephemeral, never persisted.
type Candidate struct {
	DocumentID uuid.UUID
	Title      string
	Content    string
	Similarity float64
	Tags       []string
}

// Config encapsulates retrieval parameters for one request.
type Config struct {
	Threshold     float64 // primary similarity threshold
	TopK          int
	FloorRatio    float64 // fallback tier multiplier (typo tolerance)
	AbsoluteFloor float64 // last-resort tier
	FactualFloor  float64 // relaxed floor for contact-information queries
}

// DefaultConfig returns the default retrieval configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:     0.50,
		TopK:          5,
		FloorRatio:    0.85,
		AbsoluteFloor: 0.20,
		FactualFloor:  0.20,
	}
}

// VectorSearcher is the tenant store's similarity RPC. The tenant filter is
// applied inside the implementation, not after the fact.
type VectorSearcher interface {
	SearchSimilarWithScore(ctx context.Context, embedding []float32, threshold float64, limit int, scope TenantScope) ([]Candidate, error)
}

// Result is the outcome of one retrieval run.
type Result struct {
	Candidates   []Candidate
	Tier         string // which fallback tier produced the candidates
	Factual      bool
	ContextFound bool
}
