package intent

import (
	"context"
	"log"

	"ai-chatbot-be/pkg/embedding"
)

// semanticAcceptThreshold is the minimum cosine similarity for the semantic
// stage to accept its arg-max label.
const semanticAcceptThreshold = 0.75

// SemanticStage classifies by comparing the query embedding against the
// pre-computed example cache.
type SemanticStage struct {
	provider embedding.EmbeddingProvider
	examples *ExampleCache
	logger   *log.Logger
}

func NewSemanticStage(provider embedding.EmbeddingProvider, examples *ExampleCache, logger *log.Logger) *SemanticStage {
	return &SemanticStage{
		provider: provider,
		examples: examples,
		logger:   logger,
	}
}

// Classify returns (result, true) when the best match clears the threshold.
func (s *SemanticStage) Classify(ctx context.Context, text string) (Classification, bool, error) {
	queryVec, err := s.provider.Generate(ctx, text, embedding.TaskRetrievalQuery)
	if err != nil {
		return Classification{}, false, err
	}

	label, score, err := s.examples.BestMatch(ctx, queryVec)
	if err != nil {
		return Classification{}, false, err
	}

	if s.logger != nil {
		s.logger.Printf("[SEMANTIC] Best match: %s (score=%.3f)", label, score)
	}

	if score < semanticAcceptThreshold {
		return Classification{}, false, nil
	}

	return Classification{Intent: label, Confidence: score, Stage: StageSemantic}, true, nil
}
