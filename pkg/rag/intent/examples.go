package intent

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"

	"ai-chatbot-be/pkg/embedding"

	"github.com/patrickmn/go-cache"
)

// Curated example phrases per intent for the semantic stage. Embedded lazily
// once per process and compared by cosine similarity.
var examplePhrases = map[Intent][]string{
	IntentQuestion: {
		"what services do you offer",
		"how much does the premium plan cost",
		"where is your office located",
		"do you ship internationally",
		"what are your opening hours",
		"how long does delivery take",
	},
	IntentChitChat: {
		"how is your day going",
		"tell me a joke",
		"you are pretty smart",
		"what do you think about the weather",
	},
	IntentOutOfScope: {
		"write me a poem about the sea",
		"what is the capital of mongolia",
		"help me with my math homework",
		"who won the football game yesterday",
	},
	IntentHelp: {
		"what can I ask you",
		"how does this chat work",
		"what are you able to help with",
	},
}

type exampleEntry struct {
	intent Intent
	phrase string
	vector []float32
}

// ExampleCache is the process-wide registry of embedded example phrases.
// Lazily built on first use, never evicted, rebuildable identically after
// Reset (tests rely on that lifecycle).
type ExampleCache struct {
	provider embedding.EmbeddingProvider
	entries  *cache.Cache
	logger   *log.Logger

	mu    sync.Mutex
	built bool
}

func NewExampleCache(provider embedding.EmbeddingProvider, logger *log.Logger) *ExampleCache {
	return &ExampleCache{
		provider: provider,
		entries:  cache.New(cache.NoExpiration, 0),
		logger:   logger,
	}
}

// Reset drops all cached embeddings. The next BestMatch rebuilds them.
func (c *ExampleCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Flush()
	c.built = false
}

func (c *ExampleCache) ensureBuilt(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.built {
		return nil
	}

	total := 0
	for it, phrases := range examplePhrases {
		for _, phrase := range phrases {
			vec, err := c.provider.Generate(ctx, phrase, embedding.TaskRetrievalDocument)
			if err != nil {
				return fmt.Errorf("embed example %q: %w", phrase, err)
			}
			key := string(it) + "|" + phrase
			c.entries.Set(key, exampleEntry{intent: it, phrase: phrase, vector: vec}, cache.NoExpiration)
			total++
		}
	}

	c.built = true
	if c.logger != nil {
		c.logger.Printf("[SEMANTIC] Example cache built: %d phrases", total)
	}
	return nil
}

// BestMatch returns the arg-max intent over all example phrases for the
// given query vector, with its cosine similarity score.
func (c *ExampleCache) BestMatch(ctx context.Context, queryVec []float32) (Intent, float64, error) {
	if err := c.ensureBuilt(ctx); err != nil {
		return IntentUnknown, 0, err
	}

	best := IntentUnknown
	bestScore := -1.0
	for _, item := range c.entries.Items() {
		entry := item.Object.(exampleEntry)
		score := cosineSimilarity(queryVec, entry.vector)
		if score > bestScore {
			bestScore = score
			best = entry.intent
		}
	}
	return best, bestScore, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
