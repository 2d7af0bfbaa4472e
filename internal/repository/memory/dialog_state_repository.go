package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"ai-chatbot-be/internal/repository/contract"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/pkg/store"
)

// DialogStateRepository keeps per-conversation dialog state in-process for low
// latency, writing through to the conversation row so state survives restarts
// and spreads across replicas. Cache misses rebuild from the row.
type DialogStateRepository struct {
	cache         *cache.Cache
	conversations contract.ConversationRepository
}

func NewDialogStateRepository(conversations contract.ConversationRepository) *DialogStateRepository {
	// Default expiration of 1 hour, expired entries purged every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &DialogStateRepository{
		cache:         c,
		conversations: conversations,
	}
}

// Load returns the cached session context, falling back to the persisted
// conversation row. (nil, nil) means the conversation is unknown.
func (r *DialogStateRepository) Load(ctx context.Context, conversationID string) (*store.SessionContext, error) {
	if x, found := r.cache.Get(conversationID); found {
		return x.(*store.SessionContext), nil
	}

	if r.conversations == nil {
		return nil, nil
	}
	id, err := uuid.Parse(conversationID)
	if err != nil {
		return nil, nil
	}
	conversation, err := r.conversations.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if conversation == nil || conversation.DialogState == nil {
		return nil, nil
	}

	r.cache.Set(conversationID, conversation.DialogState, cache.DefaultExpiration)
	return conversation.DialogState, nil
}

// Save caches the advanced context and writes it through to the conversation
// row. Last write wins on concurrent turns.
func (r *DialogStateRepository) Save(ctx context.Context, session *store.SessionContext) error {
	r.cache.Set(session.ConversationID, session, cache.DefaultExpiration)

	if r.conversations == nil {
		return nil
	}
	id, err := uuid.Parse(session.ConversationID)
	if err != nil {
		return nil
	}
	return r.conversations.UpdateDialogState(ctx, id, session, session.CurrentTopic, session.MessageCount)
}

// Evict drops a conversation from the cache, used when a conversation ends.
func (r *DialogStateRepository) Evict(conversationID string) {
	r.cache.Delete(conversationID)
}

// Reset clears the whole cache.
func (r *DialogStateRepository) Reset() {
	r.cache.Flush()
}
