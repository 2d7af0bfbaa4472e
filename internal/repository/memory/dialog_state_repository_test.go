package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-chatbot-be/pkg/rag/dialog"
	"ai-chatbot-be/pkg/store"
)

// Without a conversations repository the store runs cache-only, which is how
// the offline simulator uses it.
func TestDialogStateRepositoryCacheOnly(t *testing.T) {
	repo := NewDialogStateRepository(nil)
	ctx := context.Background()
	conversationID := uuid.NewString()

	loaded, err := repo.Load(ctx, conversationID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	session := &store.SessionContext{
		ConversationID: conversationID,
		State:          dialog.StateAnswering,
		CurrentTopic:   "pricing",
		MessageCount:   3,
		UpdatedAt:      time.Now(),
	}
	assert.NoError(t, repo.Save(ctx, session))

	loaded, err = repo.Load(ctx, conversationID)
	assert.NoError(t, err)
	if assert.NotNil(t, loaded) {
		assert.Equal(t, dialog.StateAnswering, loaded.State)
		assert.Equal(t, "pricing", loaded.CurrentTopic)
		assert.Equal(t, 3, loaded.MessageCount)
	}

	repo.Evict(conversationID)
	loaded, err = repo.Load(ctx, conversationID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDialogStateRepositoryReset(t *testing.T) {
	repo := NewDialogStateRepository(nil)
	ctx := context.Background()

	first := uuid.NewString()
	second := uuid.NewString()
	assert.NoError(t, repo.Save(ctx, &store.SessionContext{ConversationID: first, State: dialog.StateIdle}))
	assert.NoError(t, repo.Save(ctx, &store.SessionContext{ConversationID: second, State: dialog.StateIdle}))

	repo.Reset()

	loaded, err := repo.Load(ctx, first)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
	loaded, err = repo.Load(ctx, second)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}
