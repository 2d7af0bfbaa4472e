package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/pkg/rag/dialog"
	"ai-chatbot-be/pkg/store"
)

func TestConversationMapperDialogStateRoundTrip(t *testing.T) {
	m := NewConversationMapper()

	in := &entity.Conversation{
		Id:        uuid.New(),
		CompanyId: uuid.New(),
		ChatbotId: uuid.New(),
		Status:    "active",
		DialogState: &store.SessionContext{
			State:         dialog.StateFollowup,
			PreviousState: dialog.StateAnswering,
			LastIntent:    "QUESTION",
			MessageCount:  7,
			CurrentTopic:  "refund policy",
		},
		MessageCount:  7,
		Topic:         "refund policy",
		LastMessageAt: time.Now(),
		CreatedAt:     time.Now(),
	}

	out := m.ToEntity(m.ToModel(in))

	assert.Equal(t, in.Id, out.Id)
	assert.Equal(t, in.Status, out.Status)
	if assert.NotNil(t, out.DialogState) {
		assert.Equal(t, dialog.StateFollowup, out.DialogState.State)
		assert.Equal(t, dialog.StateAnswering, out.DialogState.PreviousState)
		assert.Equal(t, "QUESTION", out.DialogState.LastIntent)
		assert.Equal(t, 7, out.DialogState.MessageCount)
		assert.Equal(t, "refund policy", out.DialogState.CurrentTopic)
	}
	assert.False(t, out.IsDeleted)
}

func TestConversationMapperNilDialogState(t *testing.T) {
	m := NewConversationMapper()

	in := &entity.Conversation{Id: uuid.New(), Status: "finished"}
	out := m.ToEntity(m.ToModel(in))

	assert.Nil(t, out.DialogState)
	assert.Equal(t, "finished", out.Status)
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
}

func TestChatbotMapperScopeFields(t *testing.T) {
	m := NewChatbotMapper()

	allowed := []uuid.UUID{uuid.New(), uuid.New()}
	in := &entity.Chatbot{
		Id:                 uuid.New(),
		CompanyId:          uuid.New(),
		Name:               "support widget",
		WidgetKeyHash:      "$2a$10$abcdefghijklmnopqrstuv",
		SharedKB:           false,
		AllowedDocumentIds: allowed,
		ScopeTags:          []string{"billing", "faq"},
		CreatedAt:          time.Now(),
	}

	out := m.ToEntity(m.ToModel(in))

	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.WidgetKeyHash, out.WidgetKeyHash)
	assert.False(t, out.SharedKB)
	assert.Equal(t, allowed, out.AllowedDocumentIds)
	assert.Equal(t, []string{"billing", "faq"}, out.ScopeTags)
}
