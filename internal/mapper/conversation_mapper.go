package mapper

import (
	"encoding/json"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/model"
	"ai-chatbot-be/pkg/store"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	var dialogState *store.SessionContext
	if len(c.DialogState) > 0 {
		var state store.SessionContext
		if err := json.Unmarshal(c.DialogState, &state); err == nil {
			dialogState = &state
		}
	}

	return &entity.Conversation{
		Id:            c.Id,
		CompanyId:     c.CompanyId,
		ChatbotId:     c.ChatbotId,
		Status:        c.Status,
		DialogState:   dialogState,
		MessageCount:  c.MessageCount,
		Topic:         c.Topic,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     optionalTime(c.UpdatedAt),
		EndedAt:       c.EndedAt,
		DeletedAt:     deletedAtToPtr(c.DeletedAt),
		IsDeleted:     c.DeletedAt.Valid,
	}
}

func (m *ConversationMapper) ToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	var dialogState []byte
	if c.DialogState != nil {
		if data, err := json.Marshal(c.DialogState); err == nil {
			dialogState = data
		}
	}

	return &model.Conversation{
		Id:            c.Id,
		CompanyId:     c.CompanyId,
		ChatbotId:     c.ChatbotId,
		Status:        c.Status,
		DialogState:   dialogState,
		MessageCount:  c.MessageCount,
		Topic:         c.Topic,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     derefTime(c.UpdatedAt),
		EndedAt:       c.EndedAt,
		DeletedAt:     ptrToDeletedAt(c.DeletedAt, c.IsDeleted),
	}
}

func (m *ConversationMapper) ToEntities(conversations []*model.Conversation) []*entity.Conversation {
	entities := make([]*entity.Conversation, len(conversations))
	for i, c := range conversations {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

type ConversationMessageMapper struct{}

func NewConversationMessageMapper() *ConversationMessageMapper {
	return &ConversationMessageMapper{}
}

func (m *ConversationMessageMapper) ToEntity(msg *model.ConversationMessage) *entity.ConversationMessage {
	if msg == nil {
		return nil
	}

	return &entity.ConversationMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           msg.Role,
		Content:        msg.Content,
		Intent:         msg.Intent,
		Confidence:     msg.Confidence,
		Stage:          msg.Stage,
		Route:          msg.Route,
		ContextFound:   msg.ContextFound,
		Retries:        msg.Retries,
		PlanTrace:      msg.PlanTrace,
		CreatedAt:      msg.CreatedAt,
		DeletedAt:      deletedAtToPtr(msg.DeletedAt),
		IsDeleted:      msg.DeletedAt.Valid,
	}
}

func (m *ConversationMessageMapper) ToModel(msg *entity.ConversationMessage) *model.ConversationMessage {
	if msg == nil {
		return nil
	}

	return &model.ConversationMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           msg.Role,
		Content:        msg.Content,
		Intent:         msg.Intent,
		Confidence:     msg.Confidence,
		Stage:          msg.Stage,
		Route:          msg.Route,
		ContextFound:   msg.ContextFound,
		Retries:        msg.Retries,
		PlanTrace:      msg.PlanTrace,
		CreatedAt:      msg.CreatedAt,
		DeletedAt:      ptrToDeletedAt(msg.DeletedAt, msg.IsDeleted),
	}
}

func (m *ConversationMessageMapper) ToEntities(messages []*model.ConversationMessage) []*entity.ConversationMessage {
	entities := make([]*entity.ConversationMessage, len(messages))
	for i, msg := range messages {
		entities[i] = m.ToEntity(msg)
	}
	return entities
}
