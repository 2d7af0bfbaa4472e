package mapper

import (
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/model"
)

type ChatbotMapper struct{}

func NewChatbotMapper() *ChatbotMapper {
	return &ChatbotMapper{}
}

func (m *ChatbotMapper) ToEntity(c *model.Chatbot) *entity.Chatbot {
	if c == nil {
		return nil
	}

	return &entity.Chatbot{
		Id:                 c.Id,
		CompanyId:          c.CompanyId,
		Name:               c.Name,
		WidgetKeyHash:      c.WidgetKeyHash,
		SharedKB:           c.SharedKB,
		AllowedDocumentIds: fromJSONUUIDs(c.AllowedDocumentIds),
		ScopeTags:          fromJSONStrings(c.ScopeTags),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          optionalTime(c.UpdatedAt),
		DeletedAt:          deletedAtToPtr(c.DeletedAt),
		IsDeleted:          c.DeletedAt.Valid,
	}
}

func (m *ChatbotMapper) ToModel(c *entity.Chatbot) *model.Chatbot {
	if c == nil {
		return nil
	}

	return &model.Chatbot{
		Id:                 c.Id,
		CompanyId:          c.CompanyId,
		Name:               c.Name,
		WidgetKeyHash:      c.WidgetKeyHash,
		SharedKB:           c.SharedKB,
		AllowedDocumentIds: toJSONUUIDs(c.AllowedDocumentIds),
		ScopeTags:          toJSONStrings(c.ScopeTags),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          derefTime(c.UpdatedAt),
		DeletedAt:          ptrToDeletedAt(c.DeletedAt, c.IsDeleted),
	}
}

func (m *ChatbotMapper) ToEntities(chatbots []*model.Chatbot) []*entity.Chatbot {
	entities := make([]*entity.Chatbot, len(chatbots))
	for i, c := range chatbots {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
