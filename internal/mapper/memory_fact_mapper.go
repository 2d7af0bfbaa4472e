package mapper

import (
	"github.com/pgvector/pgvector-go"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/model"
)

type MemoryFactMapper struct{}

func NewMemoryFactMapper() *MemoryFactMapper {
	return &MemoryFactMapper{}
}

func (m *MemoryFactMapper) ToEntity(f *model.MemoryFact) *entity.MemoryFact {
	if f == nil {
		return nil
	}

	return &entity.MemoryFact{
		Id:             f.Id,
		ConversationId: f.ConversationId,
		ChatbotId:      f.ChatbotId,
		Content:        f.Content,
		Category:       f.Category,
		Confidence:     f.Confidence,
		Embedding:      f.Embedding.Slice(),
		CreatedAt:      f.CreatedAt,
		DeletedAt:      deletedAtToPtr(f.DeletedAt),
		IsDeleted:      f.DeletedAt.Valid,
	}
}

func (m *MemoryFactMapper) ToModel(f *entity.MemoryFact) *model.MemoryFact {
	if f == nil {
		return nil
	}

	return &model.MemoryFact{
		Id:             f.Id,
		ConversationId: f.ConversationId,
		ChatbotId:      f.ChatbotId,
		Content:        f.Content,
		Category:       f.Category,
		Confidence:     f.Confidence,
		Embedding:      pgvector.NewVector(f.Embedding),
		CreatedAt:      f.CreatedAt,
		DeletedAt:      ptrToDeletedAt(f.DeletedAt, f.IsDeleted),
	}
}
