package mapper

import (
	"github.com/pgvector/pgvector-go"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	return &entity.Document{
		Id:        d.Id,
		CompanyId: d.CompanyId,
		Title:     d.Title,
		Content:   d.Content,
		Tags:      fromJSONStrings(d.Tags),
		CreatedAt: d.CreatedAt,
		UpdatedAt: optionalTime(d.UpdatedAt),
		DeletedAt: deletedAtToPtr(d.DeletedAt),
		IsDeleted: d.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	return &model.Document{
		Id:        d.Id,
		CompanyId: d.CompanyId,
		Title:     d.Title,
		Content:   d.Content,
		Tags:      toJSONStrings(d.Tags),
		CreatedAt: d.CreatedAt,
		UpdatedAt: derefTime(d.UpdatedAt),
		DeletedAt: ptrToDeletedAt(d.DeletedAt, d.IsDeleted),
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}

	return &entity.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		Content:    c.Content,
		Embedding:  c.Embedding.Slice(),
		ChunkIndex: c.ChunkIndex,
		Tags:       fromJSONStrings(c.Tags),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  optionalTime(c.UpdatedAt),
		DeletedAt:  deletedAtToPtr(c.DeletedAt),
		IsDeleted:  c.DeletedAt.Valid,
	}
}

func (m *DocumentChunkMapper) ToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}

	return &model.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		Content:    c.Content,
		Embedding:  pgvector.NewVector(c.Embedding),
		ChunkIndex: c.ChunkIndex,
		Tags:       toJSONStrings(c.Tags),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  derefTime(c.UpdatedAt),
		DeletedAt:  ptrToDeletedAt(c.DeletedAt, c.IsDeleted),
	}
}
