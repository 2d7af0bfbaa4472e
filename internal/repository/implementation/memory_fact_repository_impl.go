package implementation

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/mapper"
	"ai-chatbot-be/internal/model"
	"ai-chatbot-be/internal/repository/contract"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/pkg/rag/memory"
)

type MemoryFactRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryFactMapper
}

func NewMemoryFactRepository(db *gorm.DB) contract.MemoryFactRepository {
	return &MemoryFactRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryFactMapper(),
	}
}

func (r *MemoryFactRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MemoryFactRepositoryImpl) Create(ctx context.Context, fact *entity.MemoryFact) error {
	m := r.mapper.ToModel(fact)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*fact = *r.mapper.ToEntity(m)
	return nil
}

func (r *MemoryFactRepositoryImpl) CreateBulk(ctx context.Context, facts []*entity.MemoryFact) error {
	if len(facts) == 0 {
		return nil
	}
	models := make([]*model.MemoryFact, len(facts))
	for i, f := range facts {
		models[i] = r.mapper.ToModel(f)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*facts[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *MemoryFactRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryFact, error) {
	var models []*model.MemoryFact
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.MemoryFact, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *MemoryFactRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.MemoryFact{}).Count(&count).Error
	return count, err
}

// SearchSimilarFacts returns the facts most similar to the query vector for
// one conversation, threshold applied in SQL.
func (r *MemoryFactRepositoryImpl) SearchSimilarFacts(ctx context.Context, embedding []float32, threshold float64, limit int, sessionID uuid.UUID) ([]memory.StoredFact, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.MemoryFact
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("memory_facts").
		Select("memory_facts.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("conversation_id = ?", sessionID).
		Where("deleted_at IS NULL").
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	facts := make([]memory.StoredFact, len(results))
	for i, res := range results {
		facts[i] = memory.StoredFact{
			ID:         res.Id,
			Content:    res.Content,
			Category:   res.Category,
			Similarity: res.Similarity,
		}
	}
	return facts, nil
}
