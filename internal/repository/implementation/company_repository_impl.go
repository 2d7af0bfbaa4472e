package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/mapper"
	"ai-chatbot-be/internal/model"
	"ai-chatbot-be/internal/repository/contract"
	"ai-chatbot-be/internal/repository/specification"
)

type CompanyRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CompanyMapper
}

func NewCompanyRepository(db *gorm.DB) contract.CompanyRepository {
	return &CompanyRepositoryImpl{
		db:     db,
		mapper: mapper.NewCompanyMapper(),
	}
}

func (r *CompanyRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CompanyRepositoryImpl) Create(ctx context.Context, company *entity.Company) error {
	m := r.mapper.ToModel(company)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*company = *r.mapper.ToEntity(m)
	return nil
}

func (r *CompanyRepositoryImpl) Update(ctx context.Context, company *entity.Company) error {
	m := r.mapper.ToModel(company)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*company = *r.mapper.ToEntity(m)
	return nil
}

func (r *CompanyRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Company{}, id).Error
}

func (r *CompanyRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Company, error) {
	var m model.Company
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CompanyRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Company, error) {
	var models []*model.Company
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Company, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *CompanyRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Company{}).Count(&count).Error
	return count, err
}
