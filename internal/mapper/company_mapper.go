package mapper

import (
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/model"
)

type CompanyMapper struct{}

func NewCompanyMapper() *CompanyMapper {
	return &CompanyMapper{}
}

func (m *CompanyMapper) ToEntity(c *model.Company) *entity.Company {
	if c == nil {
		return nil
	}

	return &entity.Company{
		Id:            c.Id,
		Name:          c.Name,
		BrandToken:    c.BrandToken,
		BrandFullForm: c.BrandFullForm,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     optionalTime(c.UpdatedAt),
		DeletedAt:     deletedAtToPtr(c.DeletedAt),
		IsDeleted:     c.DeletedAt.Valid,
	}
}

func (m *CompanyMapper) ToModel(c *entity.Company) *model.Company {
	if c == nil {
		return nil
	}

	return &model.Company{
		Id:            c.Id,
		Name:          c.Name,
		BrandToken:    c.BrandToken,
		BrandFullForm: c.BrandFullForm,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     derefTime(c.UpdatedAt),
		DeletedAt:     ptrToDeletedAt(c.DeletedAt, c.IsDeleted),
	}
}
