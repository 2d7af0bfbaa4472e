package entity

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string
	BrandToken    string
	BrandFullForm string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
