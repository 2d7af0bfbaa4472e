package entity

import (
	"time"

	"github.com/google/uuid"
)

type Chatbot struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyId          uuid.UUID `gorm:"type:uuid;index"`
	Name               string
	WidgetKeyHash      string
	SharedKB           bool
	AllowedDocumentIds []uuid.UUID
	ScopeTags          []string
	CreatedAt          time.Time
	UpdatedAt          *time.Time
	DeletedAt          *time.Time
	IsDeleted          bool
}
