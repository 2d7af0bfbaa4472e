package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Chatbot struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:varchar(255);not null"`
	WidgetKeyHash string    `gorm:"type:varchar(255);not null"` // bcrypt
	SharedKB      bool      `gorm:"default:true"`
	// AllowedDocumentIds holds the explicit allowlist used when SharedKB is
	// off; ScopeTags optionally narrow retrieval to topical chunks.
	AllowedDocumentIds datatypes.JSON `gorm:"type:jsonb"`
	ScopeTags          datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (Chatbot) TableName() string {
	return "chatbots"
}
