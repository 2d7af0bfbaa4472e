package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Conversation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyId uuid.UUID `gorm:"type:uuid;not null;index"`
	ChatbotId uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"type:varchar(32);default:'active';index"`
	// DialogState is the serialized session context; the in-process cache
	// rebuilds from it on miss.
	DialogState   datatypes.JSON `gorm:"type:jsonb"`
	MessageCount  int            `gorm:"default:0"`
	Topic         string         `gorm:"type:text"`
	LastMessageAt time.Time      `gorm:"index"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	EndedAt       *time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Conversation) TableName() string {
	return "conversations"
}
