package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// MemoryFact rows are append-only.
type MemoryFact struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChatbotId      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Content        string          `gorm:"type:text;not null"`
	Category       string          `gorm:"type:varchar(32)"`
	Confidence     float64         `gorm:"default:0"`
	Embedding      pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (MemoryFact) TableName() string {
	return "memory_facts"
}
