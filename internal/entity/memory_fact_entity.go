package entity

import (
	"time"

	"github.com/google/uuid"
)

type MemoryFact struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationId uuid.UUID `gorm:"type:uuid;index"`
	ChatbotId      uuid.UUID `gorm:"type:uuid;index"`
	Content        string
	Category       string
	Confidence     float64
	Embedding      []float32
	CreatedAt      time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
