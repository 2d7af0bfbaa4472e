package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-chatbot-be/pkg/store"
)

type Conversation struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyId     uuid.UUID `gorm:"type:uuid;index"`
	ChatbotId     uuid.UUID `gorm:"type:uuid;index"`
	Status        string
	DialogState   *store.SessionContext
	MessageCount  int
	Topic         string
	LastMessageAt time.Time
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	EndedAt       *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}

type ConversationMessage struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationId uuid.UUID `gorm:"type:uuid;index"`
	Role           string
	Content        string
	Intent         string
	Confidence     float64
	Stage          string
	Route          string
	ContextFound   bool
	Retries        int
	PlanTrace      []byte // serialized plan trace, nil for plain turns
	CreatedAt      time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
