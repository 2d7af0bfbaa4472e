package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConversationMessage struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           string    `gorm:"type:varchar(16);not null"`
	Content        string    `gorm:"type:text"`
	// Classification metadata recorded on assistant turns.
	Intent       string         `gorm:"type:varchar(32)"`
	Confidence   float64        `gorm:"default:0"`
	Stage        string         `gorm:"type:varchar(16)"`
	Route        string         `gorm:"type:varchar(16)"`
	ContextFound bool           `gorm:"default:false"`
	Retries      int            `gorm:"default:0"`
	PlanTrace    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}
