package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCompanyID struct {
	CompanyID uuid.UUID
}

func (s ByCompanyID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("company_id = ?", s.CompanyID)
}

type ByChatbotID struct {
	ChatbotID uuid.UUID
}

func (s ByChatbotID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chatbot_id = ?", s.ChatbotID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// IdleBefore matches conversations whose last message predates the cutoff.
type IdleBefore struct {
	Cutoff time.Time
}

func (s IdleBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("last_message_at < ?", s.Cutoff)
}

type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}
