package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChatbotRequest struct {
	Name               string      `json:"name" validate:"required,max=255"`
	SharedKB           *bool       `json:"shared_kb,omitempty"`
	AllowedDocumentIds []uuid.UUID `json:"allowed_document_ids,omitempty"`
	ScopeTags          []string    `json:"scope_tags,omitempty" validate:"max=10"`
}

// CreateChatbotResponse carries the plaintext widget key exactly once; only
// its bcrypt hash is stored.
type CreateChatbotResponse struct {
	Id        uuid.UUID `json:"id"`
	WidgetKey string    `json:"widget_key"`
}

type ShowChatbotResponse struct {
	Id                 uuid.UUID   `json:"id"`
	Name               string      `json:"name"`
	SharedKB           bool        `json:"shared_kb"`
	AllowedDocumentIds []uuid.UUID `json:"allowed_document_ids,omitempty"`
	ScopeTags          []string    `json:"scope_tags,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
}
