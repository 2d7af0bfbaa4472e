package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendQueryRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	Message        string    `json:"message" validate:"required,max=4000"`
}

// ValidationDTO surfaces the answer-validation verdict for debugging widgets.
type ValidationDTO struct {
	Valid      bool     `json:"valid"`
	Confidence float64  `json:"confidence"`
	Issues     []string `json:"issues,omitempty"`
}

type SourceDTO struct {
	DocumentId uuid.UUID `json:"document_id"`
	Title      string    `json:"title"`
	Similarity float64   `json:"similarity"`
}

type SendQueryResponse struct {
	ConversationId uuid.UUID      `json:"conversation_id"`
	Response       string         `json:"response"`
	Sources        []SourceDTO    `json:"sources,omitempty"`
	ContextFound   bool           `json:"context_found"`
	Intent         string         `json:"intent"`
	Confidence     float64        `json:"confidence"`
	Stage          string         `json:"stage"`
	Route          string         `json:"route"`
	DialogState    string         `json:"dialog_state"`
	Retries        int            `json:"retries"`
	Validation     *ValidationDTO `json:"validation,omitempty"`
	PlanTrace      interface{}    `json:"plan_trace,omitempty"`
	LatencyMs      int64          `json:"latency_ms"`
}

type StartConversationResponse struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	Greeting       string    `json:"greeting"`
}

type GetConversationHistoryResponse struct {
	Id           uuid.UUID `json:"id"`
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	Intent       string    `json:"intent,omitempty"`
	ContextFound bool      `json:"context_found"`
	CreatedAt    time.Time `json:"created_at"`
}

type EndConversationRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
}

type EndConversationResponse struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	Status         string    `json:"status"`
}

// ConversationFinishedMessage is the job payload that triggers fact
// extraction after a conversation ends.
type ConversationFinishedMessage struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	ChatbotId      uuid.UUID `json:"chatbot_id"`
}
