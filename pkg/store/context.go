package store

import "time"

// SessionContext is the per-conversation dialog state tracked across turns.
// It is created on the first message, mutated every turn, persisted as a JSON
// blob on the conversation row and cached in-process for low latency.
type SessionContext struct {
	ConversationID string    `json:"conversation_id"`
	CompanyID      string    `json:"company_id"`
	ChatbotID      string    `json:"chatbot_id"`
	State          string    `json:"state"`
	PreviousState  string    `json:"previous_state"`
	LastIntent     string    `json:"last_intent"`
	MessageCount   int       `json:"message_count"`
	CurrentTopic   string    `json:"current_topic"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Advance records a completed turn on the context.
func (c *SessionContext) Advance(state, intent, topic string) {
	c.PreviousState = c.State
	c.State = state
	c.LastIntent = intent
	if topic != "" {
		c.CurrentTopic = topic
	}
	c.MessageCount++
	c.UpdatedAt = time.Now()
}
