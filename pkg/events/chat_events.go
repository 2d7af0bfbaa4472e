package events

import "time"

// Event type codes published on the NATS bus.
const (
	TypeTurnCompleted        = "TURN_COMPLETED"
	TypeConversationFinished = "CONVERSATION_FINISHED"
	TypeDocumentIngested     = "DOCUMENT_INGESTED"
)

// NewTurnCompleted reports one answered message, used for live monitoring.
func NewTurnCompleted(conversationID, chatbotID, intent, route string, contextFound bool, latencyMs int64) Event {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"conversation_id": conversationID,
			"chatbot_id":      chatbotID,
			"intent":          intent,
			"route":           route,
			"context_found":   contextFound,
			"latency_ms":      latencyMs,
		},
		OccurredAt: time.Now(),
	}
}

func NewConversationFinished(conversationID, chatbotID string, messageCount int) Event {
	return BaseEvent{
		Type: TypeConversationFinished,
		Data: map[string]interface{}{
			"conversation_id": conversationID,
			"chatbot_id":      chatbotID,
			"message_count":   messageCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentIngested(documentID, companyID string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"document_id": documentID,
			"company_id":  companyID,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}
