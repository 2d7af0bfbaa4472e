package constant

// Message roles stored on conversation messages.
const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// Conversation lifecycle statuses.
const (
	ConversationStatusActive   = "active"
	ConversationStatusFinished = "finished"
)

// FallbackPanicReply is returned when a turn panics somewhere below the
// service guard. The user never sees an internal error.
const FallbackPanicReply = "I'm sorry, something went wrong on my side. Please try again in a moment."

// WelcomeMessage opens every new conversation.
const WelcomeMessage = "Hi! How can I help you today?"
