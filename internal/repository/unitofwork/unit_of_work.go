package unitofwork

import (
	"context"

	"ai-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CompanyRepository() contract.CompanyRepository
	ChatbotRepository() contract.ChatbotRepository
	DocumentRepository() contract.DocumentRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
	ConversationRepository() contract.ConversationRepository
	ConversationMessageRepository() contract.ConversationMessageRepository
	MemoryFactRepository() contract.MemoryFactRepository
}
