package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/pkg/embedding"
	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/rag/memory"
)

type IMemoryService interface {
	Consume(ctx context.Context) error
}

// memoryService distills finished conversations into semantic facts. It runs
// off the CONVERSATION_FINISHED queue so extraction never delays a reply.
type memoryService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	extractor         *memory.Extractor
	embeddingProvider embedding.EmbeddingProvider
}

func NewMemoryService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	extractor *memory.Extractor,
	embeddingProvider embedding.EmbeddingProvider,
) IMemoryService {
	return &memoryService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		extractor:         extractor,
		embeddingProvider: embeddingProvider,
	}
}

func (ms *memoryService) Consume(ctx context.Context) error {
	messages, err := ms.pubSub.Subscribe(ctx, ms.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ms.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ms *memoryService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ConversationFinishedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal finished-conversation job: %v", err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Extracting facts from conversation %s", payload.ConversationId)

	uow := ms.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: payload.ConversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		log.Printf("[ERROR] Failed to load transcript for %s: %v", payload.ConversationId, err)
		msg.Nack()
		return
	}
	if len(rows) == 0 {
		msg.Ack()
		return
	}

	transcript := make([]llm.Message, 0, len(rows))
	for _, row := range rows {
		transcript = append(transcript, llm.Message{Role: row.Role, Content: row.Content})
	}

	facts, err := ms.extractor.Extract(ctx, transcript)
	if err != nil {
		log.Printf("[ERROR] Fact extraction failed for %s: %v", payload.ConversationId, err)
		msg.Nack()
		return
	}
	if len(facts) == 0 {
		log.Printf("[INFO] No facts worth keeping from conversation %s", payload.ConversationId)
		msg.Ack()
		return
	}

	entities := make([]*entity.MemoryFact, 0, len(facts))
	for _, fact := range facts {
		vector, err := ms.embeddingProvider.Generate(ctx, fact.Content, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to embed fact for %s: %v", payload.ConversationId, err)
			msg.Nack()
			return
		}
		entities = append(entities, &entity.MemoryFact{
			Id:             uuid.New(),
			ConversationId: payload.ConversationId,
			ChatbotId:      payload.ChatbotId,
			Content:        fact.Content,
			Category:       fact.Category,
			Confidence:     fact.Confidence,
			Embedding:      vector,
		})
	}

	if err := uow.MemoryFactRepository().CreateBulk(ctx, entities); err != nil {
		log.Printf("[ERROR] Failed to store facts for %s: %v", payload.ConversationId, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Stored %d facts from conversation %s", len(entities), payload.ConversationId)
	msg.Ack()
}
