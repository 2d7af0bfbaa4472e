package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/pkg/embedding"
	"ai-chatbot-be/pkg/events"
	pktNats "ai-chatbot-be/pkg/nats"
	"ai-chatbot-be/pkg/utils"
)

// Document chunking parameters. Overlap keeps sentences that straddle a
// boundary retrievable from either side.
const (
	chunkSize    = 1500
	chunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage chunks and embeds one document. Ack/Nack discipline: invalid
// payloads and deleted documents are Acked so they never retry, transient
// failures are Nacked for redelivery.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed job: %v", err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Processing document embedding for DocumentId: %s", payload.DocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if document == nil {
		log.Printf("[WARN] Document not found, skipping: %s", payload.DocumentId)
		msg.Ack()
		return
	}

	content := fmt.Sprintf("Document Title: %s\n\n%s", document.Title, document.Content)
	chunks := utils.SplitText(content, chunkSize, chunkOverlap)

	entities := make([]*entity.DocumentChunk, 0, len(chunks))
	for i, chunk := range chunks {
		vector, err := cs.embeddingProvider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of document %s: %v", i, payload.DocumentId, err)
			msg.Nack()
			return
		}
		entities = append(entities, &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: document.Id,
			Content:    chunk,
			Embedding:  vector,
			ChunkIndex: i,
			Tags:       document.Tags,
		})
	}

	// Reindex replaces existing chunks; a fresh document has none to delete.
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		log.Printf("[ERROR] Failed to clear old chunks for document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if err := uow.DocumentChunkRepository().CreateBulk(ctx, entities); err != nil {
		log.Printf("[ERROR] Failed to store chunks for document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Embedded document %s into %d chunks", payload.DocumentId, len(entities))

	if cs.eventPublisher != nil {
		evt := events.NewDocumentIngested(document.Id.String(), document.CompanyId.String(), len(entities))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_INGESTED event: %v", err)
		}
	}

	msg.Ack()
}
