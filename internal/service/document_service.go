package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"
	pktNats "ai-chatbot-be/pkg/nats"
)

type IDocumentService interface {
	Create(ctx context.Context, companyId uuid.UUID, request *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Show(ctx context.Context, companyId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	List(ctx context.Context, companyId uuid.UUID) ([]*dto.ListDocumentsResponse, error)
	Delete(ctx context.Context, companyId uuid.UUID, id uuid.UUID) error
	Reindex(ctx context.Context, companyId uuid.UUID, id uuid.UUID) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

// Create stores the document and queues the async chunk-and-embed job. The
// document is not searchable until the consumer finishes embedding it.
func (s *documentService) Create(ctx context.Context, companyId uuid.UUID, request *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	document := entity.Document{
		Id:        uuid.New(),
		CompanyId: companyId,
		Title:     request.Title,
		Content:   request.Content,
		Tags:      request.Tags,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	if err := s.queueEmbedJob(ctx, document.Id); err != nil {
		return nil, err
	}

	return &dto.CreateDocumentResponse{Id: document.Id}, nil
}

func (s *documentService) Show(ctx context.Context, companyId uuid.UUID, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByCompanyID{CompanyID: companyId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, fmt.Errorf("document not found")
	}

	chunkCount, err := uow.DocumentChunkRepository().Count(ctx, specification.ByDocumentID{DocumentID: id})
	if err != nil {
		return nil, err
	}

	return &dto.ShowDocumentResponse{
		Id:         document.Id,
		Title:      document.Title,
		Content:    document.Content,
		Tags:       document.Tags,
		ChunkCount: chunkCount,
		CreatedAt:  document.CreatedAt,
		UpdatedAt:  document.UpdatedAt,
	}, nil
}

func (s *documentService) List(ctx context.Context, companyId uuid.UUID) ([]*dto.ListDocumentsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByCompanyID{CompanyID: companyId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ListDocumentsResponse, len(documents))
	for i, document := range documents {
		responses[i] = &dto.ListDocumentsResponse{
			Id:        document.Id,
			Title:     document.Title,
			Tags:      document.Tags,
			CreatedAt: document.CreatedAt,
		}
	}
	return responses, nil
}

// Delete removes the document and its chunks so retrieval stops citing it
// immediately.
func (s *documentService) Delete(ctx context.Context, companyId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByCompanyID{CompanyID: companyId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return fmt.Errorf("document not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

// Reindex re-queues the embed job, replacing existing chunks.
func (s *documentService) Reindex(ctx context.Context, companyId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByCompanyID{CompanyID: companyId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return fmt.Errorf("document not found")
	}
	return s.queueEmbedJob(ctx, id)
}

func (s *documentService) queueEmbedJob(ctx context.Context, documentId uuid.UUID) error {
	payload := dto.PublishEmbedDocumentMessage{DocumentId: documentId}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal embed job: %w", err)
	}
	return s.publisherService.Publish(ctx, payloadJson)
}
