package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/pkg/rag/retrieval"
)

type IChatbotService interface {
	Create(ctx context.Context, companyId uuid.UUID, request *dto.CreateChatbotRequest) (*dto.CreateChatbotResponse, error)
	Show(ctx context.Context, companyId uuid.UUID, id uuid.UUID) (*dto.ShowChatbotResponse, error)
	List(ctx context.Context, companyId uuid.UUID) ([]*dto.ShowChatbotResponse, error)
	Delete(ctx context.Context, companyId uuid.UUID, id uuid.UUID) error
	// VerifyWidgetKey authenticates an embedded widget and returns the tenant
	// scope the chatbot may search. Satisfies serverutils.WidgetVerifier.
	VerifyWidgetKey(ctx context.Context, chatbotId uuid.UUID, widgetKey string) (*retrieval.TenantScope, error)
}

type chatbotService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewChatbotService(uowFactory unitofwork.RepositoryFactory) IChatbotService {
	return &chatbotService{
		uowFactory: uowFactory,
	}
}

// Create provisions a chatbot and returns its widget key. The plaintext key
// leaves the server exactly once; only the bcrypt hash is stored.
func (s *chatbotService) Create(ctx context.Context, companyId uuid.UUID, request *dto.CreateChatbotRequest) (*dto.CreateChatbotResponse, error) {
	widgetKey := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(widgetKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash widget key: %w", err)
	}

	sharedKB := true
	if request.SharedKB != nil {
		sharedKB = *request.SharedKB
	}

	chatbot := entity.Chatbot{
		Id:                 uuid.New(),
		CompanyId:          companyId,
		Name:               request.Name,
		WidgetKeyHash:      string(hash),
		SharedKB:           sharedKB,
		AllowedDocumentIds: request.AllowedDocumentIds,
		ScopeTags:          request.ScopeTags,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatbotRepository().Create(ctx, &chatbot); err != nil {
		return nil, err
	}

	return &dto.CreateChatbotResponse{
		Id:        chatbot.Id,
		WidgetKey: widgetKey,
	}, nil
}

func (s *chatbotService) Show(ctx context.Context, companyId uuid.UUID, id uuid.UUID) (*dto.ShowChatbotResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chatbot, err := uow.ChatbotRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByCompanyID{CompanyID: companyId},
	)
	if err != nil {
		return nil, err
	}
	if chatbot == nil {
		return nil, fmt.Errorf("chatbot not found")
	}
	return toShowChatbotResponse(chatbot), nil
}

func (s *chatbotService) List(ctx context.Context, companyId uuid.UUID) ([]*dto.ShowChatbotResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chatbots, err := uow.ChatbotRepository().FindAll(ctx,
		specification.ByCompanyID{CompanyID: companyId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.ShowChatbotResponse, len(chatbots))
	for i, chatbot := range chatbots {
		responses[i] = toShowChatbotResponse(chatbot)
	}
	return responses, nil
}

func (s *chatbotService) Delete(ctx context.Context, companyId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chatbot, err := uow.ChatbotRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByCompanyID{CompanyID: companyId},
	)
	if err != nil {
		return err
	}
	if chatbot == nil {
		return fmt.Errorf("chatbot not found")
	}
	return uow.ChatbotRepository().Delete(ctx, id)
}

func (s *chatbotService) VerifyWidgetKey(ctx context.Context, chatbotId uuid.UUID, widgetKey string) (*retrieval.TenantScope, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chatbot, err := uow.ChatbotRepository().FindOne(ctx, specification.ByID{ID: chatbotId})
	if err != nil {
		return nil, err
	}
	if chatbot == nil {
		return nil, fmt.Errorf("chatbot not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(chatbot.WidgetKeyHash), []byte(widgetKey)); err != nil {
		return nil, fmt.Errorf("widget key mismatch")
	}

	return &retrieval.TenantScope{
		CompanyID:          chatbot.CompanyId,
		ChatbotID:          chatbot.Id,
		SharedKB:           chatbot.SharedKB,
		AllowedDocumentIDs: chatbot.AllowedDocumentIds,
		ScopeTags:          chatbot.ScopeTags,
	}, nil
}

func toShowChatbotResponse(chatbot *entity.Chatbot) *dto.ShowChatbotResponse {
	return &dto.ShowChatbotResponse{
		Id:                 chatbot.Id,
		Name:               chatbot.Name,
		SharedKB:           chatbot.SharedKB,
		AllowedDocumentIds: chatbot.AllowedDocumentIds,
		ScopeTags:          chatbot.ScopeTags,
		CreatedAt:          chatbot.CreatedAt,
	}
}
