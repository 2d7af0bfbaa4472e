package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-chatbot-be/internal/constant"
	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/pkg/logger"
	"ai-chatbot-be/internal/repository/memory"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/pkg/events"
	"ai-chatbot-be/pkg/llm"
	pktNats "ai-chatbot-be/pkg/nats"
	"ai-chatbot-be/pkg/rag/executor"
	"ai-chatbot-be/pkg/rag/retrieval"
)

// historyWindow bounds how many past messages feed the generation prompt.
const historyWindow = 10

type IChatService interface {
	StartConversation(ctx context.Context, scope *retrieval.TenantScope) (*dto.StartConversationResponse, error)
	HandleQuery(ctx context.Context, scope *retrieval.TenantScope, request *dto.SendQueryRequest) (*dto.SendQueryResponse, error)
	GetHistory(ctx context.Context, scope *retrieval.TenantScope, conversationId uuid.UUID) ([]*dto.GetConversationHistoryResponse, error)
	EndConversation(ctx context.Context, scope *retrieval.TenantScope, request *dto.EndConversationRequest) (*dto.EndConversationResponse, error)
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	pipelineExecutor  *executor.PipelineExecutor
	dialogRepo        *memory.DialogStateRepository
	finishedPublisher IPublisherService
	eventPublisher    *pktNats.Publisher
	sysLogger         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	pipelineExecutor *executor.PipelineExecutor,
	dialogRepo *memory.DialogStateRepository,
	finishedPublisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:        uowFactory,
		pipelineExecutor:  pipelineExecutor,
		dialogRepo:        dialogRepo,
		finishedPublisher: finishedPublisher,
		eventPublisher:    eventPublisher,
		sysLogger:         sysLogger,
	}
}

func (s *chatService) StartConversation(ctx context.Context, scope *retrieval.TenantScope) (*dto.StartConversationResponse, error) {
	now := time.Now()
	conversation := entity.Conversation{
		Id:            uuid.New(),
		CompanyId:     scope.CompanyID,
		ChatbotId:     scope.ChatbotID,
		Status:        constant.ConversationStatusActive,
		LastMessageAt: now,
		CreatedAt:     now,
	}

	greeting := entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           constant.MessageRoleAssistant,
		Content:        constant.WelcomeMessage,
		CreatedAt:      now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ConversationRepository().Create(ctx, &conversation); err != nil {
		return nil, err
	}
	if err := uow.ConversationMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.StartConversationResponse{
		ConversationId: conversation.Id,
		Greeting:       constant.WelcomeMessage,
	}, nil
}

// HandleQuery answers one visitor message. A panic anywhere below this guard
// becomes a canned apology; the visitor never sees an internal error.
func (s *chatService) HandleQuery(ctx context.Context, scope *retrieval.TenantScope, request *dto.SendQueryRequest) (response *dto.SendQueryResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.sysLogger.Error("ChatService", "Recovered from panic in HandleQuery", map[string]interface{}{
				"conversation_id": request.ConversationId,
				"panic":           fmt.Sprintf("%v", r),
			})
			response = &dto.SendQueryResponse{
				ConversationId: request.ConversationId,
				Response:       constant.FallbackPanicReply,
			}
			err = nil
		}
	}()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: request.ConversationId},
		specification.ByChatbotID{ChatbotID: scope.ChatbotID},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fmt.Errorf("conversation not found")
	}
	if conversation.Status != constant.ConversationStatusActive {
		return nil, fmt.Errorf("conversation already ended")
	}

	history, err := s.loadHistory(ctx, uow, request.ConversationId)
	if err != nil {
		return nil, err
	}

	userMessage := entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: request.ConversationId,
		Role:           constant.MessageRoleUser,
		Content:        request.Message,
		CreatedAt:      time.Now(),
	}
	if err := uow.ConversationMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, err
	}

	result := s.pipelineExecutor.Execute(ctx, *scope, request.ConversationId.String(), request.Message, history)

	assistantMessage := entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: request.ConversationId,
		Role:           constant.MessageRoleAssistant,
		Content:        result.Response,
		Intent:         string(result.Intent),
		Confidence:     result.Confidence,
		Stage:          result.Stage,
		Route:          result.Route,
		ContextFound:   result.ContextFound,
		Retries:        result.Retries,
		CreatedAt:      time.Now(),
	}
	if result.PlanTrace != nil {
		if raw, marshalErr := json.Marshal(result.PlanTrace); marshalErr == nil {
			assistantMessage.PlanTrace = raw
		}
	}
	if err := uow.ConversationMessageRepository().Create(ctx, &assistantMessage); err != nil {
		// The answer is already computed; losing the audit row should not
		// cost the visitor their reply.
		s.sysLogger.Error("ChatService", "Failed to persist assistant message", map[string]interface{}{
			"conversation_id": request.ConversationId,
			"error":           err.Error(),
		})
	}

	s.publishTurnEvent(ctx, scope, request.ConversationId, result)

	return s.toQueryResponse(request.ConversationId, result), nil
}

func (s *chatService) GetHistory(ctx context.Context, scope *retrieval.TenantScope, conversationId uuid.UUID) ([]*dto.GetConversationHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.ByChatbotID{ChatbotID: scope.ChatbotID},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fmt.Errorf("conversation not found")
	}

	messages, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.GetConversationHistoryResponse, len(messages))
	for i, message := range messages {
		responses[i] = &dto.GetConversationHistoryResponse{
			Id:           message.Id,
			Role:         message.Role,
			Content:      message.Content,
			Intent:       message.Intent,
			ContextFound: message.ContextFound,
			CreatedAt:    message.CreatedAt,
		}
	}
	return responses, nil
}

// EndConversation closes the conversation and queues fact extraction.
func (s *chatService) EndConversation(ctx context.Context, scope *retrieval.TenantScope, request *dto.EndConversationRequest) (*dto.EndConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: request.ConversationId},
		specification.ByChatbotID{ChatbotID: scope.ChatbotID},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fmt.Errorf("conversation not found")
	}
	if conversation.Status != constant.ConversationStatusActive {
		return &dto.EndConversationResponse{
			ConversationId: conversation.Id,
			Status:         conversation.Status,
		}, nil
	}

	if err := uow.ConversationRepository().Finish(ctx, conversation.Id, time.Now()); err != nil {
		return nil, err
	}
	s.dialogRepo.Evict(conversation.Id.String())

	s.queueFactExtraction(ctx, conversation)

	if s.eventPublisher != nil {
		evt := events.NewConversationFinished(conversation.Id.String(), conversation.ChatbotId.String(), conversation.MessageCount)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.sysLogger.Warn("ChatService", "Failed to publish CONVERSATION_FINISHED event", map[string]interface{}{
				"conversation_id": conversation.Id,
				"error":           err.Error(),
			})
		}
	}

	return &dto.EndConversationResponse{
		ConversationId: conversation.Id,
		Status:         constant.ConversationStatusFinished,
	}, nil
}

func (s *chatService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID) ([]llm.Message, error) {
	messages, err := uow.ConversationMessageRepository().FindRecent(ctx, conversationId, historyWindow)
	if err != nil {
		return nil, err
	}
	history := make([]llm.Message, 0, len(messages))
	for _, message := range messages {
		history = append(history, llm.Message{
			Role:    message.Role,
			Content: message.Content,
		})
	}
	return history, nil
}

func (s *chatService) queueFactExtraction(ctx context.Context, conversation *entity.Conversation) {
	if s.finishedPublisher == nil {
		return
	}
	payload := dto.ConversationFinishedMessage{
		ConversationId: conversation.Id,
		ChatbotId:      conversation.ChatbotId,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.finishedPublisher.Publish(ctx, payloadJson); err != nil {
		s.sysLogger.Warn("ChatService", "Failed to queue fact extraction", map[string]interface{}{
			"conversation_id": conversation.Id,
			"error":           err.Error(),
		})
	}
}

func (s *chatService) publishTurnEvent(ctx context.Context, scope *retrieval.TenantScope, conversationId uuid.UUID, result *executor.Result) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewTurnCompleted(
		conversationId.String(),
		scope.ChatbotID.String(),
		string(result.Intent),
		result.Route,
		result.ContextFound,
		result.Latency.Milliseconds(),
	)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.sysLogger.Warn("ChatService", "Failed to publish TURN_COMPLETED event", map[string]interface{}{
			"conversation_id": conversationId,
			"error":           err.Error(),
		})
	}
}

func (s *chatService) toQueryResponse(conversationId uuid.UUID, result *executor.Result) *dto.SendQueryResponse {
	sources := make([]dto.SourceDTO, len(result.Sources))
	for i, source := range result.Sources {
		sources[i] = dto.SourceDTO{
			DocumentId: source.DocumentID,
			Title:      source.Title,
			Similarity: source.Similarity,
		}
	}

	response := &dto.SendQueryResponse{
		ConversationId: conversationId,
		Response:       result.Response,
		Sources:        sources,
		ContextFound:   result.ContextFound,
		Intent:         string(result.Intent),
		Confidence:     result.Confidence,
		Stage:          result.Stage,
		Route:          result.Route,
		DialogState:    result.DialogState,
		Retries:        result.Retries,
		LatencyMs:      result.Latency.Milliseconds(),
	}
	if result.Validation != nil {
		response.Validation = &dto.ValidationDTO{
			Valid:      result.Validation.IsValid,
			Confidence: result.Validation.Confidence,
			Issues:     result.Validation.Issues,
		}
	}
	if result.PlanTrace != nil {
		response.PlanTrace = result.PlanTrace
	}
	return response
}
