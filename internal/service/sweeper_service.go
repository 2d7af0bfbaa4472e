package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/robfig/cron/v3"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/pkg/logger"
	"ai-chatbot-be/internal/repository/memory"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/pkg/events"
	pktNats "ai-chatbot-be/pkg/nats"
)

type ISweeperService interface {
	Start() error
	Stop()
}

// sweeperService closes conversations the visitor walked away from, so their
// facts get extracted and their dialog state stops occupying the cache.
type sweeperService struct {
	uowFactory        unitofwork.RepositoryFactory
	dialogRepo        *memory.DialogStateRepository
	finishedPublisher IPublisherService
	eventPublisher    *pktNats.Publisher
	sysLogger         logger.ILogger
	cronSpec          string
	idleAfter         time.Duration
	scheduler         *cron.Cron
}

func NewSweeperService(
	uowFactory unitofwork.RepositoryFactory,
	dialogRepo *memory.DialogStateRepository,
	finishedPublisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
	cronSpec string,
	idleMinutes int,
) ISweeperService {
	return &sweeperService{
		uowFactory:        uowFactory,
		dialogRepo:        dialogRepo,
		finishedPublisher: finishedPublisher,
		eventPublisher:    eventPublisher,
		sysLogger:         sysLogger,
		cronSpec:          cronSpec,
		idleAfter:         time.Duration(idleMinutes) * time.Minute,
	}
}

func (s *sweeperService) Start() error {
	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(s.cronSpec, s.sweep); err != nil {
		return err
	}
	s.scheduler.Start()
	s.sysLogger.Info("SweeperService", "Idle conversation sweeper started", map[string]interface{}{
		"cron":         s.cronSpec,
		"idle_minutes": s.idleAfter.Minutes(),
	})
	return nil
}

func (s *sweeperService) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *sweeperService) sweep() {
	ctx := context.Background()
	cutoff := time.Now().Add(-s.idleAfter)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	idle, err := uow.ConversationRepository().FindIdleBefore(ctx, cutoff)
	if err != nil {
		s.sysLogger.Error("SweeperService", "Failed to list idle conversations", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if len(idle) == 0 {
		return
	}

	ended := 0
	for _, conversation := range idle {
		if err := uow.ConversationRepository().Finish(ctx, conversation.Id, time.Now()); err != nil {
			s.sysLogger.Error("SweeperService", "Failed to end idle conversation", map[string]interface{}{
				"conversation_id": conversation.Id,
				"error":           err.Error(),
			})
			continue
		}
		s.dialogRepo.Evict(conversation.Id.String())

		payload, err := json.Marshal(dto.ConversationFinishedMessage{
			ConversationId: conversation.Id,
			ChatbotId:      conversation.ChatbotId,
		})
		if err == nil {
			if err := s.finishedPublisher.Publish(ctx, payload); err != nil {
				s.sysLogger.Warn("SweeperService", "Failed to queue fact extraction", map[string]interface{}{
					"conversation_id": conversation.Id,
					"error":           err.Error(),
				})
			}
		}

		if s.eventPublisher != nil {
			evt := events.NewConversationFinished(conversation.Id.String(), conversation.ChatbotId.String(), conversation.MessageCount)
			if err := s.eventPublisher.Publish(ctx, evt); err != nil {
				s.sysLogger.Warn("SweeperService", "Failed to publish CONVERSATION_FINISHED event", map[string]interface{}{
					"conversation_id": conversation.Id,
					"error":           err.Error(),
				})
			}
		}
		ended++
	}

	s.sysLogger.Info("SweeperService", "Closed idle conversations", map[string]interface{}{
		"count": ended,
	})
}
