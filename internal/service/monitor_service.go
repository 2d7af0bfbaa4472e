package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"ai-chatbot-be/internal/pkg/logger"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/internal/websocket"
	"ai-chatbot-be/pkg/events"
	pktNats "ai-chatbot-be/pkg/nats"
)

type IMonitorService interface {
	Start() error
}

// monitorService feeds the live dashboard. It consumes pipeline events from
// the NATS bus and fans them out to the owning company's open dashboards.
type monitorService struct {
	subscriber *pktNats.Subscriber
	uowFactory unitofwork.RepositoryFactory
	hub        *websocket.Hub
	sysLogger  logger.ILogger
}

func NewMonitorService(
	subscriber *pktNats.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	hub *websocket.Hub,
	sysLogger logger.ILogger,
) IMonitorService {
	return &monitorService{
		subscriber: subscriber,
		uowFactory: uowFactory,
		hub:        hub,
		sysLogger:  sysLogger,
	}
}

func (ms *monitorService) Start() error {
	if ms.subscriber == nil {
		ms.sysLogger.Warn("MonitorService", "NATS subscriber unavailable, dashboard feed disabled", nil)
		return nil
	}
	return ms.subscriber.Subscribe("events.>", "DASHBOARD_MONITOR", ms.handleEvent)
}

func (ms *monitorService) handleEvent(ctx context.Context, event events.Event) error {
	// The subscriber reports the full subject; the dashboard wants the code.
	eventType := strings.TrimPrefix(event.EventType(), "events.")
	payload := event.Payload()

	companyID, ok := ms.resolveCompany(ctx, payload)
	if !ok {
		ms.hub.Broadcast(eventType, payload)
		return nil
	}

	ms.hub.Send(companyID, eventType, payload)
	return nil
}

// resolveCompany finds the company an event belongs to. Turn events carry
// only the chatbot id, so those need a lookup.
func (ms *monitorService) resolveCompany(ctx context.Context, payload map[string]interface{}) (uuid.UUID, bool) {
	if raw, ok := payload["company_id"].(string); ok {
		if id, err := uuid.Parse(raw); err == nil {
			return id, true
		}
	}

	raw, ok := payload["chatbot_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	chatbotID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}

	uow := ms.uowFactory.NewUnitOfWork(ctx)
	chatbot, err := uow.ChatbotRepository().FindOne(ctx, specification.ByID{ID: chatbotID})
	if err != nil || chatbot == nil {
		return uuid.Nil, false
	}
	return chatbot.CompanyId, true
}
