package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/phonebook-service/internal/events"
)

var auditedEvents = []events.EventType{
	events.EventUserRegistered,
	events.EventLoginSucceeded,
	events.EventLoginFailed,
	events.EventLoginThrottled,
	events.EventAccessTokenRefreshed,
	events.EventRefreshRejected,
	events.EventAccountDeleted,
}

// AuditService writes auth events to the structured log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range auditedEvents {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.SubjectID != "" {
		fields = append(fields, zap.String("subject_id", event.SubjectID))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}

	switch event.Type {
	case events.EventLoginFailed, events.EventLoginThrottled, events.EventRefreshRejected:
		a.logger.Warn(string(event.Type), fields...)
	default:
		a.logger.Info(string(event.Type), fields...)
	}
	return nil
}
