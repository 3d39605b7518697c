package service

import (
	"context"
	"fmt"

	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/internal/notifier"
	"github.com/rizanep/waqthecombackend1/internal/repository"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type NotificationService interface {
	// SaveAndNotify persists the message and pushes it to the user's live
	// connections. The stored row is the source of truth: a delivery failure
	// does not undo the write.
	SaveAndNotify(ctx context.Context, userID int64, message string) error
	NotifyCartUpdated(ctx context.Context, userID int64, productName string, quantity int64)
	List(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	ClearAll(ctx context.Context, userID int64) (int64, error)
}

type notificationService struct {
	repo       repository.NotificationRepository
	hub        *notifier.Hub
	dispatcher *notifier.Dispatcher
	logger     *zap.Logger
	tracer     trace.Tracer
}

func NewNotificationService(
	repo repository.NotificationRepository,
	hub *notifier.Hub,
	dispatcher *notifier.Dispatcher,
	logger *zap.Logger,
) NotificationService {
	return &notificationService{
		repo:       repo,
		hub:        hub,
		dispatcher: dispatcher,
		logger:     logger,
		tracer:     otel.Tracer("notification_service"),
	}
}

func (s *notificationService) SaveAndNotify(ctx context.Context, userID int64, message string) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.SaveAndNotify")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	if _, err := s.repo.Record(ctx, userID, message); err != nil {
		span.RecordError(err)

		return fmt.Errorf("failed to record notification: %w", err)
	}

	s.hub.Publish(ctx, userID, message)

	return nil
}

// NotifyCartUpdated runs off the request path through the dispatcher, so a
// slow or failed notification never delays the cart response.
func (s *notificationService) NotifyCartUpdated(ctx context.Context, userID int64, productName string, quantity int64) {
	message := fmt.Sprintf("'%s' added to your cart. Quantity: %d.", productName, quantity)

	s.dispatcher.Submit(ctx, func(taskCtx context.Context) {
		if err := s.SaveAndNotify(taskCtx, userID, message); err != nil {
			mylogger.Warn(
				taskCtx,
				s.logger,
				"Failed to deliver cart notification",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	})
}

func (s *notificationService) List(ctx context.Context, userID int64) ([]domain.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "NotificationService.List")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	return s.repo.ListByUser(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.MarkRead")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	return s.repo.MarkRead(ctx, id)
}

func (s *notificationService) ClearAll(ctx context.Context, userID int64) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "NotificationService.ClearAll")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	deleted, err := s.repo.ClearAll(ctx, userID)
	if err != nil {
		span.RecordError(err)

		return 0, err
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Cleared notifications",
		zap.Int64("user_id", userID),
		zap.Int64("deleted", deleted),
	)

	return deleted, nil
}
