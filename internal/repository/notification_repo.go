package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type NotificationRepository interface {
	Record(ctx context.Context, userID int64, message string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	ClearAll(ctx context.Context, userID int64) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewNotificationRepository(pool *pgxpool.Pool, logger *zap.Logger) NotificationRepository {
	return &notificationRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/notification_repo"),
	}
}

func (r *notificationRepo) Record(ctx context.Context, userID int64, message string) (*domain.Notification, error) {
	ctx, span := r.tracer.Start(ctx, "NotificationRepository.Record")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	query := `
		INSERT INTO notifications (user_id, message, is_read, created_at)
		VALUES ($1, $2, FALSE, NOW())
		RETURNING id, created_at;
	`

	n := domain.Notification{
		UserID:  userID,
		Message: message,
	}

	if err := r.pool.QueryRow(ctx, query, userID, message).Scan(&n.ID, &n.CreatedAt); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to insert notification",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}

	return &n, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	ctx, span := r.tracer.Start(ctx, "NotificationRepository.ListByUser")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	query := `
		SELECT id, user_id, message, created_at, is_read
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC;
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to query notifications",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.CreatedAt, &n.IsRead); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		result = append(result, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "NotificationRepository.MarkRead")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1;
	`

	commandTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

func (r *notificationRepo) ClearAll(ctx context.Context, userID int64) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "NotificationRepository.ClearAll")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
	)

	query := `
		DELETE FROM notifications
		WHERE user_id = $1;
	`

	commandTag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to clear notifications",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return 0, fmt.Errorf("failed to clear notifications: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

func (r *notificationRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "NotificationRepository.DeleteOlderThan")
	defer span.End()

	query := `
		DELETE FROM notifications
		WHERE created_at < $1;
	`

	commandTag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		span.RecordError(err)

		return 0, fmt.Errorf("failed to prune notifications: %w", err)
	}

	return commandTag.RowsAffected(), nil
}
