package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OrderRepository interface {
	Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	// UpdateStatus transitions the order unconditionally and returns the
	// updated row plus the status it had before, so callers can detect a
	// change. It runs inside the caller's transaction: a cancellation must
	// restock the product atomically with the status flip.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status domain.OrderStatus) (*domain.Order, domain.OrderStatus, error)
}

type orderRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewOrderRepository(pool *pgxpool.Pool, logger *zap.Logger) OrderRepository {
	return &orderRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/order_repo"),
	}
}

func (r *orderRepo) Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", order.UserID),
		attribute.Int64("product_id", order.ProductID),
		attribute.Int64("quantity", order.Quantity),
	)

	query := `
		INSERT INTO orders (user_id, product_id, quantity, status, name, phone, address_line, city, zip_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	if err := tx.QueryRow(
		ctx,
		query,
		order.UserID,
		order.ProductID,
		order.Quantity,
		string(order.Status),
		order.Name,
		order.Phone,
		order.AddressLine,
		order.City,
		order.ZipCode,
	).Scan(
		&order.ID,
		&order.CreatedAt,
	); err != nil {
		span.RecordError(err)

		mylogger.Warn(
			ctx,
			r.logger,
			"Failed to insert order",
			zap.Error(err),
		)

		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status domain.OrderStatus) (*domain.Order, domain.OrderStatus, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.UpdateStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", id),
		attribute.String("status", string(status)),
	)

	// prev captures the row before the update so the old status comes
	// back with the same statement.
	query := `
		UPDATE orders o
		SET status = $2
		FROM (SELECT id, status FROM orders WHERE id = $1 FOR UPDATE) prev
		WHERE o.id = prev.id
		RETURNING o.id, o.user_id, o.product_id, o.quantity, o.status,
			o.name, o.phone, o.address_line, o.city, o.zip_code, o.created_at,
			prev.status;
	`

	var o domain.Order
	var oldStatus string
	if err := tx.QueryRow(ctx, query, id, string(status)).Scan(
		&o.ID,
		&o.UserID,
		&o.ProductID,
		&o.Quantity,
		&o.Status,
		&o.Name,
		&o.Phone,
		&o.AddressLine,
		&o.City,
		&o.ZipCode,
		&o.CreatedAt,
		&oldStatus,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			mylogger.Warn(
				ctx,
				r.logger,
				"Order not found",
				zap.Int64("order_id", id),
			)

			return nil, "", ErrOrderNotFound
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to update order",
			zap.Error(err),
		)

		return nil, "", fmt.Errorf("failed to update order: %w", err)
	}

	return &o, domain.OrderStatus(oldStatus), nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", id),
	)

	query := `
		SELECT id, user_id, product_id, quantity, status, name, phone, address_line, city, zip_code, created_at
		FROM orders
		WHERE id = $1;
	`

	var o domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.UserID,
		&o.ProductID,
		&o.Quantity,
		&o.Status,
		&o.Name,
		&o.Phone,
		&o.AddressLine,
		&o.City,
		&o.ZipCode,
		&o.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		span.RecordError(err)

		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	query := `
		SELECT id, user_id, product_id, quantity, status, name, phone, address_line, city, zip_code, created_at
		FROM orders
		WHERE 1=1
	`
	var args []interface{}
	argId := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argId)
		args = append(args, *filter.UserID)
		argId++
	}

	if filter.ProductID != nil {
		query += fmt.Sprintf(" AND product_id = $%d", argId)
		args = append(args, *filter.ProductID)
		argId++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argId)
		args = append(args, string(*filter.Status))
		argId++
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to query orders",
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.ProductID,
			&o.Quantity,
			&o.Status,
			&o.Name,
			&o.Phone,
			&o.AddressLine,
			&o.City,
			&o.ZipCode,
			&o.CreatedAt,
		); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		result = append(result, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
