package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CartRepository interface {
	// Upsert adds the product to the user's cart, merging quantities when the
	// product is already there, and returns the resulting row.
	Upsert(ctx context.Context, userID, productID, quantity int64) (*domain.CartItem, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, id, quantity int64) error
	Delete(ctx context.Context, id int64) error
	ClearByUser(ctx context.Context, userID int64) error
}

type cartRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewCartRepository(pool *pgxpool.Pool, logger *zap.Logger) CartRepository {
	return &cartRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/cart_repo"),
	}
}

func (r *cartRepo) Upsert(ctx context.Context, userID, productID, quantity int64) (*domain.CartItem, error) {
	ctx, span := r.tracer.Start(ctx, "CartRepository.Upsert")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("product_id", productID),
		attribute.Int64("quantity", quantity),
	)

	query := `
		INSERT INTO carts (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = carts.quantity + EXCLUDED.quantity
		RETURNING id, quantity;
	`

	item := domain.CartItem{
		UserID:    userID,
		ProductID: productID,
	}

	if err := r.pool.QueryRow(ctx, query, userID, productID, quantity).Scan(&item.ID, &item.Quantity); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to upsert cart item",
			zap.Int64("user_id", userID),
			zap.Int64("product_id", productID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return &item, nil
}

func (r *cartRepo) ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	ctx, span := r.tracer.Start(ctx, "CartRepository.ListByUser")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", userID))

	query := `
		SELECT id, user_id, product_id, quantity
		FROM carts
		WHERE user_id = $1
		ORDER BY id;
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	result := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, id, quantity int64) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.UpdateQuantity")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
		attribute.Int64("quantity", quantity),
	)

	query := `
		UPDATE carts
		SET quantity = $2
		WHERE id = $1;
	`

	commandTag, err := r.pool.Exec(ctx, query, id, quantity)
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("failed to update cart quantity: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepo) Delete(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query := `DELETE FROM carts WHERE id = $1;`

	commandTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepo) ClearByUser(ctx context.Context, userID int64) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.ClearByUser")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", userID))

	query := `DELETE FROM carts WHERE user_id = $1;`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		span.RecordError(err)

		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
