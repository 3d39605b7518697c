package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rizanep/waqthecombackend1/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type WishlistRepository interface {
	Add(ctx context.Context, userID, productID int64) (*domain.WishlistItem, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.WishlistItem, error)
	Delete(ctx context.Context, id int64) error
}

type wishlistRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewWishlistRepository(pool *pgxpool.Pool, logger *zap.Logger) WishlistRepository {
	return &wishlistRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/wishlist_repo"),
	}
}

func (r *wishlistRepo) Add(ctx context.Context, userID, productID int64) (*domain.WishlistItem, error) {
	ctx, span := r.tracer.Start(ctx, "WishlistRepository.Add")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("product_id", productID),
	)

	// Re-adding an existing item keeps the original row.
	query := `
		INSERT INTO wishlists (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id;
	`

	item := domain.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}

	if err := r.pool.QueryRow(ctx, query, userID, productID).Scan(&item.ID); err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == "23503" {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)

		return nil, fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return &item, nil
}

func (r *wishlistRepo) ListByUser(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	ctx, span := r.tracer.Start(ctx, "WishlistRepository.ListByUser")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", userID))

	query := `
		SELECT id, user_id, product_id
		FROM wishlists
		WHERE user_id = $1
		ORDER BY id;
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	result := make([]domain.WishlistItem, 0)
	for rows.Next() {
		var item domain.WishlistItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}

		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func (r *wishlistRepo) Delete(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "WishlistRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query := `DELETE FROM wishlists WHERE id = $1;`

	commandTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrWishlistItemNotFound
	}

	return nil
}
