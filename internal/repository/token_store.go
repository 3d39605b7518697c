package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TokenStore keeps single-use password reset tokens with a TTL.
type TokenStore interface {
	SaveResetToken(ctx context.Context, token, username string, ttl time.Duration) error
	// ConsumeResetToken returns the username the token was issued for and
	// invalidates the token. A missing or expired token yields ErrTokenNotFound.
	ConsumeResetToken(ctx context.Context, token string) (string, error)
}

type redisTokenStore struct {
	client *redis.Client
	logger *zap.Logger
	tracer trace.Tracer
}

func NewTokenStore(client *redis.Client, logger *zap.Logger) TokenStore {
	return &redisTokenStore{
		client: client,
		logger: logger,
		tracer: otel.Tracer("repository/token_store"),
	}
}

func resetTokenKey(token string) string {
	return "reset_token:" + token
}

func (s *redisTokenStore) SaveResetToken(ctx context.Context, token, username string, ttl time.Duration) error {
	ctx, span := s.tracer.Start(ctx, "TokenStore.SaveResetToken")
	defer span.End()

	if err := s.client.Set(ctx, resetTokenKey(token), username, ttl).Err(); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			s.logger,
			"Failed to save reset token",
			zap.String("username", username),
			zap.Error(err),
		)

		return fmt.Errorf("failed to save reset token: %w", err)
	}

	return nil
}

func (s *redisTokenStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "TokenStore.ConsumeResetToken")
	defer span.End()

	username, err := s.client.GetDel(ctx, resetTokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}

		span.RecordError(err)

		return "", fmt.Errorf("failed to consume reset token: %w", err)
	}

	return username, nil
}
