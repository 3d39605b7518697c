package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/internal/notifier"
	"github.com/rizanep/waqthecombackend1/internal/repository"
	"github.com/rizanep/waqthecombackend1/pkg/kafka"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

type OrderService interface {
	// PlaceOrder reserves stock and records the order atomically. Either the
	// stock is decremented and the order exists, or neither happened.
	PlaceOrder(ctx context.Context, userID, productID, quantity int64, shipping domain.ShippingInfo) (*domain.Order, error)
	ChangeStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}

type orderService struct {
	pool        *pgxpool.Pool
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	notifSvc    NotificationService
	dispatcher  *notifier.Dispatcher
	producer    kafka.Producer
	topic       string
	logger      *zap.Logger
	tracer      trace.Tracer
}

func NewOrderService(
	pool *pgxpool.Pool,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	notifSvc NotificationService,
	dispatcher *notifier.Dispatcher,
	producer kafka.Producer,
	topic string,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		pool:        pool,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		notifSvc:    notifSvc,
		dispatcher:  dispatcher,
		producer:    producer,
		topic:       topic,
		logger:      logger,
		tracer:      otel.Tracer("order_service"),
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, userID, productID, quantity int64, shipping domain.ShippingInfo) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("product_id", productID),
		attribute.Int64("quantity", quantity),
	)

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}

		span.RecordError(err)

		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Failed to begin transaction",
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		shutdownCtx := context.WithoutCancel(ctx)
		if err := tx.Rollback(shutdownCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			mylogger.Warn(
				shutdownCtx,
				s.logger,
				"Error rolling back transaction",
				zap.Error(err),
			)
		}
	}()

	if err := s.productRepo.DecreaseStock(ctx, tx, productID, quantity); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			mylogger.Warn(
				ctx,
				s.logger,
				"Insufficient stock",
				zap.Int64("product_id", productID),
				zap.Int64("quantity", quantity),
			)

			return nil, err
		}

		span.RecordError(err)

		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}

	order := &domain.Order{
		UserID:      userID,
		ProductID:   productID,
		Quantity:    quantity,
		Status:      domain.OrderStatusPlaced,
		Name:        shipping.Name,
		Phone:       shipping.Phone,
		AddressLine: shipping.AddressLine,
		City:        shipping.City,
		ZipCode:     shipping.ZipCode,
	}

	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Failed to commit transaction",
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Order placed ✅",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.Int64("product_id", productID),
	)

	s.notifyOrderPlaced(ctx, order, product, user)

	return order, nil
}

// notifyOrderPlaced fans out the buyer notification, one notification per
// admin, and the email event. All of it happens after the commit and off the
// request path: failures are logged and the order stands.
func (s *orderService) notifyOrderPlaced(ctx context.Context, order *domain.Order, product *domain.Product, user *domain.User) {
	buyerMsg := fmt.Sprintf("Order %d placed successfully for product '%s'.", order.ID, product.Name)
	adminMsg := fmt.Sprintf("New order %d placed by %s for '%s'.", order.ID, user.Username, product.Name)

	orderID := order.ID
	userID := order.UserID

	s.dispatcher.Submit(ctx, func(taskCtx context.Context) {
		if err := s.notifSvc.SaveAndNotify(taskCtx, userID, buyerMsg); err != nil {
			mylogger.Warn(
				taskCtx,
				s.logger,
				"Failed to notify buyer",
				zap.Int64("order_id", orderID),
				zap.Error(err),
			)
		}

		admins, err := s.userRepo.ListAdmins(taskCtx)
		if err != nil {
			mylogger.Warn(
				taskCtx,
				s.logger,
				"Failed to list admins",
				zap.Error(err),
			)
		}

		for _, admin := range admins {
			if err := s.notifSvc.SaveAndNotify(taskCtx, admin.ID, adminMsg); err != nil {
				mylogger.Warn(
					taskCtx,
					s.logger,
					"Failed to notify admin",
					zap.Int64("admin_id", admin.ID),
					zap.Int64("order_id", orderID),
					zap.Error(err),
				)
			}
		}

		event := map[string]any{
			"event": "OrderPlaced",
			"payload": domain.OrderPlacedEvent{
				OrderID: orderID,
				UserID:  userID,
				Email:   user.Email,
				Message: buyerMsg,
			},
		}

		if err := s.producer.ProduceMessage(taskCtx, s.topic, event); err != nil {
			mylogger.Warn(
				taskCtx,
				s.logger,
				"Failed to produce order placed event",
				zap.Int64("order_id", orderID),
				zap.Error(err),
			)
		}
	})
}

func (s *orderService) ChangeStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ChangeStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
		attribute.String("status", string(status)),
	)

	if !domain.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		shutdownCtx := context.WithoutCancel(ctx)
		if err := tx.Rollback(shutdownCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			mylogger.Warn(
				shutdownCtx,
				s.logger,
				"Error rolling back transaction",
				zap.Error(err),
			)
		}
	}()

	order, oldStatus, err := s.orderRepo.UpdateStatus(ctx, tx, orderID, status)
	if err != nil {
		return nil, err
	}

	// Cancelling returns the reserved stock atomically with the status
	// flip. Re-cancelling must not restock twice.
	if status == domain.OrderStatusCancelled && oldStatus != domain.OrderStatusCancelled {
		if err := s.productRepo.IncreaseStock(ctx, tx, order.ProductID, order.Quantity); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("failed to return stock: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Re-applying the same status succeeds silently, no notification.
	if oldStatus != status {
		s.notifyStatusChanged(ctx, order)
	}

	return order, nil
}

func (s *orderService) notifyStatusChanged(ctx context.Context, order *domain.Order) {
	message := fmt.Sprintf("Order %d status updated to '%s'.", order.ID, order.Status)

	orderID := order.ID
	userID := order.UserID
	status := string(order.Status)

	s.dispatcher.Submit(ctx, func(taskCtx context.Context) {
		if err := s.notifSvc.SaveAndNotify(taskCtx, userID, message); err != nil {
			mylogger.Warn(
				taskCtx,
				s.logger,
				"Failed to notify status change",
				zap.Int64("order_id", orderID),
				zap.Error(err),
			)
		}

		user, err := s.userRepo.GetByID(taskCtx, userID)
		if err != nil {
			mylogger.Warn(
				taskCtx,
				s.logger,
				"Failed to load user for status event",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return
		}

		event := map[string]any{
			"event": "OrderStatusChanged",
			"payload": domain.OrderStatusChangedEvent{
				OrderID: orderID,
				UserID:  userID,
				Email:   user.Email,
				Status:  status,
				Message: message,
			},
		}

		if err := s.producer.ProduceMessage(taskCtx, s.topic, event); err != nil {
			mylogger.Warn(
				taskCtx,
				s.logger,
				"Failed to produce status changed event",
				zap.Int64("order_id", orderID),
				zap.Error(err),
			)
		}
	})
}

func (s *orderService) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("order_id", id))

	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List")
	defer span.End()

	return s.orderRepo.List(ctx, filter)
}
