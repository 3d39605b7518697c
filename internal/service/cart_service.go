package service

import (
	"context"

	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CartService interface {
	// AddToCart merges quantities when the product is already in the cart and
	// notifies the user with the resulting quantity.
	AddToCart(ctx context.Context, userID, productID, quantity int64) (*domain.CartItem, error)
	List(ctx context.Context, userID int64) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, id, quantity int64) error
	Remove(ctx context.Context, id int64) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	notifSvc    NotificationService
	logger      *zap.Logger
	tracer      trace.Tracer
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	notifSvc NotificationService,
	logger *zap.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		notifSvc:    notifSvc,
		logger:      logger,
		tracer:      otel.Tracer("cart_service"),
	}
}

func (s *cartService) AddToCart(ctx context.Context, userID, productID, quantity int64) (*domain.CartItem, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddToCart")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("product_id", productID),
		attribute.Int64("quantity", quantity),
	)

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.Upsert(ctx, userID, productID, quantity)
	if err != nil {
		span.RecordError(err)

		return nil, err
	}

	s.notifSvc.NotifyCartUpdated(ctx, userID, product.Name, item.Quantity)

	return item, nil
}

func (s *cartService) List(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.List")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", userID))

	return s.cartRepo.ListByUser(ctx, userID)
}

func (s *cartService) UpdateQuantity(ctx context.Context, id, quantity int64) error {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateQuantity")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
		attribute.Int64("quantity", quantity),
	)

	return s.cartRepo.UpdateQuantity(ctx, id, quantity)
}

func (s *cartService) Remove(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CartService.Remove")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	return s.cartRepo.Delete(ctx, id)
}
