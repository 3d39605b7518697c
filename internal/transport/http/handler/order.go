package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/internal/repository"
	"github.com/rizanep/waqthecombackend1/internal/service"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"github.com/rizanep/waqthecombackend1/pkg/utils"
	"go.uber.org/zap"
)

type OrderHandler struct {
	svc      service.OrderService
	logger   *zap.Logger
	validate *validator.Validate
}

func NewOrderHandler(svc service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		svc:      svc,
		logger:   logger,
		validate: validator.New(),
	}
}

type PlaceOrderInput struct {
	UserID      int64  `json:"user" validate:"required,gt=0"`
	ProductID   int64  `json:"product" validate:"required,gt=0"`
	Quantity    int64  `json:"quantity" validate:"required,gte=1"`
	Name        string `json:"name" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"required,numeric,min=10"`
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required"`
	ZipCode     string `json:"zip_code" validate:"required,numeric"`
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	input := new(PlaceOrderInput)

	if err := c.BodyParser(input); err != nil {
		h.logger.Warn(
			"failed to parse body in create order",
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Validation failed",
			"details": utils.FormatValidationError(err),
		})
	}

	order, err := h.svc.PlaceOrder(c.UserContext(), input.UserID, input.ProductID, input.Quantity, domain.ShippingInfo{
		Name:        input.Name,
		Phone:       input.Phone,
		AddressLine: input.AddressLine,
		City:        input.City,
		ZipCode:     input.ZipCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Insufficient stock.",
			})
		case errors.Is(err, repository.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found.",
			})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found.",
			})
		}

		mylogger.Error(
			c.UserContext(),
			h.logger,
			"place order failed",
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

type ChangeStatusInput struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid order id",
		})
	}

	input := new(ChangeStatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	order, err := h.svc.ChangeStatus(c.UserContext(), id, domain.OrderStatus(input.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status.",
			})
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found.",
			})
		}

		mylogger.Error(
			c.UserContext(),
			h.logger,
			"change order status failed",
			zap.Int64("order_id", id),
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(order)
}

func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid order id",
		})
	}

	order, err := h.svc.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found.",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(order)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	var filter domain.OrderFilter

	if raw := c.Query("user"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid user id",
			})
		}
		filter.UserID = &userID
	}

	if raw := c.Query("product"); raw != "" {
		productID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid product id",
			})
		}
		filter.ProductID = &productID
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.OrderStatus(raw)
		if !domain.ValidOrderStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status.",
			})
		}
		filter.Status = &status
	}

	orders, err := h.svc.List(c.UserContext(), filter)
	if err != nil {
		mylogger.Error(
			c.UserContext(),
			h.logger,
			"list orders failed",
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	if orders == nil {
		orders = make([]domain.Order, 0)
	}

	return c.JSON(orders)
}
