package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rizanep/waqthecombackend1/internal/repository"
	"github.com/rizanep/waqthecombackend1/internal/service"
	"github.com/rizanep/waqthecombackend1/pkg/utils"
	"go.uber.org/zap"
)

type CartHandler struct {
	svc      service.CartService
	logger   *zap.Logger
	validate *validator.Validate
}

func NewCartHandler(svc service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		svc:      svc,
		logger:   logger,
		validate: validator.New(),
	}
}

type AddToCartInput struct {
	UserID    int64 `json:"userId" validate:"required,gt=0"`
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gte=1"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	input := new(AddToCartInput)

	if err := c.BodyParser(input); err != nil {
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

	item, err := h.svc.AddToCart(c.UserContext(), input.UserID, input.ProductID, input.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found.",
			})
		}

		h.logger.Error("add to cart failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *CartHandler) List(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid userId",
		})
	}

	items, err := h.svc.List(c.UserContext(), userID)
	if err != nil {
		h.logger.Error("list cart failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(items)
}

type UpdateCartInput struct {
	Quantity int64 `json:"quantity" validate:"required,gte=1"`
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid cart item id",
		})
	}

	input := new(UpdateCartInput)
	if err := c.BodyParser(input); err != nil {
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

	if err := h.svc.UpdateQuantity(c.UserContext(), id, input.Quantity); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Cart item not found.",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{"status": "success"})
}

func (h *CartHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid cart item id",
		})
	}

	if err := h.svc.Remove(c.UserContext(), id); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Cart item not found.",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{"status": "success"})
}
