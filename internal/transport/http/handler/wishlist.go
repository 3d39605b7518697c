package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rizanep/waqthecombackend1/internal/repository"
	"github.com/rizanep/waqthecombackend1/pkg/utils"
	"go.uber.org/zap"
)

type WishlistHandler struct {
	repo     repository.WishlistRepository
	logger   *zap.Logger
	validate *validator.Validate
}

func NewWishlistHandler(repo repository.WishlistRepository, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{
		repo:     repo,
		logger:   logger,
		validate: validator.New(),
	}
}

type AddToWishlistInput struct {
	UserID    int64 `json:"userId" validate:"required,gt=0"`
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

func (h *WishlistHandler) Add(c *fiber.Ctx) error {
	input := new(AddToWishlistInput)

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

	item, err := h.repo.Add(c.UserContext(), input.UserID, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found.",
			})
		}

		h.logger.Error("add to wishlist failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid userId",
		})
	}

	items, err := h.repo.ListByUser(c.UserContext(), userID)
	if err != nil {
		h.logger.Error("list wishlist failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(items)
}

func (h *WishlistHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid wishlist item id",
		})
	}

	if err := h.repo.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, repository.ErrWishlistItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Wishlist item not found.",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{"status": "success"})
}
