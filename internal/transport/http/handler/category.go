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

type CategoryHandler struct {
	repo     repository.CategoryRepository
	logger   *zap.Logger
	validate *validator.Validate
}

func NewCategoryHandler(repo repository.CategoryRepository, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		repo:     repo,
		logger:   logger,
		validate: validator.New(),
	}
}

type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	input := new(CreateCategoryInput)

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

	category, err := h.repo.Create(c.UserContext(), input.Name)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Category already exists.",
			})
		}

		h.logger.Error("create category failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.repo.List(c.UserContext())
	if err != nil {
		h.logger.Error("list categories failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(categories)
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid category id",
		})
	}

	if err := h.repo.DeleteByID(c.UserContext(), id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Category not found.",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{"status": "success"})
}
