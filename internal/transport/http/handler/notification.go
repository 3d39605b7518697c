package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/internal/repository"
	"github.com/rizanep/waqthecombackend1/internal/service"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	svc    service.NotificationService
	logger *zap.Logger
}

func NewNotificationHandler(svc service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		svc:    svc,
		logger: logger,
	}
}

// List returns the user's notifications newest first. A missing user_id is
// not an error, the response is just an empty list.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	raw := c.Query("user_id")
	if raw == "" {
		return c.JSON(make([]domain.Notification, 0))
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user_id",
		})
	}

	notifications, err := h.svc.List(c.UserContext(), userID)
	if err != nil {
		mylogger.Error(
			c.UserContext(),
			h.logger,
			"list notifications failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(notifications)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid notification id",
		})
	}

	if err := h.svc.MarkRead(c.UserContext(), id); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Notification not found.",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{"status": "success"})
}

func (h *NotificationHandler) ClearAll(c *fiber.Ctx) error {
	raw := c.Query("user_id")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user_id",
		})
	}

	deleted, err := h.svc.ClearAll(c.UserContext(), userID)
	if err != nil {
		mylogger.Error(
			c.UserContext(),
			h.logger,
			"clear notifications failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Deleted %d notifications.", deleted),
	})
}
