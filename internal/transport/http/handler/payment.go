package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rizanep/waqthecombackend1/internal/infrastructure/payment"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"github.com/rizanep/waqthecombackend1/pkg/utils"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	gateway  payment.Gateway
	logger   *zap.Logger
	validate *validator.Validate
}

func NewPaymentHandler(gateway payment.Gateway, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		gateway:  gateway,
		logger:   logger,
		validate: validator.New(),
	}
}

type CreatePaymentOrderInput struct {
	// Amount in rupees, converted to paise for the provider.
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	input := new(CreatePaymentOrderInput)

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

	orderID, err := h.gateway.CreateOrder(c.UserContext(), input.Amount*100)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "service temporarily unavailable",
			})
		}

		mylogger.Error(
			c.UserContext(),
			h.logger,
			"create payment order failed",
			zap.Error(err),
		)

		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "payment provider error",
		})
	}

	return c.JSON(fiber.Map{
		"order_id": orderID,
		"amount":   input.Amount * 100,
		"currency": "INR",
	})
}

type VerifyPaymentInput struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	input := new(VerifyPaymentInput)

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

	if !h.gateway.VerifySignature(input.OrderID, input.PaymentID, input.Signature) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "Payment verification failed",
		})
	}

	return c.JSON(fiber.Map{
		"status": "Payment verified successfully",
	})
}
