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
	myvalidator "github.com/rizanep/waqthecombackend1/pkg/validator"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc      service.AuthService
	userRepo repository.UserRepository
	logger   *zap.Logger
	validate *validator.Validate
}

func NewAuthHandler(svc service.AuthService, userRepo repository.UserRepository, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		userRepo: userRepo,
		logger:   logger,
		validate: validator.New(),
	}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Name     string `json:"name" validate:"required,max=100"`
	Phone    string `json:"phn" validate:"required,numeric,min=10"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	input := new(RegisterInput)

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

	user, err := h.svc.Register(c.UserContext(), service.RegisterInput{
		Username: input.Username,
		Name:     input.Name,
		Phone:    input.Phone,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, myvalidator.ErrPasswordTooShort),
			errors.Is(err, myvalidator.ErrPasswordTooWeak):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Validation failed",
				"details": fiber.Map{"password": err.Error()},
			})
		case errors.Is(err, repository.ErrUserAlreadyExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "User already exists.",
			})
		}

		mylogger.Error(
			c.UserContext(),
			h.logger,
			"register failed",
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	input := new(LoginInput)

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

	accessToken, refreshToken, err := h.svc.Login(c.UserContext(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials.",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{
		"access":  accessToken,
		"refresh": refreshToken,
	})
}

type RefreshInput struct {
	Refresh string `json:"refresh" validate:"required"`
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	input := new(RefreshInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	accessToken, refreshToken, err := h.svc.Refresh(c.UserContext(), input.Refresh)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid refresh token.",
		})
	}

	return c.JSON(fiber.Map{
		"access":  accessToken,
		"refresh": refreshToken,
	})
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	input := new(ForgotPasswordInput)

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

	if err := h.svc.ForgotPassword(c.UserContext(), input.Email); err != nil {
		mylogger.Error(
			c.UserContext(),
			h.logger,
			"forgot password failed",
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Reset link is sent to your email",
	})
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	input := new(ResetPasswordInput)

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

	if err := h.svc.ResetPassword(c.UserContext(), input.Token, input.Password); err != nil {
		switch {
		case errors.Is(err, myvalidator.ErrPasswordTooShort),
			errors.Is(err, myvalidator.ErrPasswordTooWeak):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Validation failed",
				"details": fiber.Map{"password": err.Error()},
			})
		case errors.Is(err, repository.ErrTokenNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid or expired token.",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{"status": "success"})
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userRepo.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	if users == nil {
		users = make([]domain.User, 0)
	}

	return c.JSON(users)
}

func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	user, err := h.userRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found.",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(user)
}

func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	input := new(domain.UpdateUserInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	var passwordHash string
	if input.Password != nil {
		hash, err := h.svc.HashPassword(*input.Password)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		passwordHash = hash
	}

	if err := h.userRepo.Update(c.UserContext(), id, input, passwordHash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found.",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	return c.JSON(fiber.Map{"status": "success"})
}
