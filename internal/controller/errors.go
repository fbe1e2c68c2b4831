package controller

import (
	"errors"

	"ai-imagestudio-be/internal/pkg/serverutils"
	"ai-imagestudio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps service sentinel errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInsufficientCredits):
		return fiber.StatusPaymentRequired
	case errors.Is(err, service.ErrPromptRequired),
		errors.Is(err, service.ErrTextRequired),
		errors.Is(err, service.ErrImageRequired),
		errors.Is(err, service.ErrUnsupportedOperation),
		errors.Is(err, service.ErrSafetyBlocked),
		errors.Is(err, service.ErrEmptyModelResponse),
		errors.Is(err, service.ErrUnknownPlan),
		errors.Is(err, service.ErrInvalidSignature):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrPaymentGateway):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(ctx *fiber.Ctx, err error) error {
	code := statusForError(err)
	return ctx.Status(code).JSON(serverutils.ErrorResponse(code, err.Error()))
}
