package controller

import (
	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/pkg/serverutils"
	"ai-imagestudio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMediaController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
}

type mediaController struct {
	service service.IMediaService
}

func NewMediaController(service service.IMediaService) IMediaController {
	return &mediaController{service: service}
}

func (c *mediaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/media")
	h.Post("/upload", serverutils.JwtMiddleware, c.Upload)
}

func (c *mediaController) Upload(ctx *fiber.Ctx) error {
	var req dto.UploadImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}

	res, err := c.service.Upload(ctx.Context(), &req)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Upload complete", res))
}
