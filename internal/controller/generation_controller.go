package controller

import (
	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/pkg/serverutils"
	"ai-imagestudio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	GenerateImage(ctx *fiber.Ctx) error
	TextToSpeech(ctx *fiber.Ctx) error
	GetGallery(ctx *fiber.Ctx) error
}

type generationController struct {
	generationService service.IGenerationService
	galleryService    service.IGalleryService
}

func NewGenerationController(
	generationService service.IGenerationService,
	galleryService service.IGalleryService,
) IGenerationController {
	return &generationController{
		generationService: generationService,
		galleryService:    galleryService,
	}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generation")
	h.Post("/image", serverutils.JwtMiddleware, c.GenerateImage)
	h.Post("/speech", serverutils.JwtMiddleware, c.TextToSpeech)
	h.Get("/gallery", serverutils.JwtMiddleware, c.GetGallery)
}

func (c *generationController) GenerateImage(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}

	res, err := c.generationService.GenerateImage(ctx.Context(), userId, &req)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Generation complete", res))
}

func (c *generationController) TextToSpeech(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.TextToSpeechRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}

	res, err := c.generationService.TextToSpeech(ctx.Context(), userId, &req)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Speech generated", res))
}

func (c *generationController) GetGallery(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	// as=conversation rehydrates a chat view from the durable gallery.
	if ctx.Query("as") == "conversation" {
		res, err := c.galleryService.GetGalleryAsConversation(ctx.Context(), userId)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(serverutils.SuccessResponse("Gallery", res))
	}

	res, err := c.galleryService.GetGallery(ctx.Context(), userId)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Gallery", res))
}
