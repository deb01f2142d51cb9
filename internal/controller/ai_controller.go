package controller

import (
	"errors"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/pkg/serverutils"
	"marketplace-be/internal/service"
	"marketplace-be/pkg/genai"
	"marketplace-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAiController interface {
	RegisterRoutes(r fiber.Router)
	GenerateDescription(ctx *fiber.Ctx) error
	GenerateTitle(ctx *fiber.Ctx) error
	GenerateTags(ctx *fiber.Ctx) error
	CompareProducts(ctx *fiber.Ctx) error
	RecommendPrice(ctx *fiber.Ctx) error
	DetectFraud(ctx *fiber.Ctx) error
	AnalyzeImages(ctx *fiber.Ctx) error
	SuggestAlternatives(ctx *fiber.Ctx) error
}

type aiController struct {
	generationService service.IGenerationService
}

func NewAiController(generationService service.IGenerationService) IAiController {
	return &aiController{
		generationService: generationService,
	}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai/v1")

	// Comparison and alternatives work without an account.
	h.Post("compare-products", c.CompareProducts)
	h.Post("alternatives", c.SuggestAlternatives)

	h.Use(serverutils.JwtMiddleware)
	h.Post("generate-description", c.GenerateDescription)
	h.Post("generate-title", c.GenerateTitle)
	h.Post("generate-tags", c.GenerateTags)
	h.Post("recommend-price", c.RecommendPrice)
	h.Post("detect-fraud", c.DetectFraud)
	h.Post("analyze-images", c.AnalyzeImages)
}

// mapAiError translates orchestrator failures into HTTP status codes. An
// overloaded provider is retryable and surfaces as 503, never as a generic
// failure.
func mapAiError(err error) error {
	switch {
	case errors.Is(err, genai.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, genai.ErrUnknownFeature):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, llm.ErrOverloaded):
		return fiber.NewError(fiber.StatusServiceUnavailable, "model is overloaded, please retry shortly")
	default:
		return err
	}
}

func requireUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return uuid.Parse(userIdStr)
}

func optionalUserId(ctx *fiber.Ctx) *uuid.UUID {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return nil
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return nil
	}
	return &userId
}

func (c *aiController) GenerateDescription(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateDescriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.GenerateDescription(ctx.Context(), userId, &req)
	if err != nil {
		return mapAiError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate description", res))
}

func (c *aiController) GenerateTitle(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateTitleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.GenerateTitle(ctx.Context(), userId, &req)
	if err != nil {
		return mapAiError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate title", res))
}

func (c *aiController) GenerateTags(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateTagsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.GenerateTags(ctx.Context(), userId, &req)
	if err != nil {
		return mapAiError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate tags", res))
}

func (c *aiController) CompareProducts(ctx *fiber.Ctx) error {
	var req dto.CompareProductsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.CompareProducts(ctx.Context(), optionalUserId(ctx), &req)
	if err != nil {
		return mapAiError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success compare products", res))
}

func (c *aiController) RecommendPrice(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.RecommendPriceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.RecommendPrice(ctx.Context(), userId, &req)
	if err != nil {
		return mapAiError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success recommend price", res))
}

func (c *aiController) DetectFraud(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.DetectFraudRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.DetectFraud(ctx.Context(), userId, &req)
	if err != nil {
		return mapAiError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success detect fraud", res))
}

func (c *aiController) AnalyzeImages(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.AnalyzeImagesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.AnalyzeImages(ctx.Context(), userId, &req)
	if err != nil {
		return mapAiError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze images", res))
}

func (c *aiController) SuggestAlternatives(ctx *fiber.Ctx) error {
	var req dto.AlternativesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.SuggestAlternatives(ctx.Context(), optionalUserId(ctx), &req)
	if err != nil {
		return mapAiError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success suggest alternatives", res))
}
