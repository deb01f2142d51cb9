package controller

import (
	"errors"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/pkg/serverutils"
	"marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Similar(ctx *fiber.Ctx) error
	Related(ctx *fiber.Ctx) error
}

type adController struct {
	adService             service.IAdService
	recommendationService service.IRecommendationService
}

func NewAdController(
	adService service.IAdService,
	recommendationService service.IRecommendationService,
) IAdController {
	return &adController{
		adService:             adService,
		recommendationService: recommendationService,
	}
}

func (c *adController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ads/v1")

	// Public browse surface
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Get(":id/similar", c.Similar)
	h.Get(":id/related", c.Related)

	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func mapAdError(err error) error {
	if errors.Is(err, service.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}

func (c *adController) Create(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateAdRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.adService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return mapAdError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create ad", res))
}

func (c *adController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid ad id")
	}

	res, err := c.adService.Show(ctx.Context(), id)
	if err != nil {
		return mapAdError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show ad", res))
}

func (c *adController) List(ctx *fiber.Ctx) error {
	category := ctx.Query("category")
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.adService.List(ctx.Context(), category, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list ads", res))
}

func (c *adController) Update(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid ad id")
	}

	var req dto.UpdateAdRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.adService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return mapAdError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update ad", res))
}

func (c *adController) Delete(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid ad id")
	}

	if err := c.adService.Delete(ctx.Context(), userId, id); err != nil {
		return mapAdError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete ad", fiber.Map{"id": id}))
}

func (c *adController) Similar(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid ad id")
	}
	limit := ctx.QueryInt("limit", 0)

	res, err := c.recommendationService.SimilarAds(ctx.Context(), id, limit)
	if err != nil {
		return mapAdError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success find similar ads", res))
}

func (c *adController) Related(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid ad id")
	}
	limit := ctx.QueryInt("limit", 0)

	res, err := c.recommendationService.SemanticRelated(ctx.Context(), id, limit)
	if err != nil {
		return mapAdError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success find related ads", res))
}
