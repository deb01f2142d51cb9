package controller

import (
	"marketplace-be/internal/dto"
	"marketplace-be/internal/pkg/serverutils"
	"marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFavoriteController interface {
	RegisterRoutes(r fiber.Router)
	Add(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type favoriteController struct {
	favoriteService service.IFavoriteService
}

func NewFavoriteController(favoriteService service.IFavoriteService) IFavoriteController {
	return &favoriteController{
		favoriteService: favoriteService,
	}
}

func (c *favoriteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/favorites/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Add)
	h.Delete(":adId", c.Remove)
}

func (c *favoriteController) Add(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.FavoriteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.favoriteService.Add(ctx.Context(), userId, &req)
	if err != nil {
		return mapAdError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add favorite", res))
}

func (c *favoriteController) Remove(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	adId, err := uuid.Parse(ctx.Params("adId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid ad id")
	}

	if err := c.favoriteService.Remove(ctx.Context(), userId, adId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success remove favorite", fiber.Map{"ad_id": adId}))
}

func (c *favoriteController) List(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.favoriteService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list favorites", res))
}
