package controller

import (
	"errors"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/pkg/serverutils"
	"marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	GetPackages(ctx *fiber.Ctx) error
	CreateCheckout(ctx *fiber.Ctx) error
	HandleNotification(ctx *fiber.Ctx) error
}

type paymentController struct {
	paymentService service.IPaymentService
}

func NewPaymentController(paymentService service.IPaymentService) IPaymentController {
	return &paymentController{
		paymentService: paymentService,
	}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment/v1")
	h.Get("packages", c.GetPackages)
	// Webhook is called by the payment provider, not a logged-in user.
	h.Post("midtrans/notification", c.HandleNotification)

	h.Use(serverutils.JwtMiddleware)
	h.Post("checkout", c.CreateCheckout)
}

func (c *paymentController) GetPackages(ctx *fiber.Ctx) error {
	res, err := c.paymentService.GetPackages(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list credit packages", res))
}

func (c *paymentController) CreateCheckout(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.paymentService.CreateCheckout(ctx.Context(), userId, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPaymentNotConfigured):
			return fiber.NewError(fiber.StatusInternalServerError, "payment provider not configured")
		default:
			return err
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create checkout", res))
}

func (c *paymentController) HandleNotification(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.paymentService.HandleNotification(ctx.Context(), &req); err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			return fiber.NewError(fiber.StatusForbidden, "invalid signature")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("OK", fiber.Map{}))
}
