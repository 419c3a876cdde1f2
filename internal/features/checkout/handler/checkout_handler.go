package handler

import (
	"net/http"

	"bookstore-checkout/internal/core/logger"
	"bookstore-checkout/internal/core/validation"
	"bookstore-checkout/internal/features/checkout/domain"
	"bookstore-checkout/internal/features/checkout/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CheckoutHandler exposes the checkout engine over HTTP.
type CheckoutHandler struct {
	engine *service.Engine
}

// NewCheckoutHandler creates a new instance of CheckoutHandler.
func NewCheckoutHandler(e *service.Engine) *CheckoutHandler {
	return &CheckoutHandler{engine: e}
}

// Checkout places an order.
// @Summary Place an order
// @Description Validate the cart, card and address, price shipping and persist the order, payment and shipment atomically.
// @Accept json
// @Produce json
// @Param request body domain.CheckoutRequest true "Checkout request"
// @Success 200 {object} domain.CheckoutResponse
// @Failure 400 {object} CheckoutErrorResponse
// @Failure 500 {object} CheckoutErrorResponse
// @Router /checkout [post]
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	var req domain.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Info("Malformed checkout request",
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusBadRequest).JSON(CheckoutErrorResponse{
			Errors: validation.Fail(validation.CodeInvalidRequest, "Request body is not valid JSON").Errors,
			RayID:  rayID,
		})
	}

	result := h.engine.ProcessCheckout(c.UserContext(), req)

	switch result.State {
	case domain.StateCommitted:
		return c.Status(http.StatusOK).JSON(result.Response)
	case domain.StateRejected:
		return c.Status(http.StatusBadRequest).JSON(CheckoutErrorResponse{Errors: result.Errors, RayID: rayID})
	default:
		logger.Get().Error("Checkout failed",
			zap.String("ray_id", rayID),
			zap.String("state", string(result.State)),
		)
		return c.Status(http.StatusInternalServerError).JSON(CheckoutErrorResponse{Errors: result.Errors, RayID: rayID})
	}
}

// CheckoutErrorResponse lists every reason a checkout was refused.
type CheckoutErrorResponse struct {
	// Errors lists every failure found.
	Errors []validation.Error `json:"errors"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}
