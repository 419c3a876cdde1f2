package handler

import (
	"net/http"

	"bookstore-checkout/internal/core/logger"
	"bookstore-checkout/internal/core/validation"
	"bookstore-checkout/internal/features/shipping/domain"
	"bookstore-checkout/internal/features/shipping/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EstimateHandler serves shipping quotes ahead of checkout.
type EstimateHandler struct {
	calculator *service.Calculator
}

// NewEstimateHandler creates a new instance of EstimateHandler.
func NewEstimateHandler(c *service.Calculator) *EstimateHandler {
	return &EstimateHandler{calculator: c}
}

// GetEstimate quotes a shipping option for an address.
// @Summary Estimate shipping
// @Description Quote the cost and delivery window of a shipping method for an address.
// @Produce json
// @Param street query string true "Street"
// @Param city query string false "City"
// @Param postal_code query string true "Postal code"
// @Param country query string true "Country"
// @Param method query string false "Shipping method (Standard, Express, SameDay, International)"
// @Success 200 {object} domain.Option
// @Failure 400 {object} ErrorResponse
// @Router /shipping/estimate [get]
func (h *EstimateHandler) GetEstimate(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	address := domain.Address{
		Street:     c.Query("street"),
		City:       c.Query("city"),
		PostalCode: c.Query("postal_code"),
		Country:    c.Query("country"),
	}
	method := domain.Method(c.Query("method", string(domain.MethodStandard)))

	if address.Country == "" || !address.IsValid() {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    validation.CodeInvalidRequest,
			Message: "street, postal_code and country are required",
			RayID:   rayID,
		})
	}

	option := h.calculator.Calculate(c.UserContext(), address, method)
	if !option.Available {
		logger.Get().Info("Shipping estimate unavailable",
			zap.String("ray_id", rayID),
			zap.String("reason", option.Reason),
		)
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    validation.CodeShippingUnavailable,
			Message: option.Reason,
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(option)
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Code is the machine-readable error code.
	Code validation.Code `json:"code"`
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}
