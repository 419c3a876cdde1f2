package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bookstore-checkout/internal/core/logger"
	"bookstore-checkout/internal/core/validation"
	"bookstore-checkout/internal/features/orders/domain"
	"bookstore-checkout/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	// service is the OrderService instance.
	service *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// GetOrder handles the request to retrieve an order with its payment and shipment.
// @Summary Get Order by ID
// @Description Fetch an order with its payment and shipping records.
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} domain.OrderDetails
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	rayID := rayIDFrom(c)

	orderID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || orderID <= 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    validation.CodeInvalidRequest,
			Message: "Order ID must be a positive integer",
			RayID:   rayID,
		})
	}

	order, err := h.service.GetOrder(c.UserContext(), orderID)
	if err != nil {
		return h.fail(c, rayID, orderID, err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// UpdateStatusRequest is the body of PUT /orders/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order through its fulfilment lifecycle.
// @Summary Update order status
// @Description Pending to Processing or Cancelled, Processing to Shipped or Cancelled, Shipped to Completed.
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	rayID := rayIDFrom(c)

	orderID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || orderID <= 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    validation.CodeInvalidRequest,
			Message: "Order ID must be a positive integer",
			RayID:   rayID,
		})
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    validation.CodeInvalidRequest,
			Message: "Request body is not valid JSON",
			RayID:   rayID,
		})
	}
	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    validation.CodeInvalidRequest,
			Message: "Unknown order status " + strconv.Quote(req.Status),
			RayID:   rayID,
		})
	}

	order, err := h.service.UpdateStatus(c.UserContext(), orderID, status)
	if err != nil {
		return h.fail(c, rayID, orderID, err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

func (h *OrderHandler) fail(c *fiber.Ctx, rayID string, orderID int64, err error) error {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    validation.CodeOrderNotFound,
			Message: "Order not found",
			RayID:   rayID,
		})
	case errors.Is(err, service.ErrInvalidTransition):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Code:    validation.CodeInvalidRequest,
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	logger.Get().Error("Order request failed",
		zap.Int64("order_id", orderID),
		zap.String("ray_id", rayID),
		zap.Error(err),
	)
	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Code:    validation.CodeProcessingFailed,
		Message: "Internal Server Error",
		RayID:   rayID,
	})
}

func rayIDFrom(c *fiber.Ctx) string {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return rayID
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
