// Package http exposes the checkout bounded context over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/rental-api/internal/domains/checkout/adapters/http/mapper"
	"github.com/shelfwise/rental-api/internal/domains/checkout/application"
	"github.com/shelfwise/rental-api/internal/domains/checkout/domain"
	"github.com/shelfwise/rental-api/internal/domains/checkout/ports"
	apierrors "github.com/shelfwise/rental-api/internal/shared/errors"
)

// IdempotencyKeyHeader carries the client-chosen placement retry key.
const IdempotencyKeyHeader = "Idempotency-Key"

// Handler wires HTTP transport with the checkout service. Placement goes
// through the orchestrator so it can run inline or on a workflow engine.
type Handler struct {
	service      ports.Service
	orchestrator ports.PlacementOrchestrator
	responder    *apierrors.Responder
}

// NewHandler creates a checkout handler backed by the provided service and
// placement orchestrator.
func NewHandler(service ports.Service, orchestrator ports.PlacementOrchestrator) *Handler {
	return &Handler{
		service:      service,
		orchestrator: orchestrator,
		responder:    apierrors.NewResponder(mapCheckoutError),
	}
}

// Register mounts the checkout routes on the given group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("/cart", h.ListCartLines)
	group.POST("/cart", h.AddCartLine)
	group.DELETE("/cart/:lineId", h.RemoveCartLine)
	group.GET("/orders", h.ListOrders)
	group.POST("/orders", h.PlaceOrder)
	group.PATCH("/orders/:orderId/status", h.UpdateOrderStatuses)
}

// GET /api/v1/cart
func (h *Handler) ListCartLines(c *gin.Context) {
	result, err := h.service.ListCartLines(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromCartLineList(result))
}

// POST /api/v1/cart
func (h *Handler) AddCartLine(c *gin.Context) {
	var payload mapper.CartLinePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.AddCartLine(c.Request.Context(), payload.BookID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromCartLine(result))
}

// DELETE /api/v1/cart/:lineId
func (h *Handler) RemoveCartLine(c *gin.Context) {
	id, ok := h.parseIDParam(c, "lineId")
	if !ok {
		return
	}
	if err := h.service.RemoveCartLine(c.Request.Context(), id); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/orders
func (h *Handler) ListOrders(c *gin.Context) {
	result, err := h.service.ListOrders(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderList(result))
}

// POST /api/v1/orders
func (h *Handler) PlaceOrder(c *gin.Context) {
	var payload mapper.PlaceOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	result, err := h.orchestrator.PlaceOrder(c.Request.Context(), mapper.ToPlaceOrderInput(payload, key))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	status := http.StatusCreated
	if result != nil && result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, mapper.FromPlacementResult(result))
}

// PATCH /api/v1/orders/:orderId/status
func (h *Handler) UpdateOrderStatuses(c *gin.Context) {
	id, ok := h.parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload mapper.OrderStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	result, err := h.service.UpdateOrderStatuses(c.Request.Context(), id,
		domain.PaymentStatus(payload.PaymentStatus), domain.DeliveryStatus(payload.DeliveryStatus))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			h.responder.NotFound(c, "order", id)
			return
		}
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(result))
}

func (h *Handler) parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.responder.BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func mapCheckoutError(err error) (apierrors.ProblemDetail, bool) {
	var placement *application.PlacementError
	switch {
	case errors.As(err, &placement):
		return apierrors.ErrConflict.
			WithDetail(placement.Error()).
			WithExtension("requested", placement.Requested).
			WithExtension("created", placement.Created).
			WithExtension("stage", string(placement.Stage)), true
	case errors.Is(err, application.ErrEmptyCart):
		return apierrors.ErrUnprocessable.WithDetail("cart is empty; nothing to place"), true
	case errors.Is(err, ports.ErrUnknownBook):
		return apierrors.ErrUnprocessable.WithDetail("book does not exist in the catalog"), true
	case errors.Is(err, ports.ErrAttemptConflict):
		return apierrors.ErrConflict.WithDetail("idempotency key was already used for a different cart"), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrStorage):
		return apierrors.ErrInternal.WithDetail("checkout storage unavailable"), true
	}
	return apierrors.ProblemDetail{}, false
}
