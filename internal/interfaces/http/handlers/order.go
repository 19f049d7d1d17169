// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/coffee-backend/internal/domain/order"
	"github.com/your-org/coffee-backend/internal/interfaces/http/middleware"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// PlaceOrder handles POST /orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req order.PlaceRequest
	// An empty body places the order with the default address and no discounts
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalidRequest(c, err)
			return
		}
	}

	result, err := h.orderService.PlaceOrder(c.Request.Context(), middleware.GetCustomerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Order placed successfully", result)
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	respond(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	respond(c, http.StatusOK, "Order retrieved successfully", o)
}

// CancelOrder handles POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	if _, ok := h.ownedOrder(c); !ok {
		return
	}

	cancelled, err := h.orderService.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Order cancelled successfully", cancelled)
}

// CompleteOrder handles POST /orders/:id/complete
func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	if _, ok := h.ownedOrder(c); !ok {
		return
	}

	completed, err := h.orderService.CompleteOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Order completed successfully", completed)
}

// ownedOrder loads the order named in the path. Orders of other customers
// are reported as missing.
func (h *OrderHandler) ownedOrder(c *gin.Context) (*order.Order, bool) {
	id := c.Param("id")

	o, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if o.CustomerID != middleware.GetCustomerID(c) {
		respondError(c, apperror.NotFound(apperror.CodeOrderNotFound, "order %q not found", id))
		return nil, false
	}
	return o, true
}
