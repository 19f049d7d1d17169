// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/coffee-backend/internal/domain/cart"
	"github.com/your-org/coffee-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// CartResponse is a cart together with its totals
type CartResponse struct {
	Items  []cart.Item `json:"items"`
	Totals cart.Totals `json:"totals"`
}

func newCartResponse(c *cart.Cart) CartResponse {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return CartResponse{Items: items, Totals: c.Totals()}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	current, err := h.cartService.GetCart(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Cart retrieved successfully", newCartResponse(current))
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	updated, err := h.cartService.AddItem(c.Request.Context(), middleware.GetCustomerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Item added to cart successfully", newCartResponse(updated))
}

// UpdateItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	updated, err := h.cartService.UpdateQuantity(c.Request.Context(), middleware.GetCustomerID(c), c.Param("id"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Cart item updated successfully", newCartResponse(updated))
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	updated, err := h.cartService.RemoveItem(c.Request.Context(), middleware.GetCustomerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Item removed from cart successfully", newCartResponse(updated))
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), middleware.GetCustomerID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// Stream handles GET /cart/stream
func (h *CartHandler) Stream(c *gin.Context) {
	customerID := middleware.GetCustomerID(c)

	updates, cancel := h.cartService.Subscribe(customerID)
	defer cancel()

	current, err := h.cartService.GetCart(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	streamEvents(c, "cart", newCartResponse(current), updates, func(next cart.Cart) interface{} {
		return newCartResponse(&next)
	})
}
