// internal/interfaces/http/handlers/menu.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/coffee-backend/internal/domain/menu"
)

// MenuHandler handles menu endpoints
type MenuHandler struct {
	menuService *menu.Service
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *menu.Service) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// ListCoffees handles GET /menu
func (h *MenuHandler) ListCoffees(c *gin.Context) {
	coffees, err := h.menuService.ListCoffees(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Menu retrieved successfully", coffees)
}

// GetCoffee handles GET /menu/:id
func (h *MenuHandler) GetCoffee(c *gin.Context) {
	coffee, err := h.menuService.GetCoffee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Coffee retrieved successfully", coffee)
}
