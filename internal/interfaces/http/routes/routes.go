// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/coffee-backend/internal/config"
	"github.com/your-org/coffee-backend/internal/domain/cart"
	"github.com/your-org/coffee-backend/internal/domain/loyalty"
	"github.com/your-org/coffee-backend/internal/domain/menu"
	"github.com/your-org/coffee-backend/internal/domain/order"
	"github.com/your-org/coffee-backend/internal/domain/reward"
	"github.com/your-org/coffee-backend/internal/interfaces/http/handlers"
	"github.com/your-org/coffee-backend/internal/interfaces/http/middleware"
)

// Services are the domain services the API exposes
type Services struct {
	Menu    *menu.Service
	Cart    *cart.Service
	Loyalty *loyalty.Service
	Orders  *order.Service
	Rewards *reward.Service
}

// Setup registers every API route on rg. Event streams are long-lived and
// are registered outside the request timeout.
func Setup(rg *gin.RouterGroup, services Services, cfg *config.Config) {
	timeout := middleware.Timeout(cfg.Server.RequestTimeout)

	SetupMenuRoutes(rg, services.Menu, timeout)
	SetupCartRoutes(rg, services.Cart, timeout)
	SetupOrderRoutes(rg, services.Orders, timeout)
	SetupLoyaltyRoutes(rg, services.Loyalty, timeout)
	SetupRewardRoutes(rg, services.Rewards, timeout)
}

// SetupMenuRoutes sets up menu related routes
func SetupMenuRoutes(rg *gin.RouterGroup, menuService *menu.Service, timeout gin.HandlerFunc) {
	menuHandler := handlers.NewMenuHandler(menuService)

	menu := rg.Group("/menu")
	menu.Use(timeout)
	{
		menu.GET("", menuHandler.ListCoffees)
		menu.GET("/:id", menuHandler.GetCoffee)
	}
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, cartService *cart.Service, timeout gin.HandlerFunc) {
	cartHandler := handlers.NewCartHandler(cartService)

	rg.GET("/cart/stream", cartHandler.Stream)

	cart := rg.Group("/cart")
	cart.Use(timeout)
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:id", cartHandler.UpdateItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
	}
}

// SetupOrderRoutes sets up order related routes
func SetupOrderRoutes(rg *gin.RouterGroup, orderService *order.Service, timeout gin.HandlerFunc) {
	orderHandler := handlers.NewOrderHandler(orderService)

	orders := rg.Group("/orders")
	orders.Use(timeout)
	{
		orders.POST("", orderHandler.PlaceOrder)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)
		orders.POST("/:id/complete", orderHandler.CompleteOrder)
	}
}

// SetupLoyaltyRoutes sets up loyalty account routes
func SetupLoyaltyRoutes(rg *gin.RouterGroup, loyaltyService *loyalty.Service, timeout gin.HandlerFunc) {
	loyaltyHandler := handlers.NewLoyaltyHandler(loyaltyService)

	rg.GET("/loyalty/stream", loyaltyHandler.Stream)

	loyalty := rg.Group("/loyalty")
	loyalty.Use(timeout)
	{
		loyalty.GET("", loyaltyHandler.GetAccount)
		loyalty.PUT("/profile", loyaltyHandler.UpdateProfile)
	}
}

// SetupRewardRoutes sets up reward catalogue routes
func SetupRewardRoutes(rg *gin.RouterGroup, rewardService *reward.Service, timeout gin.HandlerFunc) {
	rewardHandler := handlers.NewRewardHandler(rewardService)

	rewards := rg.Group("/rewards")
	rewards.Use(timeout)
	{
		rewards.GET("", rewardHandler.ListRewards)
		rewards.GET("/history", rewardHandler.History)
		rewards.POST("/stamp-card/redeem", rewardHandler.RedeemStampCard)
		rewards.POST("/:id/redeem", rewardHandler.Redeem)
	}
}
