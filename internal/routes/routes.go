package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"adaayam_back_end/internal/handlers"
	"adaayam_back_end/internal/middleware"
)

// Handlers regroupe tous les handlers construits dans main.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Products   *handlers.ProductHandler
	Cart       *handlers.CartHandler
	Orders     *handlers.OrderHandler
	AdminOrder *handlers.AdminOrderHandler
	Webhook    *handlers.WebhookHandler
}

// RegisterRoutes câble toutes les routes de l'API.
func RegisterRoutes(r *gin.Engine, auth *middleware.Auth, rl *middleware.RateLimiter, h Handlers) {
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.String(200, `Serveur API "Ada Ayam" en marche !`)
	})

	api := r.Group("/api")

	// Authentification
	api.POST("/auth/register", rl.Register(), h.Auth.Register)
	api.POST("/auth/login", rl.Login(), h.Auth.Login)
	api.GET("/auth/me", auth.Required(), h.Auth.Me)
	api.PUT("/users/profile", auth.Required(), h.Auth.UpdateProfile)

	// Catalogue public
	api.GET("/products", h.Products.List)
	api.GET("/products/search", h.Products.Search)
	api.GET("/products/:id", h.Products.Get)

	// Catalogue admin
	api.POST("/products", auth.Required(), middleware.RequireAdmin, h.Products.Create)
	api.PUT("/products/:id", auth.Required(), middleware.RequireAdmin, h.Products.Update)
	api.DELETE("/products/:id", auth.Required(), middleware.RequireAdmin, h.Products.Delete)
	api.POST("/products/:id/image", auth.Required(), middleware.RequireAdmin, h.Products.UploadImage)
	api.GET("/admin/products", auth.Required(), middleware.RequireAdmin, h.Products.AdminList)

	// Panier
	api.GET("/cart", auth.Required(), h.Cart.Get)
	api.PUT("/cart", auth.Required(), h.Cart.Save)
	api.DELETE("/cart", auth.Required(), h.Cart.Clear)

	// Commandes
	api.POST("/orders", auth.Required(), h.Orders.Create)
	api.GET("/orders/my-orders", auth.Required(), h.Orders.MyOrders)
	api.GET("/orders/:id", auth.Required(), h.Orders.Get)
	api.POST("/orders/:id/payment-token", auth.Required(), h.Orders.RequestToken)

	// Back-office commandes
	api.GET("/admin/orders", auth.Required(), middleware.RequireAdmin, h.AdminOrder.List)
	api.PUT("/admin/orders/:id/status", auth.Required(), middleware.RequireAdmin, h.AdminOrder.SetStatus)

	// Webhook Midtrans (authentifié par vérification du payload, pas par JWT)
	api.POST("/midtrans-notification", h.Webhook.PaymentNotification)
}
