package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"adaayam_back_end/internal/middleware"
	"adaayam_back_end/internal/models"
	"adaayam_back_end/internal/orders"
)

// OrderService est la frontière du gestionnaire de cycle de vie des
// commandes vue par la couche HTTP.
type OrderService interface {
	Create(ctx context.Context, identity models.Identity, lines []orders.LineRequest, shippingAddress string) (*models.Order, error)
	RequestToken(ctx context.Context, identity models.Identity, orderID string) (*models.Order, error)
	Reconcile(ctx context.Context, rawPayload []byte) error
	AdminSetStatus(ctx context.Context, identity models.Identity, orderID, requestedStatus string) (*models.Order, error)
	Get(ctx context.Context, identity models.Identity, orderID string) (*models.Order, error)
	ListByUser(ctx context.Context, identity models.Identity) ([]models.Order, error)
	ListAll(ctx context.Context, identity models.Identity) ([]models.Order, error)
}

// OrderHandler expose le checkout et l'historique de commandes.
type OrderHandler struct {
	orders OrderService
	rdb    *redis.Client
}

func NewOrderHandler(svc OrderService, rdb *redis.Client) *OrderHandler {
	return &OrderHandler{orders: svc, rdb: rdb}
}

// Create transforme un panier en commande et retourne le Snap token.
func (h *OrderHandler) Create(c *gin.Context) {
	identity := middleware.IdentityFrom(c)

	var input struct {
		CartItems       []orders.LineRequest `json:"cart_items"`
		ShippingAddress string               `json:"shipping_address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le panier et l'adresse de livraison ne peuvent pas être vides"})
		return
	}

	order, err := h.orders.Create(c.Request.Context(), identity, input.CartItems, input.ShippingAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	// Le panier serveur a été consommé par cette commande.
	if h.rdb != nil {
		h.rdb.Del(context.Background(), cartKey(identity.UserID))
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": order.SnapToken,
		"order": order,
	})
}

// RequestToken redemande un Snap token pour une commande restée sans token.
func (h *OrderHandler) RequestToken(c *gin.Context) {
	identity := middleware.IdentityFrom(c)

	order, err := h.orders.RequestToken(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": order.SnapToken,
		"order": order,
	})
}

// MyOrders retourne l'historique de l'appelant.
func (h *OrderHandler) MyOrders(c *gin.Context) {
	identity := middleware.IdentityFrom(c)

	list, err := h.orders.ListByUser(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// Get retourne une commande de l'appelant.
func (h *OrderHandler) Get(c *gin.Context) {
	identity := middleware.IdentityFrom(c)

	order, err := h.orders.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
