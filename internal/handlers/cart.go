package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"adaayam_back_end/internal/middleware"
	"adaayam_back_end/internal/models"
)

// CartHandler conserve le panier côté serveur dans Redis.
type CartHandler struct {
	rdb *redis.Client
}

func NewCartHandler(rdb *redis.Client) *CartHandler {
	return &CartHandler{rdb: rdb}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (h *CartHandler) Get(c *gin.Context) {
	identity := middleware.IdentityFrom(c)

	data, err := h.rdb.Get(c.Request.Context(), cartKey(identity.UserID)).Result()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}})
		return
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Save remplace intégralement le panier de l'appelant.
func (h *CartHandler) Save(c *gin.Context) {
	identity := middleware.IdentityFrom(c)

	var input struct {
		Items []models.CartItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	for _, item := range input.Items {
		if item.ProductID == "" || !item.QuantityKg.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ligne de panier invalide"})
			return
		}
	}

	data, err := json.Marshal(input.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sérialisation panier"})
		return
	}

	if err := h.rdb.Set(c.Request.Context(), cartKey(identity.UserID), data, 0).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": input.Items})
}

func (h *CartHandler) Clear(c *gin.Context) {
	identity := middleware.IdentityFrom(c)

	h.rdb.Del(c.Request.Context(), cartKey(identity.UserID))
	c.JSON(http.StatusOK, gin.H{"msg": "Panier vidé"})
}
