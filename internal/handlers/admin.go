package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adaayam_back_end/internal/middleware"
	"adaayam_back_end/internal/repository"
)

// AdminOrderHandler expose le back-office des commandes.
type AdminOrderHandler struct {
	orders OrderService
	audit  repository.AuditRepository
}

func NewAdminOrderHandler(svc OrderService, audit repository.AuditRepository) *AdminOrderHandler {
	return &AdminOrderHandler{orders: svc, audit: audit}
}

// List retourne toutes les commandes.
func (h *AdminOrderHandler) List(c *gin.Context) {
	identity := middleware.IdentityFrom(c)

	list, err := h.orders.ListAll(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// SetStatus fait avancer une commande dans sa progression de statuts.
func (h *AdminOrderHandler) SetStatus(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	orderID := c.Param("id")

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut requis"})
		return
	}

	order, err := h.orders.AdminSetStatus(c.Request.Context(), identity, orderID, input.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	repository.LogAction(h.audit, identity.UserID,
		"SET_STATUS", "order", orderID, nil, gin.H{"status": order.Status})

	c.JSON(http.StatusOK, order)
}
