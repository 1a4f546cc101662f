package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"adaayam_back_end/internal/apperr"
)

// respondError projette une erreur métier vers une réponse HTTP. Le cas
// GatewayUnavailable joint l'identifiant de la commande persistée pour que
// le client redemande un token au lieu de recréer une commande.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ Erreur interne: %v", err)
		c.JSON(status, gin.H{"error": "Erreur interne du serveur"})
		return
	}

	body := gin.H{"error": err.Error()}
	var e *apperr.Error
	if errors.As(err, &e) && e.OrderID != "" {
		body["order_id"] = e.OrderID
	}
	c.JSON(status, body)
}
