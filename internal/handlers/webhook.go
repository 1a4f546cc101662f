package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"adaayam_back_end/internal/apperr"
)

// WebhookHandler reçoit les notifications asynchrones de Midtrans.
type WebhookHandler struct {
	orders OrderService
}

func NewWebhookHandler(svc OrderService) *WebhookHandler {
	return &WebhookHandler{orders: svc}
}

// PaymentNotification réconcilie une notification de paiement. Dès que le
// payload est structurellement accepté, la réponse est 200 quoi qu'il
// arrive : Midtrans rejoue indéfiniment tout autre code, y compris pour
// une commande inconnue de notre côté. Les anomalies partent dans les
// logs, jamais vers la passerelle.
func (h *WebhookHandler) PaymentNotification(c *gin.Context) {
	const maxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload notification échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	if err := h.orders.Reconcile(c.Request.Context(), payload); err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindUnauthenticated:
			log.Printf("⚠️ Notification non vérifiable ignorée: %v", err)
		case apperr.KindNotFound:
			log.Printf("⚠️ Notification pour une commande inconnue: %v", err)
		default:
			log.Printf("❌ Erreur réconciliation notification: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Notification reçue"})
}
