package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adaayam_back_end/internal/models"
)

func TestNextStatusForNotification(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		txStatus    string
		fraudStatus string
		wantNext    string
		wantChanged bool
	}{
		{
			name:     "settlement accepté sur commande en attente",
			current:  models.StatusPendingPayment,
			txStatus: "settlement", fraudStatus: "accept",
			wantNext: models.StatusPaid, wantChanged: true,
		},
		{
			name:     "capture acceptée sur commande en attente",
			current:  models.StatusPendingPayment,
			txStatus: "capture", fraudStatus: "accept",
			wantNext: models.StatusPaid, wantChanged: true,
		},
		{
			name:     "capture retenue par l'anti-fraude",
			current:  models.StatusPendingPayment,
			txStatus: "capture", fraudStatus: "challenge",
			wantNext: models.StatusPendingPayment, wantChanged: false,
		},
		{
			name:     "settlement sans fraud_status",
			current:  models.StatusPendingPayment,
			txStatus: "settlement", fraudStatus: "",
			wantNext: models.StatusPendingPayment, wantChanged: false,
		},
		{
			name:     "annulation",
			current:  models.StatusPendingPayment,
			txStatus: "cancel",
			wantNext: models.StatusCancelled, wantChanged: true,
		},
		{
			name:     "refus",
			current:  models.StatusPendingPayment,
			txStatus: "deny",
			wantNext: models.StatusCancelled, wantChanged: true,
		},
		{
			name:     "expiration",
			current:  models.StatusPendingPayment,
			txStatus: "expire",
			wantNext: models.StatusCancelled, wantChanged: true,
		},
		{
			name:     "expiration sur commande déjà payée",
			current:  models.StatusPaid,
			txStatus: "expire",
			wantNext: models.StatusCancelled, wantChanged: true,
		},
		{
			name:     "rejeu du settlement sur commande payée",
			current:  models.StatusPaid,
			txStatus: "settlement", fraudStatus: "accept",
			wantNext: models.StatusPaid, wantChanged: false,
		},
		{
			name:     "COMPLETED est terminal",
			current:  models.StatusCompleted,
			txStatus: "settlement", fraudStatus: "accept",
			wantNext: models.StatusCompleted, wantChanged: false,
		},
		{
			name:     "CANCELLED est terminal",
			current:  models.StatusCancelled,
			txStatus: "settlement", fraudStatus: "accept",
			wantNext: models.StatusCancelled, wantChanged: false,
		},
		{
			name:     "statut de transaction inconnu",
			current:  models.StatusPendingPayment,
			txStatus: "pending",
			wantNext: models.StatusPendingPayment, wantChanged: false,
		},
		{
			name:     "refus tardif sur commande expédiée",
			current:  models.StatusShipped,
			txStatus: "deny",
			wantNext: models.StatusCancelled, wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed := nextStatusForNotification(tt.current, tt.txStatus, tt.fraudStatus)
			assert.Equal(t, tt.wantNext, next)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestAdminCanSet(t *testing.T) {
	allowed := []string{
		models.StatusProcessing,
		models.StatusShipped,
		models.StatusCompleted,
		models.StatusCancelled,
	}
	for _, s := range allowed {
		assert.True(t, AdminCanSet(s), "statut %s", s)
	}

	refused := []string{models.StatusPendingPayment, models.StatusPaid, "REFUNDED", "paid", ""}
	for _, s := range refused {
		assert.False(t, AdminCanSet(s), "statut %s", s)
	}
}
