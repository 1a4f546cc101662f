package payment

import (
	"context"
	"encoding/json"
	"log"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"adaayam_back_end/internal/apperr"
)

// MidtransGateway implémente Gateway avec l'API Snap et l'API Core de Midtrans.
type MidtransGateway struct {
	snap snap.Client
	core coreapi.Client
}

func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	g := &MidtransGateway{}
	g.snap.New(serverKey, env)
	g.core.New(serverKey, env)
	log.Println("✅ Midtrans initialisé")
	return g
}

func (g *MidtransGateway) CreateSnapToken(ctx context.Context, reference string, grossAmount int64, customer Customer) (string, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  reference,
			GrossAmt: grossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.FullName,
			Email: customer.Email,
			Phone: customer.Phone,
		},
	}

	token, mErr := g.snap.CreateTransactionToken(req)
	if mErr != nil {
		log.Printf("❌ Erreur Midtrans Snap pour %s: %v", reference, mErr.GetMessage())
		return "", apperr.GatewayUnavailable("", "échec création token de paiement: %s", mErr.GetMessage())
	}

	log.Printf("💳 Snap token créé pour %s (montant %d)", reference, grossAmount)
	return token, nil
}

// VerifyNotification ne fait confiance qu'à l'order_id du payload, puis
// réinterroge l'API Midtrans pour obtenir le statut faisant foi — le reste
// du payload est contrôlé par l'expéditeur et n'est jamais utilisé.
func (g *MidtransGateway) VerifyNotification(ctx context.Context, payload []byte) (*Notification, error) {
	var body struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.OrderID == "" {
		return nil, apperr.Unauthenticated("notification illisible ou sans order_id")
	}

	status, mErr := g.core.CheckTransaction(body.OrderID)
	if mErr != nil {
		log.Printf("❌ Vérification Midtrans échouée pour %s: %v", body.OrderID, mErr.GetMessage())
		return nil, apperr.Unauthenticated("notification non vérifiable: %s", mErr.GetMessage())
	}

	return &Notification{
		Reference:         status.OrderID,
		TransactionStatus: status.TransactionStatus,
		FraudStatus:       status.FraudStatus,
	}, nil
}
