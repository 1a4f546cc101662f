package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'une commande. COMPLETED et CANCELLED sont terminaux :
// aucune notification de paiement ne doit plus les modifier.
const (
	StatusPendingPayment = "PENDING_PAYMENT"
	StatusPaid           = "PAID"
	StatusProcessing     = "PROCESSING"
	StatusShipped        = "SHIPPED"
	StatusCompleted      = "COMPLETED"
	StatusCancelled      = "CANCELLED"
)

// Order représente une tentative de checkout.
// Le montant total est figé à la création (prix catalogue du moment)
// et n'est jamais recalculé ensuite.
type Order struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	PaymentReference string          `json:"payment_reference"`
	SnapToken        string          `json:"snap_token,omitempty"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	ShippingAddress  string          `json:"shipping_address"`
	Status           string          `json:"status"`
	Items            []OrderItem     `json:"items"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OrderItem est une ligne de commande. La quantité est un poids en kg,
// fractionnaire — tout le calcul passe par decimal, jamais par float.
type OrderItem struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	QuantityKg      decimal.Decimal `json:"quantity_kg"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// IsTerminalStatus indique si un statut ne doit plus jamais être écrasé.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}
