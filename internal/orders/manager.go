// Package orders est le cœur du système : création des commandes,
// acquisition du token de paiement, réconciliation des notifications de la
// passerelle et transitions de statut côté admin.
package orders

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"adaayam_back_end/internal/apperr"
	"adaayam_back_end/internal/models"
	"adaayam_back_end/internal/payment"
	"adaayam_back_end/internal/repository"
)

// LineRequest est une ligne de panier soumise au checkout. Le prix n'en
// fait volontairement pas partie : il est toujours relu du catalogue.
type LineRequest struct {
	ProductID  string          `json:"product_id"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
}

// Mailer envoie la confirmation de paiement. Optionnel (nil accepté).
type Mailer interface {
	SendOrderPaid(order models.Order, user models.User) error
}

// Manager orchestre le cycle de vie des commandes. Toutes ses dépendances
// sont injectées à la construction.
type Manager struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	gateway  payment.Gateway
	mailer   Mailer
	locks    refLocks
}

func NewManager(orders repository.OrderRepository, products repository.ProductRepository,
	users repository.UserRepository, gateway payment.Gateway, mailer Mailer) *Manager {
	return &Manager{
		orders:   orders,
		products: products,
		users:    users,
		gateway:  gateway,
		mailer:   mailer,
	}
}

// Create valide le panier, fige les prix depuis le catalogue, persiste la
// commande en PENDING_PAYMENT puis demande un Snap token à la passerelle.
// Si la passerelle échoue, la commande persiste sans token : elle reste
// réconciliable par sa référence et l'appelant peut redemander un token,
// d'où le GatewayUnavailable qui porte l'identifiant de la commande.
func (m *Manager) Create(ctx context.Context, identity models.Identity, lines []LineRequest, shippingAddress string) (*models.Order, error) {
	if identity.UserID == "" {
		return nil, apperr.Unauthenticated("utilisateur non authentifié")
	}
	if len(lines) == 0 {
		return nil, apperr.InvalidArgument("le panier ne peut pas être vide")
	}
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, apperr.InvalidArgument("l'adresse de livraison ne peut pas être vide")
	}

	buyer, err := m.users.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	// Fige les prix catalogue au moment de la commande. Jamais de prix
	// fourni par le client. Tout doit être valide avant la moindre
	// écriture : aucune commande partielle.
	var items []models.OrderItem
	total := decimal.Zero
	for _, line := range lines {
		if !line.QuantityKg.IsPositive() {
			return nil, apperr.InvalidArgument("quantité invalide pour le produit %s", line.ProductID)
		}

		product, err := m.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.StockKg.LessThan(line.QuantityKg) {
			return nil, apperr.InvalidArgument("stock insuffisant pour %s (%s kg disponibles)",
				product.Name, product.StockKg.String())
		}

		subtotal := product.PricePerKg.Mul(line.QuantityKg)
		total = total.Add(subtotal)
		items = append(items, models.OrderItem{
			ProductID:       product.ID,
			ProductName:     product.Name,
			QuantityKg:      line.QuantityKg,
			PriceAtPurchase: product.PricePerKg,
			Subtotal:        subtotal,
		})
	}

	now := time.Now()
	order := &models.Order{
		ID:               uuid.NewString(),
		UserID:           identity.UserID,
		PaymentReference: newPaymentReference(),
		TotalAmount:      total,
		ShippingAddress:  shippingAddress,
		Status:           models.StatusPendingPayment,
		Items:            items,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := m.orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	log.Printf("🧾 Commande %s créée (%s, total %s)", order.ID, order.PaymentReference, total.String())

	token, err := m.gateway.CreateSnapToken(ctx, order.PaymentReference, grossAmount(total), payment.Customer{
		FullName: buyer.FullName,
		Email:    buyer.Email,
		Phone:    phoneOrDefault(buyer.PhoneNumber),
	})
	if err != nil {
		// La commande existe déjà et doit le rester : on ne la détruit
		// pas, on signale seulement que le token est à redemander.
		log.Printf("⚠️ Token de paiement indisponible pour %s: %v", order.PaymentReference, err)
		return order, apperr.GatewayUnavailable(order.ID,
			"passerelle de paiement indisponible, commande %s en attente de token", order.ID)
	}

	if err := m.orders.SetSnapToken(ctx, order.ID, token); err != nil {
		return order, err
	}
	order.SnapToken = token

	return order, nil
}

// RequestToken redemande un Snap token pour une commande persistée sans
// token (cas passerelle indisponible au checkout). Idempotent : si le
// token existe déjà, il est simplement retourné.
func (m *Manager) RequestToken(ctx context.Context, identity models.Identity, orderID string) (*models.Order, error) {
	order, err := m.Get(ctx, identity, orderID)
	if err != nil {
		return nil, err
	}
	if order.SnapToken != "" {
		return order, nil
	}
	if order.Status != models.StatusPendingPayment {
		return nil, apperr.InvalidArgument("la commande %s n'attend plus de paiement", orderID)
	}

	buyer, err := m.users.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}

	token, err := m.gateway.CreateSnapToken(ctx, order.PaymentReference, grossAmount(order.TotalAmount), payment.Customer{
		FullName: buyer.FullName,
		Email:    buyer.Email,
		Phone:    phoneOrDefault(buyer.PhoneNumber),
	})
	if err != nil {
		return nil, apperr.GatewayUnavailable(order.ID,
			"passerelle de paiement indisponible, commande %s en attente de token", order.ID)
	}

	if err := m.orders.SetSnapToken(ctx, order.ID, token); err != nil {
		return nil, err
	}
	order.SnapToken = token
	return order, nil
}

// Reconcile vérifie une notification de la passerelle puis applique la
// transition de statut correspondante. Le payload est hostile tant que la
// vérification n'a pas abouti. L'opération est idempotente et sérialisée
// par référence de paiement.
func (m *Manager) Reconcile(ctx context.Context, rawPayload []byte) error {
	notif, err := m.gateway.VerifyNotification(ctx, rawPayload)
	if err != nil {
		return err
	}
	log.Printf("📥 Notification vérifiée: ref=%s status=%s fraud=%s",
		notif.Reference, notif.TransactionStatus, notif.FraudStatus)

	mu := m.locks.lock(notif.Reference)
	defer mu.Unlock()

	order, err := m.orders.GetByReference(ctx, notif.Reference)
	if err != nil {
		return err
	}

	next, changed := nextStatusForNotification(order.Status, notif.TransactionStatus, notif.FraudStatus)
	if !changed {
		log.Printf("ℹ️ Notification sans effet pour %s (statut %s)", notif.Reference, order.Status)
		return nil
	}

	if err := m.orders.UpdateStatus(ctx, order.ID, next); err != nil {
		return err
	}
	log.Printf("✅ Commande %s: %s → %s", order.ID, order.Status, next)
	order.Status = next

	if next == models.StatusPaid {
		m.notifyPaid(*order)
	}

	return nil
}

// AdminSetStatus applique une transition demandée par un administrateur.
func (m *Manager) AdminSetStatus(ctx context.Context, identity models.Identity, orderID, requestedStatus string) (*models.Order, error) {
	if !identity.IsAdmin() {
		return nil, apperr.Forbidden("accès réservé aux administrateurs")
	}
	if !AdminCanSet(requestedStatus) {
		return nil, apperr.InvalidArgument("statut invalide: %s", requestedStatus)
	}

	order, err := m.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Même verrou que la réconciliation : un webhook et un admin ne
	// doivent pas entrelacer leurs écritures sur la même commande.
	mu := m.locks.lock(order.PaymentReference)
	defer mu.Unlock()

	order, err = m.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !adminTransitionAllowed(order.Status, requestedStatus) {
		return nil, apperr.InvalidArgument("transition %s → %s refusée", order.Status, requestedStatus)
	}

	if order.Status != requestedStatus {
		if err := m.orders.UpdateStatus(ctx, order.ID, requestedStatus); err != nil {
			return nil, err
		}
		log.Printf("✅ Commande %s: %s → %s (admin %s)", order.ID, order.Status, requestedStatus, identity.UserID)
		order.Status = requestedStatus
	}

	return order, nil
}

// Get retourne une commande visible par l'appelant : son propriétaire ou
// un administrateur. Pour tout autre appelant elle est introuvable.
func (m *Manager) Get(ctx context.Context, identity models.Identity, orderID string) (*models.Order, error) {
	if identity.UserID == "" {
		return nil, apperr.Unauthenticated("utilisateur non authentifié")
	}

	order, err := m.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != identity.UserID && !identity.IsAdmin() {
		return nil, apperr.NotFound("commande introuvable: %s", orderID)
	}
	return order, nil
}

// ListByUser retourne l'historique de commandes de l'appelant.
func (m *Manager) ListByUser(ctx context.Context, identity models.Identity) ([]models.Order, error) {
	if identity.UserID == "" {
		return nil, apperr.Unauthenticated("utilisateur non authentifié")
	}
	return m.orders.ListByUser(ctx, identity.UserID)
}

// ListAll retourne toutes les commandes (back-office).
func (m *Manager) ListAll(ctx context.Context, identity models.Identity) ([]models.Order, error) {
	if !identity.IsAdmin() {
		return nil, apperr.Forbidden("accès réservé aux administrateurs")
	}
	return m.orders.ListAll(ctx)
}

func (m *Manager) notifyPaid(order models.Order) {
	if m.mailer == nil {
		return
	}
	go func() {
		buyer, err := m.users.GetByID(context.Background(), order.UserID)
		if err != nil {
			log.Printf("❌ Acheteur introuvable pour l'e-mail de confirmation: %v", err)
			return
		}
		if err := m.mailer.SendOrderPaid(order, *buyer); err != nil {
			log.Printf("❌ Erreur envoi e-mail confirmation: %v", err)
		} else {
			log.Printf("📧 E-mail de confirmation envoyé à %s", buyer.Email)
		}
	}()
}

// newPaymentReference génère la référence visible par la passerelle :
// horodatage en millisecondes plus suffixe aléatoire, jamais réutilisée.
func newPaymentReference() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ADAAYAM-%d-%s", time.Now().UnixMilli(), suffix)
}

// grossAmount arrondit le total en roupies entières pour la passerelle.
func grossAmount(total decimal.Decimal) int64 {
	return total.Round(0).IntPart()
}

func phoneOrDefault(phone string) string {
	if phone == "" {
		return "N/A"
	}
	return phone
}
