// Package payment isole le client de la passerelle de paiement derrière
// une interface injectable dans le gestionnaire de commandes.
package payment

import "context"

// Customer porte les coordonnées de l'acheteur transmises à la passerelle.
type Customer struct {
	FullName string
	Email    string
	Phone    string
}

// Notification est le résultat vérifié d'une notification asynchrone.
// Tant que VerifyNotification n'a pas répondu, le payload brut est
// considéré comme hostile et aucun de ses champs ne doit être utilisé.
type Notification struct {
	Reference         string
	TransactionStatus string
	FraudStatus       string
}

// Gateway est la frontière avec la passerelle de paiement.
type Gateway interface {
	// CreateSnapToken demande un token de session de paiement pour une
	// référence de commande et un montant brut (roupies entières).
	CreateSnapToken(ctx context.Context, reference string, grossAmount int64, customer Customer) (string, error)

	// VerifyNotification authentifie un payload de notification et
	// retourne le statut faisant foi.
	VerifyNotification(ctx context.Context, payload []byte) (*Notification, error)
}
