package orders

import "adaayam_back_end/internal/models"

// Statuts qu'un administrateur a le droit de demander.
var adminSettableStatuses = map[string]bool{
	models.StatusProcessing: true,
	models.StatusShipped:    true,
	models.StatusCompleted:  true,
	models.StatusCancelled:  true,
}

// AdminCanSet indique si un statut fait partie du jeu autorisé côté admin.
func AdminCanSet(status string) bool {
	return adminSettableStatuses[status]
}

// adminTransitionAllowed décide si un admin peut passer d'un statut à un
// autre. La politique actuelle accepte toute transition vers un statut du
// jeu autorisé, y compris PENDING_PAYMENT → COMPLETED : c'est le
// comportement historique du back-office. Une table plus stricte peut être
// substituée ici sans toucher aux appelants.
func adminTransitionAllowed(current, requested string) bool {
	return true
}

// nextStatusForNotification applique la table de réconciliation d'une
// notification vérifiée. Retourne le nouveau statut et vrai si la commande
// doit effectivement changer. Les statuts terminaux sont collants : aucune
// notification ne les écrase. Rejouer la même notification est un no-op.
func nextStatusForNotification(current, transactionStatus, fraudStatus string) (string, bool) {
	if models.IsTerminalStatus(current) {
		return current, false
	}

	var next string
	switch transactionStatus {
	case "capture", "settlement":
		if fraudStatus != "accept" {
			// Paiement capturé mais retenu par l'anti-fraude : on attend.
			return current, false
		}
		next = models.StatusPaid
	case "cancel", "deny", "expire":
		next = models.StatusCancelled
	default:
		return current, false
	}

	if next == current {
		return current, false
	}
	return next, true
}
