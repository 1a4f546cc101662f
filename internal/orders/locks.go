package orders

import (
	"hash/fnv"
	"sync"
)

// refLocks sérialise les lectures-modifications-écritures d'une même
// référence de paiement : la passerelle rejoue ses notifications et deux
// webhooks concurrents pour la même commande ne doivent pas s'entrelacer.
// Verrous en bandes, indexés par hachage de la référence.
type refLocks struct {
	stripes [64]sync.Mutex
}

func (l *refLocks) lock(reference string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(reference))
	mu := &l.stripes[h.Sum32()%uint32(len(l.stripes))]
	mu.Lock()
	return mu
}
