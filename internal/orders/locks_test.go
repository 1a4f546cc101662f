package orders

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefLocksSameReferenceSameStripe(t *testing.T) {
	var l refLocks

	mu := l.lock("ADAAYAM-1756500000000-ABCD1234")
	mu.Unlock()
	mu2 := l.lock("ADAAYAM-1756500000000-ABCD1234")
	mu2.Unlock()

	assert.Same(t, mu, mu2)
}

func TestRefLocksSerializeConcurrentHolders(t *testing.T) {
	var l refLocks
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu := l.lock("ADAAYAM-1756500000000-ABCD1234")
			defer mu.Unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}
