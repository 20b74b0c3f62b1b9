package gate

import "sync"

// OfferTracker remembers whether the biometric enrollment offer was shown
// during the current unlocked session. It is never persisted; locking or
// logging out clears it, so the offer returns after the next unlock.
type OfferTracker struct {
	mu      sync.Mutex
	offered bool
}

func (o *OfferTracker) Offered() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.offered
}

func (o *OfferTracker) MarkOffered() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.offered = true
}

func (o *OfferTracker) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.offered = false
}
