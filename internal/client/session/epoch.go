package session

import "sync/atomic"

// Epoch counts teardowns. Work started under one epoch must not publish its
// result once the epoch has moved on.
type Epoch struct {
	n atomic.Uint64
}

func (e *Epoch) Current() uint64 {
	return e.n.Load()
}

func (e *Epoch) Increment() uint64 {
	return e.n.Add(1)
}

func (e *Epoch) IsCurrent(v uint64) bool {
	return e.n.Load() == v
}
