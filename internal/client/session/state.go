// Package session holds the process-wide session objects that the client
// components share: the observable PIN/unlock state and the logout epoch.
//
// Both are constructed once at start-up and passed to whoever needs them.
// They are never torn down; logout resets them through the credential store
// and Increment.
package session

import (
	"sort"
	"sync"
)

// Snapshot is an immutable view of the session state.
type Snapshot struct {
	PinSet   bool
	Unlocked bool
}

// State is a small observable store. Every mutation notifies all
// subscribers synchronously, before the mutating call returns, with the
// snapshot it produced.
type State struct {
	mu        sync.Mutex
	snap      Snapshot
	nextID    uint64
	listeners map[uint64]func(Snapshot)
}

func NewState() *State {
	return &State{listeners: make(map[uint64]func(Snapshot))}
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (s *State) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *State) SetPinSet(v bool) {
	s.update(func(snap *Snapshot) { snap.PinSet = v })
}

func (s *State) SetUnlocked(v bool) {
	s.update(func(snap *Snapshot) { snap.Unlocked = v })
}

// Reset returns the state to {PinSet: false, Unlocked: false}.
func (s *State) Reset() {
	s.update(func(snap *Snapshot) { *snap = Snapshot{} })
}

func (s *State) update(mutate func(*Snapshot)) {
	s.mu.Lock()
	mutate(&s.snap)
	snap := s.snap

	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	// Listeners may read or mutate the state again.
	for _, fn := range fns {
		fn(snap)
	}
}
