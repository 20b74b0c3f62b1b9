package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_NotifiesSynchronously(t *testing.T) {
	s := NewState()

	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })
	defer unsubscribe()

	s.SetPinSet(true)
	require.Len(t, got, 1, "listener must run before SetPinSet returns")
	assert.Equal(t, Snapshot{PinSet: true}, got[0])

	s.SetUnlocked(true)
	require.Len(t, got, 2)
	assert.Equal(t, Snapshot{PinSet: true, Unlocked: true}, got[1])

	s.Reset()
	require.Len(t, got, 3)
	assert.Equal(t, Snapshot{}, got[2])
	assert.Equal(t, Snapshot{}, s.Snapshot())
}

func TestState_NotifiesEverySubscriberInOrder(t *testing.T) {
	s := NewState()

	var order []string
	s.Subscribe(func(Snapshot) { order = append(order, "first") })
	s.Subscribe(func(Snapshot) { order = append(order, "second") })

	s.SetUnlocked(false)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestState_Unsubscribe(t *testing.T) {
	s := NewState()

	calls := 0
	unsubscribe := s.Subscribe(func(Snapshot) { calls++ })

	s.SetPinSet(true)
	unsubscribe()
	unsubscribe()
	s.SetPinSet(false)

	assert.Equal(t, 1, calls)
}

func TestState_ListenerMayMutate(t *testing.T) {
	s := NewState()

	s.Subscribe(func(snap Snapshot) {
		if snap.Unlocked && !snap.PinSet {
			s.SetUnlocked(false)
		}
	})

	s.SetUnlocked(true)
	assert.Equal(t, Snapshot{}, s.Snapshot())
}

func TestState_ConcurrentMutationsAreSafe(t *testing.T) {
	s := NewState()
	s.Subscribe(func(Snapshot) {})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.SetPinSet(i%2 == 0)
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()
}

func TestEpoch(t *testing.T) {
	var e Epoch
	start := e.Current()
	assert.True(t, e.IsCurrent(start))

	next := e.Increment()
	assert.Equal(t, start+1, next)
	assert.False(t, e.IsCurrent(start))
	assert.True(t, e.IsCurrent(next))
}
