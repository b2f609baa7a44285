package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyAchievement_NoClientsIsSafe(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() {
		hub.NotifyAchievement(1, "First Steps", "Complete your first workout", 50)
	})
}

func TestNotifyAchievement_DeliversToUserClientsOnly(t *testing.T) {
	hub := NewHub()
	mine := &client{send: make(chan Event, 16)}
	other := &client{send: make(chan Event, 16)}
	hub.register(7, mine)
	hub.register(8, other)

	hub.NotifyAchievement(7, "First Steps", "Complete your first workout", 50)

	require.Len(t, mine.send, 1)
	event := <-mine.send
	assert.Equal(t, "achievement_unlocked", event.Type)
	assert.Equal(t, "First Steps", event.Name)
	assert.Equal(t, 50, event.XPReward)
	assert.Empty(t, other.send)
}

func TestNotifyAchievement_AfterDisconnectTeardown(t *testing.T) {
	hub := NewHub()
	cl := &client{send: make(chan Event, 1)}
	hub.register(7, cl)

	// The teardown order Serve uses: unregister under the lock, then close.
	// A notification arriving after that must neither panic nor deliver.
	hub.unregister(7, cl)
	close(cl.send)

	assert.NotPanics(t, func() {
		hub.NotifyAchievement(7, "First Steps", "Complete your first workout", 50)
	})
}

func TestNotifyAchievement_FullBufferDrops(t *testing.T) {
	hub := NewHub()
	cl := &client{send: make(chan Event, 1)}
	hub.register(5, cl)

	hub.NotifyAchievement(5, "First Steps", "", 50)

	// The buffer is full and nothing is draining it; the second send must
	// drop rather than block the caller.
	done := make(chan struct{})
	go func() {
		hub.NotifyAchievement(5, "Regular", "", 100)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("NotifyAchievement blocked on a full client buffer")
	}

	assert.Len(t, cl.send, 1)
}

func TestNotifyAchievement_ConcurrentWithDisconnects(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		cl := &client{send: make(chan Event, 4)}
		hub.register(3, cl)

		wg.Add(2)
		go func(cl *client) {
			defer wg.Done()
			hub.unregister(3, cl)
			close(cl.send)
		}(cl)
		go func() {
			defer wg.Done()
			hub.NotifyAchievement(3, "Regular", "", 100)
		}()
	}
	wg.Wait()
}
