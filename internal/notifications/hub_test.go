package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sunseeker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishFansOutToAllClients(t *testing.T) {
	hub := NewHub()

	clientA, err := hub.Register(nil)
	require.NoError(t, err)
	clientB, err := hub.Register(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, hub.ConnectionCount())

	hub.Publish(Event{
		Type:      EventRequestSubmitted,
		RequestID: 42,
		Status:    models.RequestStatusPending,
		At:        time.Now(),
	})

	for _, client := range []*Client{clientA, clientB} {
		select {
		case data := <-client.Send:
			var event Event
			require.NoError(t, json.Unmarshal(data, &event))
			assert.Equal(t, EventRequestSubmitted, event.Type)
			assert.Equal(t, uint(42), event.RequestID)
			assert.Equal(t, models.RequestStatusPending, event.Status)
		default:
			t.Fatal("expected a queued event")
		}
	}
}

func TestHub_UnregisteredClientReceivesNothing(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(nil)
	require.NoError(t, err)
	hub.UnregisterClient(client)
	assert.Equal(t, 0, hub.ConnectionCount())

	hub.Publish(Event{Type: EventRequestVerified, RequestID: 7})

	select {
	case <-client.Send:
		t.Fatal("unregistered client should not receive events")
	default:
	}
}

func TestHub_ConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConns; i++ {
		_, err := hub.Register(nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(nil)
	assert.Error(t, err)
}

func TestHub_SlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(nil)
	require.NoError(t, err)

	// Fill the buffer without draining it; publishing past capacity must
	// return promptly.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < cap(client.Send)+10; i++ {
			hub.Publish(Event{Type: EventRequestSubmitted, RequestID: uint(i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow client")
	}
	assert.Len(t, client.Send, cap(client.Send))
}

func TestHub_Shutdown(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.Equal(t, 0, hub.ConnectionCount())

	// Sending after shutdown is a drop, not a panic.
	client.TrySend([]byte("late"))
}
