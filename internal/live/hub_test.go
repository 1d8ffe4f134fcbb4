package live

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastReachesGroupOnly(t *testing.T) {
	h := NewHub()
	chA, cancelA := h.Subscribe(1)
	defer cancelA()
	chB, cancelB := h.Subscribe(2)
	defer cancelB()

	ev := NewBidEvent(1, decimal.RequireFromString("10001.00"), "Giulia R.", time.Now())
	h.Broadcast(ev)

	select {
	case got := <-chA:
		require.Equal(t, "bid", got.Type)
		require.Equal(t, uint64(1), got.AuctionID)
		require.Equal(t, "10001.00", got.Amount)
		require.Equal(t, "Giulia R.", got.Bidder)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event")
	}

	select {
	case ev := <-chB:
		t.Fatalf("auction 2 subscriber received foreign event: %+v", ev)
	default:
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe(1)
	require.Equal(t, 1, h.Subscribers(1))

	cancel()
	cancel() // idempotent
	require.Equal(t, 0, h.Subscribers(1))

	_, open := <-ch
	require.False(t, open, "channel must be closed after unsubscribe")

	// Broadcasting into an empty group is a no-op.
	h.Broadcast(NewClosedEvent(1, "SOLD", time.Now()))
}

func TestHubDropsWhenSubscriberStalls(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe(1)
	defer cancel()

	// Never drain: the buffer fills and later events are dropped
	// instead of blocking the broadcaster.
	for i := 0; i < subscriberBuffer*2; i++ {
		done := make(chan struct{})
		go func() {
			h.Broadcast(NewClosedEvent(1, "ENDED", time.Now()))
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("broadcast blocked on a stalled subscriber")
		}
	}
	require.Len(t, ch, subscriberBuffer)
}

func TestClosedEventPayload(t *testing.T) {
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ev := NewClosedEvent(9, "SOLD", at)
	require.Equal(t, "closed", ev.Type)
	require.Equal(t, uint64(9), ev.AuctionID)
	require.Equal(t, "SOLD", ev.Status)
	require.Equal(t, "2026-08-30T12:00:00Z", ev.Timestamp)
	require.Empty(t, ev.Amount)
}
