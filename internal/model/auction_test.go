package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPendingApproval, StatusScheduled},
		{StatusPendingApproval, StatusRejected},
		{StatusPendingApproval, StatusCancelled},
		{StatusScheduled, StatusActive},
		{StatusScheduled, StatusCancelled},
		{StatusActive, StatusEnded},
		{StatusActive, StatusSold},
	}
	for _, tc := range legal {
		require.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be legal", tc.from, tc.to)
	}

	all := []Status{
		StatusPendingApproval, StatusScheduled, StatusActive,
		StatusEnded, StatusRejected, StatusSold, StatusCancelled,
	}

	// The lifecycle is strictly forward: no legal move may ever be
	// reversible, and no state may transition to itself.
	for _, from := range all {
		require.False(t, from.CanTransitionTo(from), "%s -> %s must be illegal", from, from)
		for _, to := range all {
			if from.CanTransitionTo(to) {
				require.False(t, to.CanTransitionTo(from),
					"%s -> %s is legal, so the reverse must not be", from, to)
			}
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{StatusEnded, StatusRejected, StatusSold, StatusCancelled} {
		require.True(t, s.Terminal(), "%s should be terminal", s)
	}
	for _, s := range []Status{StatusPendingApproval, StatusScheduled, StatusActive} {
		require.False(t, s.Terminal(), "%s should not be terminal", s)
	}
}

func TestStatusValid(t *testing.T) {
	require.True(t, StatusActive.Valid())
	require.False(t, Status("DRAFT").Valid())
	require.False(t, Status("").Valid())
}

func TestBiddable(t *testing.T) {
	now := time.Now().UTC()
	a := &Auction{
		Status:   StatusActive,
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
	}
	require.True(t, a.Biddable(now))

	// Open boundary is inclusive, close boundary exclusive.
	require.True(t, a.Biddable(a.StartsAt))
	require.False(t, a.Biddable(a.EndsAt))

	a.Status = StatusScheduled
	require.False(t, a.Biddable(now))
}

func TestMinimumBid(t *testing.T) {
	starting := decimal.RequireFromString("5000.00")

	a := &Auction{StartingPrice: starting}
	require.True(t, a.MinimumBid().Equal(starting), "no bids yet: minimum is the starting price")

	cb := decimal.RequireFromString("10000.00")
	a.CurrentBid = &cb
	require.Equal(t, "10001.00", a.MinimumBid().StringFixed(2))

	// A current bid below starting (possible only through bad data)
	// never lowers the minimum under the starting price.
	low := decimal.RequireFromString("100.00")
	a.CurrentBid = &low
	require.True(t, a.MinimumBid().Equal(starting))
}
