package queue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autostrada/auction-api/internal/model"
)

func TestOutbidNotification(t *testing.T) {
	ev := BidPlacedEvent{
		BidID:        11,
		AuctionID:    7,
		AuctionTitle: "1972 Alfa Romeo GTV",
		BidderID:     42,
		BidderMasked: "Giulia R.",
		Amount:       "10001.00",
		PlacedAt:     "2026-08-30T12:00:00Z",
	}

	kind, msg := outbidNotification(ev)
	require.Equal(t, model.NotificationOutbid, kind)
	require.Contains(t, msg, `"1972 Alfa Romeo GTV"`)
	require.Contains(t, msg, "10001.00")
}
