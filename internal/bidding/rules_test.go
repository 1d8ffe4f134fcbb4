package bidding

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/autostrada/auction-api/internal/model"
)

func activeAuction(sellerID uint64, starting string, current *string) *model.Auction {
	now := time.Now().UTC()
	a := &model.Auction{
		ID:            1,
		SellerID:      &sellerID,
		StartingPrice: decimal.RequireFromString(starting),
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
		Status:        model.StatusActive,
	}
	if current != nil {
		cb := decimal.RequireFromString(*current)
		a.CurrentBid = &cb
	}
	return a
}

func str(s string) *string { return &s }

func TestValidate(t *testing.T) {
	now := time.Now().UTC()
	const seller = uint64(7)
	const buyer = uint64(42)

	tests := []struct {
		name    string
		auction *model.Auction
		bidder  uint64
		amount  string
		wantErr error
	}{
		{
			name:    "first_bid_at_starting_price",
			auction: activeAuction(seller, "5000.00", nil),
			bidder:  buyer,
			amount:  "5000.00",
		},
		{
			name:    "first_bid_below_starting_price",
			auction: activeAuction(seller, "5000.00", nil),
			bidder:  buyer,
			amount:  "4999.99",
			wantErr: ErrBidTooLow,
		},
		{
			name:    "outbid_by_minimum_increment",
			auction: activeAuction(seller, "5000.00", str("10000.00")),
			bidder:  buyer,
			amount:  "10001.00",
		},
		{
			name:    "equal_to_current_bid_rejected",
			auction: activeAuction(seller, "5000.00", str("10000.00")),
			bidder:  buyer,
			amount:  "10000.00",
			wantErr: ErrBidTooLow,
		},
		{
			name:    "below_current_bid_rejected",
			auction: activeAuction(seller, "5000.00", str("10000.00")),
			bidder:  buyer,
			amount:  "9999.00",
			wantErr: ErrBidTooLow,
		},
		{
			name:    "increment_short_of_one_unit_rejected",
			auction: activeAuction(seller, "5000.00", str("10000.00")),
			bidder:  buyer,
			amount:  "10000.50",
			wantErr: ErrBidTooLow,
		},
		{
			name:    "seller_cannot_bid_on_own_auction",
			auction: activeAuction(seller, "5000.00", str("10000.00")),
			bidder:  seller,
			amount:  "10001.00",
			wantErr: ErrSelfBid,
		},
		{
			name:    "zero_amount",
			auction: activeAuction(seller, "5000.00", nil),
			bidder:  buyer,
			amount:  "0",
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative_amount",
			auction: activeAuction(seller, "5000.00", nil),
			bidder:  buyer,
			amount:  "-10",
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.auction, tc.bidder, decimal.RequireFromString(tc.amount), now)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidateLifecycleGates(t *testing.T) {
	now := time.Now().UTC()
	buyer := uint64(42)
	amount := decimal.RequireFromString("6000.00")

	t.Run("scheduled_auction_not_biddable", func(t *testing.T) {
		a := activeAuction(7, "5000.00", nil)
		a.Status = model.StatusScheduled
		require.ErrorIs(t, Validate(a, buyer, amount, now), ErrAuctionNotActive)
	})

	t.Run("active_but_window_ended", func(t *testing.T) {
		a := activeAuction(7, "5000.00", nil)
		a.EndsAt = now.Add(-time.Minute)
		require.ErrorIs(t, Validate(a, buyer, amount, now), ErrAuctionNotActive)
	})

	t.Run("active_but_window_not_open", func(t *testing.T) {
		a := activeAuction(7, "5000.00", nil)
		a.StartsAt = now.Add(time.Minute)
		require.ErrorIs(t, Validate(a, buyer, amount, now), ErrAuctionNotActive)
	})

	t.Run("bid_at_exact_end_instant_rejected", func(t *testing.T) {
		a := activeAuction(7, "5000.00", nil)
		a.EndsAt = now
		require.ErrorIs(t, Validate(a, buyer, amount, now), ErrAuctionNotActive)
	})
}

// Mirrors a full bidding exchange: one buyer holds the lead at 10000,
// rival attempts at 9999 and 10000 fail, 10001 takes the lead, and the
// seller is locked out throughout.
func TestValidateBiddingExchange(t *testing.T) {
	now := time.Now().UTC()
	const seller = uint64(1)
	const rival = uint64(2)

	a := activeAuction(seller, "5000.00", str("10000.00"))

	require.ErrorIs(t, Validate(a, rival, decimal.RequireFromString("9999.00"), now), ErrBidTooLow)
	require.ErrorIs(t, Validate(a, rival, decimal.RequireFromString("10000.00"), now), ErrBidTooLow)
	require.NoError(t, Validate(a, rival, decimal.RequireFromString("10001.00"), now))
	require.ErrorIs(t, Validate(a, seller, decimal.RequireFromString("10001.00"), now), ErrSelfBid)

	err := Validate(a, rival, decimal.RequireFromString("10000.99"), now)
	require.True(t, errors.Is(err, ErrBidTooLow))
	require.Contains(t, err.Error(), "10001.00")
}
