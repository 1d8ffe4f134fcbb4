package lifecycle

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/autostrada/auction-api/internal/model"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestFinalStatus(t *testing.T) {
	tests := []struct {
		name    string
		auction *model.Auction
		want    model.Status
	}{
		{
			name:    "no_bids_ends_unsold",
			auction: &model.Auction{},
			want:    model.StatusEnded,
		},
		{
			name: "bids_no_reserve_sells",
			auction: &model.Auction{
				BidCount:   3,
				CurrentBid: dec("10001.00"),
			},
			want: model.StatusSold,
		},
		{
			name: "reserve_met_sells",
			auction: &model.Auction{
				BidCount:     3,
				CurrentBid:   dec("12000.00"),
				ReservePrice: dec("12000.00"),
			},
			want: model.StatusSold,
		},
		{
			name: "reserve_not_met_ends_unsold",
			auction: &model.Auction{
				BidCount:     3,
				CurrentBid:   dec("11999.99"),
				ReservePrice: dec("12000.00"),
			},
			want: model.StatusEnded,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FinalStatus(tc.auction))
		})
	}
}
