// Package bidding contains the acceptance rules for placing a bid.  The
// rules are pure functions over an auction snapshot so that handlers can
// run them inside a transaction while tests exercise them directly.
package bidding

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/autostrada/auction-api/internal/model"
)

// Sentinel errors returned by Validate.  Handlers translate these into
// HTTP responses: ErrAuctionNotActive, ErrSelfBid, ErrBidTooLow and
// ErrInvalidAmount map to 400.
var (
	ErrAuctionNotActive = errors.New("auction is not open for bidding")
	ErrSelfBid          = errors.New("sellers cannot bid on their own auction")
	ErrBidTooLow        = errors.New("bid is below the minimum acceptable amount")
	ErrInvalidAmount    = errors.New("bid amount must be positive")
)

// Validate applies the business rules for a proposed bid against the
// auction state read under lock.  It returns nil when the bid may be
// accepted.  Rules, in order:
//
//  1. The amount must be a positive number.
//  2. The auction must be ACTIVE and `now` must fall inside its window.
//  3. The bidder must not be the auction's seller.
//  4. The amount must be at least max(currentBid + 1, startingPrice);
//     the minimum increment is a flat unit, not a percentage.
func Validate(a *model.Auction, bidderID uint64, amount decimal.Decimal, now time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !a.Biddable(now) {
		return ErrAuctionNotActive
	}
	if a.SellerID != nil && *a.SellerID == bidderID {
		return ErrSelfBid
	}
	if min := a.MinimumBid(); amount.LessThan(min) {
		return fmt.Errorf("%w: minimum is %s", ErrBidTooLow, min.StringFixed(2))
	}
	return nil
}
