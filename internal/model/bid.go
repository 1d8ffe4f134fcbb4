package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is an immutable offer on an auction.  Rows in the `bids` table are
// only ever inserted; there is no update or delete path anywhere in the
// codebase.  The winning bid is not stored as a flag: it is derived by
// comparing the amount against the auction's current_bid column.
//
// Fields:
//  ID        – primary key identifier.
//  AuctionID – auction the bid was placed on.
//  BidderID  – user who placed the bid.
//  Amount    – offered amount.
//  CreatedAt – when the bid was accepted; history ordering key.
type Bid struct {
	ID        uint64          // bids.id
	AuctionID uint64          // bids.auction_id
	BidderID  uint64          // bids.bidder_id
	Amount    decimal.Decimal // bids.amount
	CreatedAt time.Time       // bids.created_at
}
