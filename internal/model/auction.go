package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates the lifecycle states of an auction.  Transitions are
// one-directional: once an auction leaves a state it can never return to
// it, and the terminal states (REJECTED, ENDED, SOLD, CANCELLED) have no
// outgoing transitions at all.
type Status string

const (
	StatusPendingApproval Status = "PENDING_APPROVAL" // submitted, awaiting admin review
	StatusScheduled       Status = "SCHEDULED"        // approved, not yet inside its time window
	StatusActive          Status = "ACTIVE"           // open for bidding
	StatusEnded           Status = "ENDED"            // closed without a sale
	StatusRejected        Status = "REJECTED"         // declined by an admin, with a reason
	StatusSold            Status = "SOLD"             // closed with a winning bid
	StatusCancelled       Status = "CANCELLED"        // withdrawn by the seller before going live
)

// transitions is the closed set of legal status moves.  Anything not
// listed here is forbidden, which keeps the lifecycle strictly forward.
var transitions = map[Status][]Status{
	StatusPendingApproval: {StatusScheduled, StatusRejected, StatusCancelled},
	StatusScheduled:       {StatusActive, StatusCancelled},
	StatusActive:          {StatusEnded, StatusSold},
	StatusEnded:           {},
	StatusRejected:        {},
	StatusSold:            {},
	StatusCancelled:       {},
}

// Valid reports whether s is a known auction status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether moving from s to target is a legal
// lifecycle step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Biddable reports whether the auction accepts bids at the given instant.
// Only ACTIVE auctions inside their time window are biddable.
func (a *Auction) Biddable(now time.Time) bool {
	return a.Status == StatusActive && !now.Before(a.StartsAt) && now.Before(a.EndsAt)
}

// MinimumBid returns the smallest acceptable bid amount: the starting
// price when no bid exists yet, otherwise the current bid plus a flat
// one-unit increment.
func (a *Auction) MinimumBid() decimal.Decimal {
	if a.CurrentBid == nil {
		return a.StartingPrice
	}
	min := a.CurrentBid.Add(decimal.NewFromInt(1))
	if min.LessThan(a.StartingPrice) {
		return a.StartingPrice
	}
	return min
}

// Auction represents a sellable vehicle listing with a time window and a
// monotonically non-decreasing current bid.  This struct corresponds to a
// row in the `auctions` table.
//
// Fields:
//  ID              – primary key identifier.
//  SellerID        – user ID of the seller.  Nullable: when a seller with
//                    only finished auctions is deleted, the reference is
//                    cleared but the auction row is preserved.
//  Title           – listing headline.
//  Description     – free-form listing text.
//  StartingPrice   – minimum opening bid.
//  CurrentBid      – highest accepted bid so far (nil until the first bid).
//  ReservePrice    – optional price below which the vehicle will not sell.
//  StartsAt        – beginning of the bidding window.
//  EndsAt          – end of the bidding window (strictly after StartsAt).
//  Status          – lifecycle state, see Status.
//  RejectionReason – populated only when Status is REJECTED.
//  BidCount        – number of accepted bids.
//  SubmittedAt     – when the seller submitted the listing.
//  ApprovedAt      – when an admin approved it (nil until then).
type Auction struct {
	ID              uint64           // auctions.id
	SellerID        *uint64          // auctions.seller_id (nullable)
	Title           string           // auctions.title
	Description     string           // auctions.description
	StartingPrice   decimal.Decimal  // auctions.starting_price
	CurrentBid      *decimal.Decimal // auctions.current_bid (nullable)
	ReservePrice    *decimal.Decimal // auctions.reserve_price (nullable)
	StartsAt        time.Time        // auctions.starts_at
	EndsAt          time.Time        // auctions.ends_at
	Status          Status           // auctions.status
	RejectionReason *string          // auctions.rejection_reason (nullable)
	BidCount        uint32           // auctions.bid_count
	SubmittedAt     time.Time        // auctions.submitted_at
	ApprovedAt      *time.Time       // auctions.approved_at (nullable)
	CreatedAt       time.Time        // auctions.created_at
	UpdatedAt       time.Time        // auctions.updated_at
}
