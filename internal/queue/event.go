// Package queue defines message payloads exchanged over the message broker.
package queue

// BidPlacedEvent is published after a bid commits.  It carries enough
// information for downstream consumers to write outbid notifications and
// audit logs without querying the primary database for the bid itself.
// Amount is a fixed two-decimal string to avoid float drift in transit.
type BidPlacedEvent struct {
	BidID        uint64 `json:"bid_id"`
	AuctionID    uint64 `json:"auction_id"`
	AuctionTitle string `json:"auction_title"`
	BidderID     uint64 `json:"bidder_id"`
	BidderMasked string `json:"bidder_masked"`
	Amount       string `json:"amount"`
	PlacedAt     string `json:"placed_at"`
}
