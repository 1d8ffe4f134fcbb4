package model

import "time"

// Notification kinds produced by the system.  Kinds are stable strings
// so that clients can branch on them.
const (
	NotificationOutbid          = "OUTBID"           // another buyer placed a higher bid
	NotificationAuctionApproved = "AUCTION_APPROVED" // admin approved a submission
	NotificationAuctionRejected = "AUCTION_REJECTED" // admin rejected a submission
	NotificationAuctionClosed   = "AUCTION_CLOSED"   // time window ended
	NotificationAuctionWon      = "AUCTION_WON"      // caller holds the winning bid
)

// Notification is a per-user inbox entry.  Rows are written by the
// approval handlers, the lifecycle sweeper and the bid event consumer,
// and read through the profile endpoints.
type Notification struct {
	ID        uint64    // notifications.id
	UserID    uint64    // notifications.user_id
	Kind      string    // notifications.kind
	AuctionID *uint64   // notifications.auction_id (nullable)
	Message   string    // notifications.message
	IsRead    bool      // notifications.is_read
	CreatedAt time.Time // notifications.created_at
}
