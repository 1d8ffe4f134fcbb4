// Package live implements the real-time bid broadcast channel.  Each
// auction has a logical group of subscribers; accepted bids and close
// events are fanned out to every member of the group.  Delivery is best
// effort: there is no replay for late joiners (clients fetch bid history
// over REST) and subscribers that stop draining their channel lose
// events rather than stalling the publisher.
package live

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Event is one message pushed to an auction's group.
type Event struct {
	Type      string `json:"type"` // "bid" or "closed"
	AuctionID uint64 `json:"auction_id"`
	Amount    string `json:"amount,omitempty"`
	Bidder    string `json:"bidder,omitempty"` // masked display name
	Status    string `json:"status,omitempty"` // final status on "closed"
	Timestamp string `json:"timestamp"`
}

// NewBidEvent builds the broadcast payload for an accepted bid.
func NewBidEvent(auctionID uint64, amount decimal.Decimal, maskedBidder string, placedAt time.Time) Event {
	return Event{
		Type:      "bid",
		AuctionID: auctionID,
		Amount:    amount.StringFixed(2),
		Bidder:    maskedBidder,
		Timestamp: placedAt.UTC().Format(time.RFC3339),
	}
}

// NewClosedEvent builds the broadcast payload for an auction close.
func NewClosedEvent(auctionID uint64, final string, closedAt time.Time) Event {
	return Event{
		Type:      "closed",
		AuctionID: auctionID,
		Status:    final,
		Timestamp: closedAt.UTC().Format(time.RFC3339),
	}
}

// subscriberBuffer bounds how many undelivered events a subscriber may
// accumulate before the hub drops new ones for it.
const subscriberBuffer = 16

// Hub tracks subscriber groups keyed by auction ID.  Safe for use from
// any goroutine.
type Hub struct {
	mu     sync.RWMutex
	groups map[uint64]map[chan Event]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{groups: make(map[uint64]map[chan Event]struct{})}
}

// Subscribe joins the group for one auction and returns the event
// channel plus an unsubscribe function.  The unsubscribe function is
// idempotent and closes the channel.
func (h *Hub) Subscribe(auctionID uint64) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	group, ok := h.groups[auctionID]
	if !ok {
		group = make(map[chan Event]struct{})
		h.groups[auctionID] = group
	}
	group[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if group, ok := h.groups[auctionID]; ok {
				delete(group, ch)
				if len(group) == 0 {
					delete(h.groups, auctionID)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Broadcast delivers an event to every subscriber of the auction's
// group.  Subscribers with a full buffer are skipped; a dropped event is
// recovered by the client's next history fetch.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.groups[ev.AuctionID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers returns the current group size for an auction.
func (h *Hub) Subscribers(auctionID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[auctionID])
}
