// Package lifecycle runs the background sweeper that moves auctions
// through their time-driven transitions: SCHEDULED auctions whose window
// has opened become ACTIVE, and ACTIVE auctions whose window has ended
// are closed as SOLD or ENDED.
package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/autostrada/auction-api/internal/live"
	"github.com/autostrada/auction-api/internal/model"
	"github.com/autostrada/auction-api/internal/repository"
	"github.com/autostrada/auction-api/internal/utils"
)

// Sweeper owns the periodic pass over due auctions.
type Sweeper struct {
	Auctions      *repository.AuctionRepo
	Bids          *repository.BidRepo
	Notifications *repository.NotificationRepo
	Hub           *live.Hub
	Interval      time.Duration
}

func NewSweeper(a *repository.AuctionRepo, b *repository.BidRepo, n *repository.NotificationRepo, hub *live.Hub, interval time.Duration) *Sweeper {
	return &Sweeper{Auctions: a, Bids: b, Notifications: n, Hub: hub, Interval: interval}
}

// Run sweeps on a fixed ticker until the context is cancelled.  One pass
// runs immediately on start so restarts do not delay overdue closes by a
// full interval.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now().UTC()

	if n, err := s.Auctions.ActivateDue(ctx, now); err != nil {
		utils.Error("sweeper: activate pass failed", map[string]any{"error": err.Error()})
	} else if n > 0 {
		utils.Info("sweeper: auctions activated", map[string]any{"count": n})
	}

	due, err := s.Auctions.ListDueForClose(ctx, now)
	if err != nil {
		utils.Error("sweeper: list due auctions failed", map[string]any{"error": err.Error()})
		return
	}
	for _, a := range due {
		s.closeOne(ctx, a, now)
	}
}

// FinalStatus decides how an auction that ran out of time ends: SOLD
// when at least one bid exists and the reserve (if any) was met,
// otherwise ENDED.
func FinalStatus(a *model.Auction) model.Status {
	if a.BidCount == 0 || a.CurrentBid == nil {
		return model.StatusEnded
	}
	if a.ReservePrice != nil && a.CurrentBid.LessThan(*a.ReservePrice) {
		return model.StatusEnded
	}
	return model.StatusSold
}

func (s *Sweeper) closeOne(ctx context.Context, a *model.Auction, now time.Time) {
	final := FinalStatus(a)
	if err := s.Auctions.Close(ctx, a.ID, final); err != nil {
		// A concurrent sweep may have closed it already.
		if !errors.Is(err, repository.ErrInvalidTransition) {
			utils.Error("sweeper: close failed", map[string]any{"auction_id": a.ID, "error": err.Error()})
		}
		return
	}
	utils.Info("sweeper: auction closed", map[string]any{"auction_id": a.ID, "status": string(final)})

	s.Hub.Broadcast(live.NewClosedEvent(a.ID, string(final), now))

	if a.SellerID != nil {
		msg := fmt.Sprintf("Your auction %q has closed without a sale.", a.Title)
		if final == model.StatusSold {
			msg = fmt.Sprintf("Your auction %q sold for %s.", a.Title, a.CurrentBid.StringFixed(2))
		}
		if err := s.Notifications.Insert(ctx, *a.SellerID, model.NotificationAuctionClosed, a.ID, msg); err != nil {
			utils.Warn("sweeper: seller notification failed", map[string]any{"auction_id": a.ID})
		}
	}

	if final == model.StatusSold {
		winner, err := s.Bids.WinnerOf(ctx, a.ID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				utils.Error("sweeper: winner lookup failed", map[string]any{"auction_id": a.ID, "error": err.Error()})
			}
			return
		}
		msg := fmt.Sprintf("Congratulations, you won %q with a bid of %s.", a.Title, a.CurrentBid.StringFixed(2))
		if err := s.Notifications.Insert(ctx, winner, model.NotificationAuctionWon, a.ID, msg); err != nil {
			utils.Warn("sweeper: winner notification failed", map[string]any{"auction_id": a.ID})
		}
	}
}
