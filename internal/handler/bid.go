package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/autostrada/auction-api/internal/bidding"
	"github.com/autostrada/auction-api/internal/live"
	"github.com/autostrada/auction-api/internal/model"
	"github.com/autostrada/auction-api/internal/queue"
	"github.com/autostrada/auction-api/internal/repository"
	queue_publisher "github.com/autostrada/auction-api/internal/service"
	"github.com/autostrada/auction-api/internal/utils"
)

// BidHandler accepts bids and serves the caller's own bid list.
type BidHandler struct {
	Auctions *repository.AuctionRepo
	Bids     *repository.BidRepo
	Users    *repository.UserRepo
	Hub      *live.Hub
}

func NewBidHandler(a *repository.AuctionRepo, b *repository.BidRepo, u *repository.UserRepo, hub *live.Hub) *BidHandler {
	return &BidHandler{Auctions: a, Bids: b, Users: u, Hub: hub}
}

type placeBidReq struct {
	Amount string `json:"amount"`
}

type placeBidResp struct {
	BidID      uint64 `json:"bid_id"`
	AuctionID  uint64 `json:"auction_id"`
	Amount     string `json:"amount"`
	MinimumBid string `json:"next_minimum_bid"`
	PlacedAt   string `json:"placed_at"`
}

// Place accepts a bid on an auction.  The whole read-validate-write runs
// in one transaction with the auction row locked, so two concurrent bids
// of the same amount can never both succeed.  The broadcast and the
// broker publish happen after commit; their failures are logged, never
// surfaced, because the bid is already durable.
func (h *BidHandler) Place(c echo.Context) error {
	bidderID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	auctionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req placeBidReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be a decimal string"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 8*time.Second)
	defer cancel()

	tx, err := h.Auctions.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	a, err := h.Auctions.GetForBidTx(ctx, tx, auctionID)
	if err != nil {
		if err == repository.ErrAuctionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now().UTC()
	if err := bidding.Validate(a, bidderID, amount, now); err != nil {
		switch {
		case errors.Is(err, bidding.ErrBidTooLow):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":       err.Error(),
				"minimum_bid": a.MinimumBid().StringFixed(2),
			})
		case errors.Is(err, bidding.ErrAuctionNotActive),
			errors.Is(err, bidding.ErrSelfBid),
			errors.Is(err, bidding.ErrInvalidAmount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bid validation failed"})
		}
	}

	bid := &model.Bid{AuctionID: auctionID, BidderID: bidderID, Amount: amount}
	if err := h.Bids.InsertTx(ctx, tx, bid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "insert bid failed"})
	}
	if err := h.Auctions.ApplyBidTx(ctx, tx, auctionID, amount); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update auction failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	// Post-commit fan-out.  Both legs are best effort.
	masked := "Anonymous"
	if u, err := h.Users.GetByID(ctx, bidderID); err == nil {
		masked = bidding.MaskName(u.FirstName, u.LastName)
	}
	h.Hub.Broadcast(live.NewBidEvent(auctionID, amount, masked, bid.CreatedAt))

	if err := queue_publisher.PublishBidPlaced(ctx, queue.BidPlacedEvent{
		BidID:        bid.ID,
		AuctionID:    auctionID,
		AuctionTitle: a.Title,
		BidderID:     bidderID,
		BidderMasked: masked,
		Amount:       amount.StringFixed(2),
		PlacedAt:     bid.CreatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		utils.Warn("bid accepted but event publish failed", map[string]any{
			"bid_id":     bid.ID,
			"auction_id": auctionID,
		})
	}

	nextMin := amount.Add(decimal.NewFromInt(1))
	return c.JSON(http.StatusCreated, placeBidResp{
		BidID:      bid.ID,
		AuctionID:  auctionID,
		Amount:     amount.StringFixed(2),
		MinimumBid: nextMin.StringFixed(2),
		PlacedAt:   bid.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// MyBids lists every bid the caller has placed across all auctions.
func (h *BidHandler) MyBids(c echo.Context) error {
	bidderID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bids, err := h.Bids.ListByBidder(ctx, bidderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bids": bids})
}
