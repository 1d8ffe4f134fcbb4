package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autostrada/auction-api/internal/model"
	"github.com/autostrada/auction-api/internal/repository"
	"github.com/autostrada/auction-api/internal/utils"
)

// AdminAuctionHandler serves the moderation queue.  Approval and
// rejection write a notification to the seller's inbox; a failed
// notification write is logged but does not undo the decision.
type AdminAuctionHandler struct {
	Auctions      *repository.AuctionRepo
	Notifications *repository.NotificationRepo
}

func NewAdminAuctionHandler(a *repository.AuctionRepo, n *repository.NotificationRepo) *AdminAuctionHandler {
	return &AdminAuctionHandler{Auctions: a, Notifications: n}
}

// Queue lists auctions by status for the moderation view, oldest
// submission first.  The default is the review queue (PENDING_APPROVAL);
// admins can inspect any other status via ?status=.
func (h *AdminAuctionHandler) Queue(c echo.Context) error {
	status := model.StatusPendingApproval
	if raw := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); raw != "" {
		status = model.Status(raw)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
		}
	}
	limit, offset := pagination(c, 20, 100)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Auctions.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"auctions": items,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *AdminAuctionHandler) notifySeller(ctx context.Context, auctionID uint64, kind, message string) {
	a, err := h.Auctions.GetByID(ctx, auctionID)
	if err != nil || a.SellerID == nil {
		return
	}
	if err := h.Notifications.Insert(ctx, *a.SellerID, kind, auctionID, message); err != nil {
		utils.Warn("seller notification write failed", map[string]any{
			"auction_id": auctionID,
			"kind":       kind,
		})
	}
}

// Approve moves a pending auction to SCHEDULED.
func (h *AdminAuctionHandler) Approve(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Auctions.Approve(ctx, id); err {
	case nil:
	case repository.ErrAuctionNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
	case repository.ErrInvalidTransition:
		return c.JSON(http.StatusConflict, echo.Map{"error": "auction is not awaiting review"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}

	h.notifySeller(ctx, id, model.NotificationAuctionApproved,
		"Your listing was approved and is scheduled to go live.")
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": string(model.StatusScheduled)})
}

type rejectReq struct {
	Reason string `json:"reason"`
}

// Reject declines a pending auction.  A non-empty reason is mandatory
// and is stored on the auction as well as sent to the seller.
func (h *AdminAuctionHandler) Reject(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Auctions.Reject(ctx, id, req.Reason); err {
	case nil:
	case repository.ErrAuctionNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
	case repository.ErrInvalidTransition:
		return c.JSON(http.StatusConflict, echo.Map{"error": "auction is not awaiting review"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}

	h.notifySeller(ctx, id, model.NotificationAuctionRejected,
		fmt.Sprintf("Your listing was rejected: %s", req.Reason))
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": string(model.StatusRejected), "reason": req.Reason})
}
