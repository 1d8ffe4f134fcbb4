package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autostrada/auction-api/internal/bidding"
	"github.com/autostrada/auction-api/internal/model"
	"github.com/autostrada/auction-api/internal/repository"
)

// PublicAuctionHandler serves the unauthenticated browse endpoints.
type PublicAuctionHandler struct {
	Auctions *repository.AuctionRepo
	Bids     *repository.BidRepo
	Images   *repository.ImageRepo
	Users    *repository.UserRepo
}

func NewPublicAuctionHandler(a *repository.AuctionRepo, b *repository.BidRepo, i *repository.ImageRepo, u *repository.UserRepo) *PublicAuctionHandler {
	return &PublicAuctionHandler{Auctions: a, Bids: b, Images: i, Users: u}
}

// browseable statuses for the public filter: review states stay hidden.
var publicStatuses = map[model.Status]bool{
	model.StatusScheduled: true,
	model.StatusActive:    true,
	model.StatusEnded:     true,
	model.StatusSold:      true,
}

// List returns browseable auction summaries.  Optional query filters:
// status (SCHEDULED|ACTIVE|ENDED|SOLD), make, limit, offset.
func (h *PublicAuctionHandler) List(c echo.Context) error {
	var status model.Status
	if raw := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); raw != "" {
		status = model.Status(raw)
		if !publicStatuses[status] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
		}
	}
	vehicleMake := strings.TrimSpace(c.QueryParam("make"))
	limit, offset := pagination(c, 20, 100)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Auctions.ListPublic(ctx, status, vehicleMake, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"auctions": items,
		"limit":    limit,
		"offset":   offset,
	})
}

type vehicleResp struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         uint16 `json:"year"`
	MileageKM    uint32 `json:"mileage_km"`
	FuelType     string `json:"fuel_type"`
	Transmission string `json:"transmission"`
	Color        string `json:"color"`
	VIN          string `json:"vin"`
}

type imageResp struct {
	ID       uint64 `json:"id"`
	FileName string `json:"file_name"`
	Position uint16 `json:"position"`
}

type auctionDetail struct {
	ID              uint64      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Status          string      `json:"status"`
	StartingPrice   string      `json:"starting_price"`
	CurrentBid      *string     `json:"current_bid,omitempty"`
	MinimumBid      string      `json:"minimum_bid"`
	HasReserve      bool        `json:"has_reserve"`
	BidCount        uint32      `json:"bid_count"`
	StartsAt        string      `json:"starts_at"`
	EndsAt          string      `json:"ends_at"`
	RejectionReason *string     `json:"rejection_reason,omitempty"`
	LeadingBidder   *string     `json:"leading_bidder,omitempty"`
	Vehicle         vehicleResp `json:"vehicle"`
	Images          []imageResp `json:"images"`
}

// Get returns the full public detail of one auction: the listing, its
// vehicle, its image gallery and the masked name of the current leader.
// The reserve price itself is never exposed, only whether one exists.
func (h *PublicAuctionHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Auctions.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrAuctionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	// Review states and withdrawn listings are hidden from the public.
	if !publicStatuses[a.Status] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
	}

	v, err := h.Auctions.GetVehicle(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	imgs, err := h.Images.ListByAuction(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	d := auctionDetail{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		Status:        string(a.Status),
		StartingPrice: a.StartingPrice.StringFixed(2),
		MinimumBid:    a.MinimumBid().StringFixed(2),
		HasReserve:    a.ReservePrice != nil,
		BidCount:      a.BidCount,
		StartsAt:      a.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:        a.EndsAt.UTC().Format(time.RFC3339),
		Vehicle: vehicleResp{
			Make: v.Make, Model: v.Model, Year: v.Year, MileageKM: v.MileageKM,
			FuelType: v.FuelType, Transmission: v.Transmission, Color: v.Color, VIN: v.VIN,
		},
		Images: make([]imageResp, 0, len(imgs)),
	}
	if a.CurrentBid != nil {
		cb := a.CurrentBid.StringFixed(2)
		d.CurrentBid = &cb

		if leaderID, err := h.Bids.WinnerOf(ctx, id); err == nil {
			if u, err := h.Users.GetByID(ctx, leaderID); err == nil {
				masked := bidding.MaskName(u.FirstName, u.LastName)
				d.LeadingBidder = &masked
			}
		} else if err != sql.ErrNoRows {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}
	for _, img := range imgs {
		d.Images = append(d.Images, imageResp{ID: img.ID, FileName: img.FileName, Position: img.Position})
	}
	return c.JSON(http.StatusOK, d)
}

// History returns an auction's bid history, newest first, with bidder
// names masked.
func (h *PublicAuctionHandler) History(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	limit, offset := pagination(c, 50, 200)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Auctions.GetByID(ctx, id); err != nil {
		if err == repository.ErrAuctionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	entries, err := h.Bids.ListByAuction(ctx, id, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"auction_id": id,
		"bids":       entries,
		"limit":      limit,
		"offset":     offset,
	})
}
