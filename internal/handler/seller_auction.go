package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/autostrada/auction-api/internal/model"
	"github.com/autostrada/auction-api/internal/repository"
)

// SellerAuctionHandler serves the seller-facing listing endpoints.
type SellerAuctionHandler struct {
	Auctions *repository.AuctionRepo
}

func NewSellerAuctionHandler(a *repository.AuctionRepo) *SellerAuctionHandler {
	return &SellerAuctionHandler{Auctions: a}
}

type createVehicleReq struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         uint16 `json:"year"`
	MileageKM    uint32 `json:"mileage_km"`
	FuelType     string `json:"fuel_type"`
	Transmission string `json:"transmission"`
	Color        string `json:"color"`
	VIN          string `json:"vin"`
}

type createAuctionReq struct {
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	StartingPrice string           `json:"starting_price"`
	ReservePrice  *string          `json:"reserve_price,omitempty"`
	StartsAt      time.Time        `json:"starts_at"`
	EndsAt        time.Time        `json:"ends_at"`
	Vehicle       createVehicleReq `json:"vehicle"`
}

// validate checks the submission before anything touches the database.
func (req *createAuctionReq) validate(now time.Time) (starting decimal.Decimal, reserve *decimal.Decimal, msg string) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return starting, nil, "title required"
	}
	starting, err := decimal.NewFromString(req.StartingPrice)
	if err != nil || starting.LessThanOrEqual(decimal.Zero) {
		return starting, nil, "starting_price must be a positive decimal string"
	}
	if req.ReservePrice != nil {
		r, err := decimal.NewFromString(*req.ReservePrice)
		if err != nil || r.LessThan(starting) {
			return starting, nil, "reserve_price must be a decimal string not below starting_price"
		}
		reserve = &r
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return starting, nil, "starts_at and ends_at required (RFC 3339)"
	}
	if !req.EndsAt.After(req.StartsAt) {
		return starting, nil, "ends_at must be after starts_at"
	}
	if req.StartsAt.Before(now) {
		return starting, nil, "starts_at is in the past"
	}
	v := &req.Vehicle
	v.Make = strings.TrimSpace(v.Make)
	v.Model = strings.TrimSpace(v.Model)
	if v.Make == "" || v.Model == "" || v.Year == 0 {
		return starting, nil, "vehicle make, model and year required"
	}
	return starting, reserve, ""
}

// Create submits a new listing.  It lands in PENDING_APPROVAL and stays
// invisible to buyers until an admin reviews it.
func (h *SellerAuctionHandler) Create(c echo.Context) error {
	sellerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createAuctionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	now := time.Now().UTC()
	starting, reserve, msg := req.validate(now)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	a := &model.Auction{
		SellerID:      &sellerID,
		Title:         req.Title,
		Description:   strings.TrimSpace(req.Description),
		StartingPrice: starting,
		ReservePrice:  reserve,
		StartsAt:      req.StartsAt.UTC(),
		EndsAt:        req.EndsAt.UTC(),
		SubmittedAt:   now,
	}
	v := &model.Vehicle{
		Make:         req.Vehicle.Make,
		Model:        req.Vehicle.Model,
		Year:         req.Vehicle.Year,
		MileageKM:    req.Vehicle.MileageKM,
		FuelType:     strings.ToUpper(strings.TrimSpace(req.Vehicle.FuelType)),
		Transmission: strings.ToUpper(strings.TrimSpace(req.Vehicle.Transmission)),
		Color:        strings.TrimSpace(req.Vehicle.Color),
		VIN:          strings.ToUpper(strings.TrimSpace(req.Vehicle.VIN)),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auctions.CreateWithVehicle(ctx, a, v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create auction failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":           a.ID,
		"status":       string(a.Status),
		"submitted_at": a.SubmittedAt.Format(time.RFC3339),
	})
}

// Mine lists all of the caller's auctions regardless of status.
func (h *SellerAuctionHandler) Mine(c echo.Context) error {
	sellerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Auctions.ListBySeller(ctx, sellerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"auctions": items})
}

// Cancel withdraws one of the caller's auctions before it goes live.
// Only PENDING_APPROVAL and SCHEDULED auctions may be withdrawn; an
// ACTIVE one is committed to its bidders.
func (h *SellerAuctionHandler) Cancel(c echo.Context) error {
	sellerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Auctions.Cancel(ctx, id, sellerID); err {
	case nil:
		return c.JSON(http.StatusOK, echo.Map{"id": id, "status": string(model.StatusCancelled)})
	case repository.ErrAuctionNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your auction"})
	case repository.ErrInvalidTransition:
		return c.JSON(http.StatusConflict, echo.Map{"error": "auction can no longer be withdrawn"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
}
