package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/autostrada/auction-api/internal/model"
)

// AuctionRepo provides persistence for auctions and their owned vehicle
// rows.  Status changes are guarded in SQL: every UPDATE carries the
// expected current status in its WHERE clause so a stale transition
// affects zero rows instead of corrupting the lifecycle.
type AuctionRepo struct {
	db *sql.DB
}

// NewAuctionRepo returns an AuctionRepo bound to the given database.
func NewAuctionRepo(db *sql.DB) *AuctionRepo { return &AuctionRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span auction and bid writes.
func (r *AuctionRepo) DB() *sql.DB { return r.db }

const auctionColumns = `id, seller_id, title, description, starting_price, current_bid,
	reserve_price, starts_at, ends_at, status, rejection_reason, bid_count,
	submitted_at, approved_at, created_at, updated_at`

// scanAuction reads one auction row from any row scanner.
func scanAuction(scan func(dest ...interface{}) error) (*model.Auction, error) {
	var (
		a          model.Auction
		sellerID   sql.NullInt64
		currentBid decimal.NullDecimal
		reserve    decimal.NullDecimal
		reason     sql.NullString
		approvedAt sql.NullTime
	)
	err := scan(&a.ID, &sellerID, &a.Title, &a.Description, &a.StartingPrice, &currentBid,
		&reserve, &a.StartsAt, &a.EndsAt, &a.Status, &reason, &a.BidCount,
		&a.SubmittedAt, &approvedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if sellerID.Valid {
		sid := uint64(sellerID.Int64)
		a.SellerID = &sid
	}
	if currentBid.Valid {
		a.CurrentBid = &currentBid.Decimal
	}
	if reserve.Valid {
		a.ReservePrice = &reserve.Decimal
	}
	if reason.Valid {
		rr := reason.String
		a.RejectionReason = &rr
	}
	if approvedAt.Valid {
		at := approvedAt.Time
		a.ApprovedAt = &at
	}
	return &a, nil
}

// CreateWithVehicle inserts a new auction in PENDING_APPROVAL state along
// with its 1:1 vehicle row, committing both as one transaction.  The
// generated IDs are populated on the passed structs.
func (r *AuctionRepo) CreateWithVehicle(ctx context.Context, a *model.Auction, v *model.Vehicle) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO auctions (seller_id, title, description, starting_price, reserve_price,
			starts_at, ends_at, status, submitted_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		a.SellerID, a.Title, a.Description, a.StartingPrice, decimal.NullDecimal{Decimal: deref(a.ReservePrice), Valid: a.ReservePrice != nil},
		a.StartsAt, a.EndsAt, string(model.StatusPendingApproval), a.SubmittedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.Status = model.StatusPendingApproval
	v.AuctionID = a.ID
	res, err = tx.ExecContext(ctx,
		`INSERT INTO vehicles (auction_id, make, model, year, mileage_km, fuel_type, transmission, color, vin)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		v.AuctionID, v.Make, v.Model, v.Year, v.MileageKM, v.FuelType, v.Transmission, v.Color, v.VIN)
	if err != nil {
		return err
	}
	vid, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(vid)
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func deref(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Decimal{}
	}
	return *d
}

// GetByID returns a single auction or ErrAuctionNotFound.
func (r *AuctionRepo) GetByID(ctx context.Context, id uint64) (*model.Auction, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+auctionColumns+" FROM auctions WHERE id=?", id)
	a, err := scanAuction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAuctionNotFound
	}
	return a, err
}

// GetForBidTx loads an auction inside a transaction with the row locked
// (SELECT ... FOR UPDATE).  The lock serializes concurrent bids on the
// same auction so the read-validate-write sequence cannot interleave.
func (r *AuctionRepo) GetForBidTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Auction, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+auctionColumns+" FROM auctions WHERE id=? FOR UPDATE", id)
	a, err := scanAuction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAuctionNotFound
	}
	return a, err
}

// ApplyBidTx overwrites the auction's current bid and bumps the bid
// counter.  Must run in the same transaction as the bid insert, with the
// row already locked via GetForBidTx.
func (r *AuctionRepo) ApplyBidTx(ctx context.Context, tx *sql.Tx, auctionID uint64, amount decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE auctions SET current_bid=?, bid_count=bid_count+1 WHERE id=?",
		amount, auctionID)
	return err
}

// GetVehicle returns the vehicle owned by an auction.
func (r *AuctionRepo) GetVehicle(ctx context.Context, auctionID uint64) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.QueryRowContext(ctx,
		`SELECT id, auction_id, make, model, year, mileage_km, fuel_type, transmission, color, vin, created_at, updated_at
		 FROM vehicles WHERE auction_id=?`, auctionID).
		Scan(&v.ID, &v.AuctionID, &v.Make, &v.Model, &v.Year, &v.MileageKM,
			&v.FuelType, &v.Transmission, &v.Color, &v.VIN, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Summary is the listing card returned by browse endpoints: the auction
// joined with its vehicle headline fields and cover image.
type Summary struct {
	ID            uint64  `json:"id"`
	Title         string  `json:"title"`
	Status        string  `json:"status"`
	StartingPrice string  `json:"starting_price"`
	CurrentBid    *string `json:"current_bid,omitempty"`
	BidCount      uint32  `json:"bid_count"`
	StartsAt      string  `json:"starts_at"`
	EndsAt        string  `json:"ends_at"`
	VehicleMake   string  `json:"make"`
	VehicleModel  string  `json:"model"`
	VehicleYear   uint16  `json:"year"`
	CoverImage    *string `json:"cover_image,omitempty"`
}

const summarySelect = `SELECT a.id, a.title, a.status, a.starting_price, a.current_bid,
		a.bid_count, a.starts_at, a.ends_at, v.make, v.model, v.year,
		(SELECT vi.file_name FROM vehicle_images vi WHERE vi.auction_id = a.id ORDER BY vi.position LIMIT 1)
	FROM auctions a
	JOIN vehicles v ON v.auction_id = a.id`

func collectSummaries(rows *sql.Rows) ([]Summary, error) {
	defer rows.Close()
	items := make([]Summary, 0)
	for rows.Next() {
		var (
			s          Summary
			starting   decimal.Decimal
			currentBid decimal.NullDecimal
			startsAt   time.Time
			endsAt     time.Time
			cover      sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.Status, &starting, &currentBid,
			&s.BidCount, &startsAt, &endsAt, &s.VehicleMake, &s.VehicleModel, &s.VehicleYear, &cover); err != nil {
			return nil, err
		}
		s.StartingPrice = starting.StringFixed(2)
		if currentBid.Valid {
			cb := currentBid.Decimal.StringFixed(2)
			s.CurrentBid = &cb
		}
		s.StartsAt = startsAt.UTC().Format(time.RFC3339)
		s.EndsAt = endsAt.UTC().Format(time.RFC3339)
		if cover.Valid {
			c := cover.String
			s.CoverImage = &c
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// ListPublic returns browseable auctions (everything past review except
// rejected/cancelled ones).  status and vehicleMake optionally narrow
// the result; limit/offset paginate.
func (r *AuctionRepo) ListPublic(ctx context.Context, status model.Status, vehicleMake string, limit, offset int) ([]Summary, error) {
	q := summarySelect + " WHERE a.status IN (?,?,?,?)"
	args := []interface{}{
		string(model.StatusScheduled), string(model.StatusActive),
		string(model.StatusEnded), string(model.StatusSold),
	}
	if status != "" {
		q = summarySelect + " WHERE a.status = ?"
		args = []interface{}{string(status)}
	}
	if vehicleMake != "" {
		q += " AND v.make = ?"
		args = append(args, vehicleMake)
	}
	q += " ORDER BY a.ends_at ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectSummaries(rows)
}

// ListBySeller returns every auction belonging to a seller, newest first.
func (r *AuctionRepo) ListBySeller(ctx context.Context, sellerID uint64) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx,
		summarySelect+" WHERE a.seller_id = ? ORDER BY a.created_at DESC", sellerID)
	if err != nil {
		return nil, err
	}
	return collectSummaries(rows)
}

// ListByStatus returns auctions in one status for the admin review queue.
func (r *AuctionRepo) ListByStatus(ctx context.Context, status model.Status, limit, offset int) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx,
		summarySelect+" WHERE a.status = ? ORDER BY a.submitted_at ASC LIMIT ? OFFSET ?",
		string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	return collectSummaries(rows)
}

// transition applies a guarded status change.  The WHERE clause pins the
// expected source status; zero affected rows on an existing auction
// means the lifecycle rule was violated.
func (r *AuctionRepo) transition(ctx context.Context, id uint64, from, to model.Status, set string, args ...interface{}) error {
	if !from.CanTransitionTo(to) {
		return ErrInvalidTransition
	}
	q := "UPDATE auctions SET status=?" + set + " WHERE id=? AND status=?"
	qargs := append([]interface{}{string(to)}, args...)
	qargs = append(qargs, id, string(from))
	res, err := r.db.ExecContext(ctx, q, qargs...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM auctions WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrAuctionNotFound
		}
		return ErrInvalidTransition
	}
	return nil
}

// Approve moves a pending auction to SCHEDULED and stamps approved_at.
func (r *AuctionRepo) Approve(ctx context.Context, id uint64) error {
	return r.transition(ctx, id, model.StatusPendingApproval, model.StatusScheduled,
		", approved_at=?", time.Now().UTC())
}

// Reject moves a pending auction to REJECTED with the given reason.
func (r *AuctionRepo) Reject(ctx context.Context, id uint64, reason string) error {
	return r.transition(ctx, id, model.StatusPendingApproval, model.StatusRejected,
		", rejection_reason=?", reason)
}

// Cancel lets a seller withdraw an auction that has not gone live.  It
// returns ErrForbidden when the auction belongs to another seller.
func (r *AuctionRepo) Cancel(ctx context.Context, id, sellerID uint64) error {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.SellerID == nil || *a.SellerID != sellerID {
		return ErrForbidden
	}
	if !a.Status.CanTransitionTo(model.StatusCancelled) {
		return ErrInvalidTransition
	}
	return r.transition(ctx, id, a.Status, model.StatusCancelled, "")
}

// ActivateDue flips every SCHEDULED auction whose window has opened to
// ACTIVE.  Returns the number of auctions activated.
func (r *AuctionRepo) ActivateDue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE auctions SET status=? WHERE status=? AND starts_at<=?",
		string(model.StatusActive), string(model.StatusScheduled), now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListDueForClose returns ACTIVE auctions whose window has ended.  The
// sweeper closes each one individually so it can pick SOLD vs ENDED and
// emit notifications per auction.
func (r *AuctionRepo) ListDueForClose(ctx context.Context, now time.Time) ([]*model.Auction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+auctionColumns+" FROM auctions WHERE status=? AND ends_at<=?",
		string(model.StatusActive), now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Auction, 0)
	for rows.Next() {
		a, err := scanAuction(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Close finalizes an ACTIVE auction as either SOLD or ENDED.
func (r *AuctionRepo) Close(ctx context.Context, id uint64, final model.Status) error {
	if final != model.StatusSold && final != model.StatusEnded {
		return ErrInvalidTransition
	}
	return r.transition(ctx, id, model.StatusActive, final, "")
}
