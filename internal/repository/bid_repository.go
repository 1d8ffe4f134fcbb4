package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/autostrada/auction-api/internal/bidding"
	"github.com/autostrada/auction-api/internal/model"
)

// BidRepo provides persistence for bids.  Bids are append-only: this
// repository exposes no update or delete operations, which is how the
// immutability of bid history is enforced.
type BidRepo struct {
	db *sql.DB
}

// NewBidRepo returns a BidRepo bound to the given database.
func NewBidRepo(db *sql.DB) *BidRepo { return &BidRepo{db: db} }

// InsertTx inserts a bid within an existing transaction and populates
// the generated ID and timestamp on the passed struct.  The caller holds
// the auction row lock and commits both the bid and the current-bid
// update together.
func (r *BidRepo) InsertTx(ctx context.Context, tx *sql.Tx, b *model.Bid) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO bids (auction_id, bidder_id, amount) VALUES (?,?,?)",
		b.AuctionID, b.BidderID, b.Amount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return tx.QueryRowContext(ctx, "SELECT created_at FROM bids WHERE id=?", b.ID).Scan(&b.CreatedAt)
}

// HistoryEntry is one row of an auction's public bid history.  Bidder
// names are already masked to first name plus last-initial.
type HistoryEntry struct {
	ID       uint64 `json:"id"`
	Amount   string `json:"amount"`
	Bidder   string `json:"bidder"`
	PlacedAt string `json:"placed_at"`
}

// ListByAuction returns the bid history for an auction, newest first.
// Bids from deleted accounts keep their row; the bidder shows as the
// masked fallback.
func (r *BidRepo) ListByAuction(ctx context.Context, auctionID uint64, limit, offset int) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.amount, COALESCE(u.first_name,''), COALESCE(u.last_name,''), b.created_at
		 FROM bids b
		 LEFT JOIN users u ON u.id = b.bidder_id
		 WHERE b.auction_id = ?
		 ORDER BY b.created_at DESC, b.id DESC
		 LIMIT ? OFFSET ?`, auctionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var (
			e         HistoryEntry
			amount    decimal.Decimal
			first     string
			last      string
			createdAt time.Time
		)
		if err := rows.Scan(&e.ID, &amount, &first, &last, &createdAt); err != nil {
			return nil, err
		}
		e.Amount = amount.StringFixed(2)
		e.Bidder = bidding.MaskName(first, last)
		e.PlacedAt = createdAt.UTC().Format(time.RFC3339)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MyBid is one row of a buyer's own bid list.  Winning is derived, not
// stored: a bid leads when its amount equals the auction's current bid.
type MyBid struct {
	ID            uint64 `json:"id"`
	AuctionID     uint64 `json:"auction_id"`
	AuctionTitle  string `json:"auction_title"`
	AuctionStatus string `json:"auction_status"`
	Amount        string `json:"amount"`
	Winning       bool   `json:"winning"`
	PlacedAt      string `json:"placed_at"`
}

// ListByBidder returns all bids the user has placed, newest first.
func (r *BidRepo) ListByBidder(ctx context.Context, bidderID uint64) ([]MyBid, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.auction_id, a.title, a.status, b.amount,
		        (a.current_bid IS NOT NULL AND b.amount = a.current_bid), b.created_at
		 FROM bids b
		 JOIN auctions a ON a.id = b.auction_id
		 WHERE b.bidder_id = ?
		 ORDER BY b.created_at DESC, b.id DESC`, bidderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bids := make([]MyBid, 0)
	for rows.Next() {
		var (
			m         MyBid
			amount    decimal.Decimal
			createdAt time.Time
		)
		if err := rows.Scan(&m.ID, &m.AuctionID, &m.AuctionTitle, &m.AuctionStatus,
			&amount, &m.Winning, &createdAt); err != nil {
			return nil, err
		}
		m.Amount = amount.StringFixed(2)
		m.PlacedAt = createdAt.UTC().Format(time.RFC3339)
		bids = append(bids, m)
	}
	return bids, rows.Err()
}

// LeaderBefore returns the bidder holding the highest bid on an auction
// strictly below the given amount.  The queue consumer uses it to find
// who was just outbid.  sql.ErrNoRows means there was no previous leader.
func (r *BidRepo) LeaderBefore(ctx context.Context, auctionID uint64, amount decimal.Decimal) (uint64, error) {
	var bidderID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT bidder_id FROM bids
		 WHERE auction_id = ? AND amount < ?
		 ORDER BY amount DESC, created_at DESC LIMIT 1`, auctionID, amount).Scan(&bidderID)
	return bidderID, err
}

// WinnerOf returns the bidder whose amount equals the auction's final
// current bid, or sql.ErrNoRows when the auction closed without bids.
func (r *BidRepo) WinnerOf(ctx context.Context, auctionID uint64) (uint64, error) {
	var bidderID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT b.bidder_id FROM bids b
		 JOIN auctions a ON a.id = b.auction_id
		 WHERE b.auction_id = ? AND a.current_bid IS NOT NULL AND b.amount = a.current_bid
		 ORDER BY b.created_at DESC LIMIT 1`, auctionID).Scan(&bidderID)
	return bidderID, err
}
