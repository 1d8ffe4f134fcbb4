package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

// AnalyticsRepo aggregates marketplace counters for the admin dashboard.
type AnalyticsRepo struct {
	db *sql.DB
}

func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

// Overview is the admin analytics payload: user counts by role, auction
// counts by status, and total bid volume.
type Overview struct {
	UsersByRole      map[string]int `json:"users_by_role"`
	AuctionsByStatus map[string]int `json:"auctions_by_status"`
	TotalBids        int            `json:"total_bids"`
	BidVolume        string         `json:"bid_volume"`
}

// Load runs the aggregate queries and assembles an Overview.
func (r *AnalyticsRepo) Load(ctx context.Context) (*Overview, error) {
	ov := &Overview{
		UsersByRole:      map[string]int{},
		AuctionsByStatus: map[string]int{},
	}
	rows, err := r.db.QueryContext(ctx, "SELECT role, COUNT(*) FROM users GROUP BY role")
	if err != nil {
		return nil, err
	}
	if err := collectCounts(rows, ov.UsersByRole); err != nil {
		return nil, err
	}
	rows, err = r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM auctions GROUP BY status")
	if err != nil {
		return nil, err
	}
	if err := collectCounts(rows, ov.AuctionsByStatus); err != nil {
		return nil, err
	}
	var volume decimal.NullDecimal
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), SUM(amount) FROM bids").Scan(&ov.TotalBids, &volume); err != nil {
		return nil, err
	}
	if volume.Valid {
		ov.BidVolume = volume.Decimal.StringFixed(2)
	} else {
		ov.BidVolume = "0.00"
	}
	return ov, nil
}

func collectCounts(rows *sql.Rows, into map[string]int) error {
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}
