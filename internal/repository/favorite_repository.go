package repository

import (
	"context"
	"database/sql"
)

// FavoriteRepo manages the user/auction watch list join table.
type FavoriteRepo struct {
	db *sql.DB
}

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add marks an auction as a favorite.  Adding twice is a no-op.
func (r *FavoriteRepo) Add(ctx context.Context, userID, auctionID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT IGNORE INTO favorites (user_id, auction_id) VALUES (?,?)",
		userID, auctionID)
	return err
}

// Remove deletes a favorite.  Removing a non-existent entry is a no-op.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, auctionID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id=? AND auction_id=?",
		userID, auctionID)
	return err
}

// ListAuctionIDs returns the auction IDs a user watches, newest first.
func (r *FavoriteRepo) ListAuctionIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT auction_id FROM favorites WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
