package repository

import (
	"context"
	"database/sql"

	"github.com/autostrada/auction-api/internal/model"
)

// ImageRepo persists vehicle image metadata.  The image files themselves
// live under the static-served uploads directory; handlers delete the
// file only after the row is gone.
type ImageRepo struct {
	db *sql.DB
}

func NewImageRepo(db *sql.DB) *ImageRepo { return &ImageRepo{db: db} }

// Insert records an uploaded image at the next free position for the
// auction and returns the generated ID.  The position read and the
// insert run in one transaction with the auction's image rows locked,
// so concurrent uploads to the same auction cannot claim the same slot.
func (r *ImageRepo) Insert(ctx context.Context, auctionID uint64, fileName string) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var position uint16
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position)+1, 0) FROM vehicle_images WHERE auction_id=? FOR UPDATE",
		auctionID).Scan(&position); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO vehicle_images (auction_id, file_name, position) VALUES (?,?,?)",
		auctionID, fileName, position)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// ListByAuction returns the images of an auction ordered by position.
func (r *ImageRepo) ListByAuction(ctx context.Context, auctionID uint64) ([]model.VehicleImage, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, auction_id, file_name, position, created_at FROM vehicle_images WHERE auction_id=? ORDER BY position",
		auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	images := make([]model.VehicleImage, 0)
	for rows.Next() {
		var img model.VehicleImage
		if err := rows.Scan(&img.ID, &img.AuctionID, &img.FileName, &img.Position, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// Delete removes one image row and returns its file name so the caller
// can unlink the file.  sql.ErrNoRows when the image does not belong to
// the auction.
func (r *ImageRepo) Delete(ctx context.Context, auctionID, imageID uint64) (string, error) {
	var fileName string
	err := r.db.QueryRowContext(ctx,
		"SELECT file_name FROM vehicle_images WHERE id=? AND auction_id=?",
		imageID, auctionID).Scan(&fileName)
	if err != nil {
		return "", err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM vehicle_images WHERE id=?", imageID); err != nil {
		return "", err
	}
	return fileName, nil
}
