package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/autostrada/auction-api/internal/model"
)

// NotificationRepo persists per-user inbox entries.  Rows are written by
// the approval handlers, the lifecycle sweeper and the bid event
// consumer.
type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Insert creates a notification.  auctionID may be zero for entries not
// tied to an auction.
func (r *NotificationRepo) Insert(ctx context.Context, userID uint64, kind string, auctionID uint64, message string) error {
	var aid interface{}
	if auctionID != 0 {
		aid = auctionID
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (user_id, kind, auction_id, message) VALUES (?,?,?,?)",
		userID, kind, aid, message)
	return err
}

// ListByUser returns a user's notifications, newest first.  unreadOnly
// narrows the result to unread entries.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, unreadOnly bool, limit, offset int) ([]model.Notification, error) {
	q := "SELECT id, user_id, kind, auction_id, message, is_read, created_at FROM notifications WHERE user_id=?"
	if unreadOnly {
		q += " AND is_read=FALSE"
	}
	q += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Notification, 0)
	for rows.Next() {
		var (
			n         model.Notification
			auctionID sql.NullInt64
			createdAt time.Time
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &auctionID, &n.Message, &n.IsRead, &createdAt); err != nil {
			return nil, err
		}
		if auctionID.Valid {
			aid := uint64(auctionID.Int64)
			n.AuctionID = &aid
		}
		n.CreatedAt = createdAt.UTC()
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkRead marks one notification as read, scoped to its owner.
// sql.ErrNoRows when the entry does not exist or belongs to someone else.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read=TRUE WHERE id=? AND user_id=?",
		notificationID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM notifications WHERE id=? AND user_id=?)",
			notificationID, userID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return sql.ErrNoRows
		}
	}
	return nil
}

// MarkAllRead marks every unread notification of a user as read and
// returns how many were affected.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read=TRUE WHERE user_id=? AND is_read=FALSE", userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
