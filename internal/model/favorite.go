package model

import "time"

// Favorite is the many-to-many join between users and the auctions they
// watch.  The (UserID, AuctionID) pair is the primary key.
type Favorite struct {
	UserID    uint64    // favorites.user_id
	AuctionID uint64    // favorites.auction_id
	CreatedAt time.Time // favorites.created_at
}
