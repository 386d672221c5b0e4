package domain

import "time"

// Review is unique per (user, hotel). Saving one triggers a recompute of the
// hotel's average rating in the store.
type Review struct {
	ID          int64
	UserID      int64
	HotelID     int64
	BookingID   *int64
	Rating      int // 1..5
	Title       string
	Comment     string
	Cleanliness *int
	Service     *int
	Location    *int
	Value       *int
	CreatedAt   time.Time
}
