package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateReview = errors.New("review already exists for this user and hotel")
	ErrRoomUnavailable = errors.New("room is not available")
)

// SignalStore is the system of record for hotels and the behavioural signals
// the recommender consumes. All "Recent*" reads return rows ordered by
// descending creation time; that ordering is part of the contract, because
// profile construction takes the first N rows and must be reproducible.
type SignalStore interface {
	// Write paths
	UpsertHotel(ctx context.Context, h Hotel) (int64, error)
	UpsertRoom(ctx context.Context, r Room) (int64, error)
	EnsureUser(ctx context.Context, username, email string) (int64, error)
	CreateBooking(ctx context.Context, b Booking) (int64, error)
	CreateReview(ctx context.Context, r Review) (int64, error)
	RefreshHotelRating(ctx context.Context, hotelID int64) error
	AddInteraction(ctx context.Context, in Interaction) error
	AddSearch(ctx context.Context, sh SearchHistory) error
	SavePreference(ctx context.Context, p UserPreference) error

	// Read paths
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListActiveHotels(ctx context.Context, q HotelsQuery) ([]Hotel, error)
	ListRooms(ctx context.Context, hotelID int64) ([]Room, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListReviews(ctx context.Context, hotelID int64, limit int) ([]Review, error)

	// Recommender reads
	FindPreference(ctx context.Context, userID int64) (*UserPreference, error) // (nil, nil) when absent
	RecentBookedHotels(ctx context.Context, userID int64, n int) ([]Hotel, error)
	RecentReviewedHotels(ctx context.Context, userID int64, n int) ([]ReviewedHotel, error)
	RecentSearches(ctx context.Context, userID int64, n int) ([]SearchHistory, error)
	ReviewSignals(ctx context.Context, hotelIDs []int64) ([]RatingSignal, error)
	InteractionSignals(ctx context.Context, hotelIDs []int64) ([]InteractionSignal, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// HotelsQuery narrows the active-hotel listing. City/Area match by
// case-insensitive substring. Guests filters on available room capacity;
// price bounds filter on nightly room prices.
type HotelsQuery struct {
	City     string
	Area     string
	Guests   int
	MinPrice *float64
	MaxPrice *float64
	Type     *HotelType
	Limit    int
}
