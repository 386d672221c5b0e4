package domain

import "time"

type InteractionType string

const (
	InteractView     InteractionType = "view"
	InteractSearch   InteractionType = "search"
	InteractBook     InteractionType = "book"
	InteractReview   InteractionType = "review"
	InteractWishlist InteractionType = "wishlist"
)

// Interaction is an append-only behavioural signal. Rows are never updated or
// deleted; concurrent writers only ever insert.
type Interaction struct {
	ID        int64
	UserID    int64
	HotelID   int64
	Type      InteractionType
	Weight    float64
	CreatedAt time.Time
}

type SearchHistory struct {
	ID        int64
	UserID    int64
	City      string
	Area      string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
	MinPrice  *float64
	MaxPrice  *float64
	Amenities []string
	CreatedAt time.Time
}

// UserPreference is optional, at most one per user. Absence is a valid state
// and callers must branch on it explicitly.
type UserPreference struct {
	UserID    int64
	Locations []string
	Amenities []string
	PriceFrom *float64
	PriceTo   *float64
}

// RatingSignal is a (user, hotel, rating) row used to train the collaborative
// model. Reviews contribute their rating as-is; interactions contribute a
// pseudo-rating derived from their weight.
type RatingSignal struct {
	UserID  int64
	HotelID int64
	Rating  float64
}

// InteractionSignal is a (user, hotel, weight) row; the collaborative scorer
// maps the weight onto the 1..5 rating scale.
type InteractionSignal struct {
	UserID  int64
	HotelID int64
	Weight  float64
}

// ReviewedHotel pairs a hotel with the rating the user gave it.
type ReviewedHotel struct {
	Hotel  Hotel
	Rating int
}
