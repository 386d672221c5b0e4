package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"stayfinder/internal/domain"
)

// Interaction weights, mirroring how strongly each action signals intent.
const (
	viewWeight   = 1.0
	reviewWeight = 3.0
	bookWeight   = 5.0
)

// BookingService owns the write paths: bookings, reviews and the behavioural
// signals they append. Signal appends are best-effort; losing one must never
// fail the user-facing action it rode on.
type BookingService struct {
	store domain.SignalStore
	cache domain.Cache
}

func NewBookingService(st domain.SignalStore, cache domain.Cache) *BookingService {
	return &BookingService{store: st, cache: cache}
}

type BookingInput struct {
	UserID          int64
	HotelID         int64
	RoomID          int64
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	SpecialRequests string
}

func (s *BookingService) CreateBooking(ctx context.Context, in BookingInput) (domain.Booking, error) {
	if !in.CheckOut.After(in.CheckIn) {
		return domain.Booking{}, fmt.Errorf("check-out must be after check-in")
	}
	room, err := s.store.GetRoom(ctx, in.RoomID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("load room: %w", err)
	}
	if room.HotelID != in.HotelID {
		return domain.Booking{}, fmt.Errorf("room %d does not belong to hotel %d", in.RoomID, in.HotelID)
	}
	if !room.Available {
		return domain.Booking{}, domain.ErrRoomUnavailable
	}

	b := domain.Booking{
		UserID:          in.UserID,
		HotelID:         in.HotelID,
		RoomID:          in.RoomID,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		Guests:          in.Guests,
		Status:          domain.BookingPending,
		SpecialRequests: in.SpecialRequests,
		Reference:       newBookingReference(),
	}
	b.TotalAmount = float64(b.Nights()) * room.PricePerNight

	id, err := s.store.CreateBooking(ctx, b)
	if err != nil {
		return domain.Booking{}, err
	}
	b.ID = id

	s.appendInteraction(ctx, in.UserID, in.HotelID, domain.InteractBook, bookWeight)
	s.invalidateHotel(ctx, in.HotelID)
	return b, nil
}

type ReviewInput struct {
	UserID      int64
	HotelID     int64
	BookingID   *int64
	Rating      int
	Title       string
	Comment     string
	Cleanliness *int
	Service     *int
	Location    *int
	Value       *int
}

func (s *BookingService) CreateReview(ctx context.Context, in ReviewInput) (domain.Review, error) {
	rv := domain.Review{
		UserID:      in.UserID,
		HotelID:     in.HotelID,
		BookingID:   in.BookingID,
		Rating:      in.Rating,
		Title:       in.Title,
		Comment:     in.Comment,
		Cleanliness: in.Cleanliness,
		Service:     in.Service,
		Location:    in.Location,
		Value:       in.Value,
	}
	id, err := s.store.CreateReview(ctx, rv)
	if err != nil {
		return domain.Review{}, err
	}
	rv.ID = id

	// The store owns the average; recompute now so readers see it move.
	if err := s.store.RefreshHotelRating(ctx, in.HotelID); err != nil {
		log.Warn().Int64("hotel", in.HotelID).Err(err).Msg("rating refresh failed")
	}
	s.appendInteraction(ctx, in.UserID, in.HotelID, domain.InteractReview, reviewWeight)
	s.invalidateHotel(ctx, in.HotelID)
	s.invalidateReviews(ctx, in.HotelID)
	return rv, nil
}

// RecordHotelView appends the view signal behind hotel-detail reads.
func (s *BookingService) RecordHotelView(ctx context.Context, userID, hotelID int64) {
	s.appendInteraction(ctx, userID, hotelID, domain.InteractView, viewWeight)
}

// RecordSearch captures an authenticated search for the recommender's
// location history. Missing dates and guests fall back to a same-day
// single-night search for two.
func (s *BookingService) RecordSearch(ctx context.Context, sh domain.SearchHistory) {
	if sh.UserID == 0 || strings.TrimSpace(sh.City) == "" {
		return
	}
	if sh.CheckIn.IsZero() {
		sh.CheckIn = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if sh.CheckOut.IsZero() {
		sh.CheckOut = sh.CheckIn.AddDate(0, 0, 1)
	}
	if sh.Guests <= 0 {
		sh.Guests = 2
	}
	if err := s.store.AddSearch(ctx, sh); err != nil {
		log.Warn().Int64("user", sh.UserID).Err(err).Msg("search history append failed")
	}
}

func (s *BookingService) appendInteraction(ctx context.Context, userID, hotelID int64, typ domain.InteractionType, weight float64) {
	err := s.store.AddInteraction(ctx, domain.Interaction{
		UserID:  userID,
		HotelID: hotelID,
		Type:    typ,
		Weight:  weight,
	})
	if err != nil {
		log.Warn().Int64("user", userID).Int64("hotel", hotelID).Str("type", string(typ)).
			Err(err).Msg("interaction append failed")
	}
}

func (s *BookingService) invalidateHotel(ctx context.Context, hotelID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("hotel:%d", hotelID))
}

func (s *BookingService) invalidateReviews(ctx context.Context, hotelID int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("reviews:%d", hotelID))
}

func newBookingReference() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
