package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"stayfinder/internal/app"
	"stayfinder/internal/domain"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestCreateBooking(t *testing.T) {
	store := &fakeStore{
		room: domain.Room{ID: 3, HotelID: 7, PricePerNight: 2000, Capacity: 2, Available: true},
	}
	cache := &fakeCache{store: map[string]any{"hotel:7": domain.Hotel{ID: 7}}}
	b := app.NewBookingService(store, cache)

	booking, err := b.CreateBooking(context.Background(), app.BookingInput{
		UserID: 1, HotelID: 7, RoomID: 3,
		CheckIn: day("2026-09-01"), CheckOut: day("2026-09-04"),
		Guests: 2,
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if booking.TotalAmount != 6000 {
		t.Fatalf("expected 3 nights x 2000, got %v", booking.TotalAmount)
	}
	if booking.Status != domain.BookingPending {
		t.Fatalf("expected pending status, got %s", booking.Status)
	}
	if len(booking.Reference) != 8 {
		t.Fatalf("expected 8-char reference, got %q", booking.Reference)
	}
	if booking.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	// a book interaction rides along, and the hotel cache entry is dropped
	if len(store.interactions) != 1 || store.interactions[0].Type != domain.InteractBook {
		t.Fatalf("unexpected interactions: %+v", store.interactions)
	}
	if store.interactions[0].Weight != 5.0 {
		t.Fatalf("book weight: %v", store.interactions[0].Weight)
	}
	if _, cached := cache.store["hotel:7"]; cached {
		t.Fatalf("expected hotel:7 invalidated")
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	store := &fakeStore{
		room: domain.Room{ID: 3, HotelID: 7, PricePerNight: 2000, Available: true},
	}
	b := app.NewBookingService(store, nil)

	// check-out before check-in
	_, err := b.CreateBooking(context.Background(), app.BookingInput{
		UserID: 1, HotelID: 7, RoomID: 3,
		CheckIn: day("2026-09-04"), CheckOut: day("2026-09-01"),
	})
	if err == nil {
		t.Fatalf("expected date validation error")
	}

	// room belongs to another hotel
	_, err = b.CreateBooking(context.Background(), app.BookingInput{
		UserID: 1, HotelID: 99, RoomID: 3,
		CheckIn: day("2026-09-01"), CheckOut: day("2026-09-02"),
	})
	if err == nil {
		t.Fatalf("expected hotel mismatch error")
	}

	if len(store.bookings) != 0 {
		t.Fatalf("no booking should have been written")
	}
}

func TestCreateBooking_RoomUnavailable(t *testing.T) {
	store := &fakeStore{
		room: domain.Room{ID: 3, HotelID: 7, PricePerNight: 2000, Available: false},
	}
	b := app.NewBookingService(store, nil)

	_, err := b.CreateBooking(context.Background(), app.BookingInput{
		UserID: 1, HotelID: 7, RoomID: 3,
		CheckIn: day("2026-09-01"), CheckOut: day("2026-09-02"),
	})
	if !errors.Is(err, domain.ErrRoomUnavailable) {
		t.Fatalf("expected ErrRoomUnavailable, got %v", err)
	}
}

func TestCreateReview(t *testing.T) {
	store := &fakeStore{}
	// entries cached before the write must be dropped
	cache := &fakeCache{store: map[string]any{
		"hotel:7":   domain.Hotel{ID: 7},
		"reviews:7": []domain.Review{{ID: 9, HotelID: 7, Rating: 2}},
	}}
	b := app.NewBookingService(store, cache)

	rv, err := b.CreateReview(context.Background(), app.ReviewInput{
		UserID: 1, HotelID: 7, Rating: 5, Title: "Loved it", Comment: "Would return.",
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rv.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	if len(store.refreshed) != 1 || store.refreshed[0] != 7 {
		t.Fatalf("expected rating refresh for hotel 7, got %v", store.refreshed)
	}
	if len(store.interactions) != 1 || store.interactions[0].Type != domain.InteractReview {
		t.Fatalf("unexpected interactions: %+v", store.interactions)
	}
	if store.interactions[0].Weight != 3.0 {
		t.Fatalf("review weight: %v", store.interactions[0].Weight)
	}
	if _, cached := cache.store["reviews:7"]; cached {
		t.Fatalf("expected review cache invalidated")
	}
}

func TestCreateReview_DuplicatePassesThrough(t *testing.T) {
	store := &fakeStore{createReviewErr: domain.ErrDuplicateReview}
	b := app.NewBookingService(store, nil)

	_, err := b.CreateReview(context.Background(), app.ReviewInput{
		UserID: 1, HotelID: 7, Rating: 4, Title: "Again", Comment: "dup",
	})
	if !errors.Is(err, domain.ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}
	if len(store.interactions) != 0 {
		t.Fatalf("failed review must not append a signal")
	}
}

func TestRecordHotelView(t *testing.T) {
	store := &fakeStore{}
	b := app.NewBookingService(store, nil)

	b.RecordHotelView(context.Background(), 1, 7)
	if len(store.interactions) != 1 || store.interactions[0].Type != domain.InteractView {
		t.Fatalf("unexpected interactions: %+v", store.interactions)
	}
	if store.interactions[0].Weight != 1.0 {
		t.Fatalf("view weight: %v", store.interactions[0].Weight)
	}
}

func TestRecordSearch_Defaults(t *testing.T) {
	store := &fakeStore{}
	b := app.NewBookingService(store, nil)

	b.RecordSearch(context.Background(), domain.SearchHistory{UserID: 1, City: "Goa"})
	if len(store.searches) != 1 {
		t.Fatalf("expected one search row, got %d", len(store.searches))
	}
	sh := store.searches[0]
	if sh.Guests != 2 {
		t.Fatalf("expected default 2 guests, got %d", sh.Guests)
	}
	if sh.CheckIn.IsZero() || !sh.CheckOut.Equal(sh.CheckIn.AddDate(0, 0, 1)) {
		t.Fatalf("expected same-day single-night defaults, got %v -> %v", sh.CheckIn, sh.CheckOut)
	}
}

func TestRecordSearch_SkipsAnonymousAndEmptyCity(t *testing.T) {
	store := &fakeStore{}
	b := app.NewBookingService(store, nil)

	b.RecordSearch(context.Background(), domain.SearchHistory{UserID: 0, City: "Goa"})
	b.RecordSearch(context.Background(), domain.SearchHistory{UserID: 1, City: "  "})
	if len(store.searches) != 0 {
		t.Fatalf("expected no rows, got %d", len(store.searches))
	}
}
