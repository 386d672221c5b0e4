package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/domain"
)

func TestBuildProfile_NoHistory(t *testing.T) {
	svc := newTestService(&fakeStore{})
	profile, err := svc.buildProfile(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, profile, "empty history yields the sentinel bag")
}

func TestBuildProfile_TokenOrder(t *testing.T) {
	f := &fakeStore{
		booked: []domain.Hotel{
			hotel(1, "Stayed", "Mumbai", "Bandra", domain.HotelLuxury, 4.5, 0, 0, "pool"),
		},
		reviewed: []domain.ReviewedHotel{
			{Hotel: hotel(2, "Loved", "Delhi", "Saket", domain.HotelBudget, 3.9, 0, 0, "gym"), Rating: 5},
			{Hotel: hotel(3, "Meh", "Jaipur", "C Scheme", domain.HotelMidRange, 3.0, 0, 0, "bar"), Rating: 3},
		},
	}
	svc := newTestService(f)
	pref := &domain.UserPreference{Locations: []string{"Goa"}, Amenities: []string{"wifi"}}

	profile, err := svc.buildProfile(context.Background(), 1, pref)
	require.NoError(t, err)
	// preferences first, then bookings, then well rated reviews; the rating 3
	// review contributes nothing
	assert.Equal(t, []string{
		"Goa", "wifi",
		"Mumbai", "Bandra", "luxury", "pool", "star_4.50",
		"Delhi", "budget", "gym",
	}, profile)
}

func TestBuildProfile_LowRatedReviewsExcluded(t *testing.T) {
	f := &fakeStore{
		reviewed: []domain.ReviewedHotel{
			{Hotel: hotel(1, "Bad", "Goa", "Baga", domain.HotelBudget, 2.0, 0, 0), Rating: 2},
			{Hotel: hotel(2, "Worse", "Goa", "Baga", domain.HotelBudget, 1.0, 0, 0), Rating: 1},
		},
	}
	svc := newTestService(f)
	profile, err := svc.buildProfile(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, profile)
}

func TestStarToken(t *testing.T) {
	assert.Equal(t, "star_4.50", starToken(4.5))
	assert.Equal(t, "star_0.00", starToken(0))
	assert.Equal(t, "rating_4", ratingToken(4.7))
}
