package recommend

import (
	"context"
	"fmt"

	"stayfinder/internal/domain"
)

// historyWindow bounds how much history feeds personalization: the N most
// recent bookings / reviews / searches per user.
const historyWindow = 10

// buildProfile turns preferences and interaction history into a bag of
// feature tokens. Repetition is deliberate: features of frequently visited
// hotels dominate the similarity. The bag is never empty; a user with no
// history yields the "default" sentinel so vectorization has a document to
// work with.
func (s *Service) buildProfile(ctx context.Context, userID int64, pref *domain.UserPreference) ([]string, error) {
	var tokens []string

	if pref != nil {
		tokens = append(tokens, pref.Locations...)
		tokens = append(tokens, pref.Amenities...)
	}

	booked, err := s.store.RecentBookedHotels(ctx, userID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("profile: recent bookings: %w", err)
	}
	for _, h := range booked {
		tokens = append(tokens, h.City, h.Area, string(h.Type))
		tokens = append(tokens, h.Amenities...)
		tokens = append(tokens, starToken(h.AverageRating))
	}

	reviewed, err := s.store.RecentReviewedHotels(ctx, userID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("profile: recent reviews: %w", err)
	}
	for _, rv := range reviewed {
		if rv.Rating < 4 {
			continue
		}
		tokens = append(tokens, rv.Hotel.City, string(rv.Hotel.Type))
		tokens = append(tokens, rv.Hotel.Amenities...)
	}

	if len(tokens) == 0 {
		return []string{"default"}, nil
	}
	return tokens, nil
}

func starToken(rating float64) string {
	return fmt.Sprintf("star_%.2f", rating)
}

func ratingToken(rating float64) string {
	return fmt.Sprintf("rating_%d", int(rating))
}
