package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stayfinder/internal/domain"
)

// ErrNoSignal means no location signal exists for the user and none was
// supplied with the search, so location scoring has nothing to compare.
var ErrNoSignal = errors.New("recommend: no location signal")

// scoreLocation rates candidates by similarity between the user's location
// history (preferences, then recent searches, then recent bookings) and each
// hotel's "city area" document. When the user has no history at all, the
// caller-supplied search city/area stands in.
func (s *Service) scoreLocation(ctx context.Context, userID int64, hotels []domain.Hotel, city, area string, pref *domain.UserPreference) (map[int64]float64, error) {
	var locations []string
	if pref != nil {
		locations = append(locations, pref.Locations...)
	}

	searches, err := s.store.RecentSearches(ctx, userID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("location: recent searches: %w", err)
	}
	for _, sh := range searches {
		locations = append(locations, sh.City)
		if sh.Area != "" {
			locations = append(locations, sh.Area)
		}
	}

	booked, err := s.store.RecentBookedHotels(ctx, userID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("location: recent bookings: %w", err)
	}
	for _, h := range booked {
		locations = append(locations, h.City, h.Area)
	}

	if len(locations) == 0 {
		if city != "" {
			locations = append(locations, city)
		}
		if area != "" {
			locations = append(locations, area)
		}
	}
	if len(locations) == 0 {
		return nil, ErrNoSignal
	}

	docs := make([]string, 0, len(hotels)+1)
	for _, h := range hotels {
		docs = append(docs, h.City+" "+h.Area)
	}
	docs = append(docs, strings.Join(locations, " "))

	rows, err := newVectorizer(maxVocabulary).fitTransform(docs)
	if err != nil {
		return nil, err
	}

	userVec := rows[len(rows)-1]
	scores := make(map[int64]float64, len(hotels))
	for i, h := range hotels {
		scores[h.ID] = cosine(userVec, rows[i])
	}
	return scores, nil
}
