package recommend

import (
	"context"
	"errors"
	"fmt"

	"stayfinder/internal/domain"
)

// ErrInsufficientSignal means the candidate set carries too few rating rows
// to train a collaborative model. Callers treat it as "no scores", not as a
// failure.
var ErrInsufficientSignal = errors.New("recommend: not enough rating signal")

// minTrainingRows is the smallest combined review+interaction set worth
// fitting a factor model over.
const minTrainingRows = 10

// scoreCollaborative predicts the user's affinity for each candidate from a
// latent-factor model trained on every user's ratings of the candidate set.
// Reviews contribute their 1..5 rating directly; interactions contribute
// clamp(weight*3, 1, 5).
func (s *Service) scoreCollaborative(ctx context.Context, userID int64, hotels []domain.Hotel) (map[int64]float64, error) {
	ids := hotelIDs(hotels)

	rows, err := s.store.ReviewSignals(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("collaborative: review signals: %w", err)
	}
	interactions, err := s.store.InteractionSignals(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("collaborative: interaction signals: %w", err)
	}
	for _, in := range interactions {
		rows = append(rows, domain.RatingSignal{
			UserID:  in.UserID,
			HotelID: in.HotelID,
			Rating:  clamp(in.Weight*3, 1, 5),
		})
	}

	if len(rows) < minTrainingRows {
		return nil, ErrInsufficientSignal
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model := fitSVD(rows, defaultSVDParams())

	scores := make(map[int64]float64, len(hotels))
	for _, h := range hotels {
		est, known := model.predict(userID, h.ID)
		if !known {
			// Neither the user nor the hotel reached the factor space.
			scores[h.ID] = 0.5
			continue
		}
		scores[h.ID] = est / 5.0
	}
	return scores, nil
}

func hotelIDs(hotels []domain.Hotel) []int64 {
	ids := make([]int64, len(hotels))
	for i, h := range hotels {
		ids[i] = h.ID
	}
	return ids
}
