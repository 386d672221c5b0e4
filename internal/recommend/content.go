package recommend

import (
	"context"
	"strings"

	"stayfinder/internal/domain"
)

// scoreContent rates each candidate by cosine similarity between the user's
// profile document and the hotel's feature document under a TF-IDF fit over
// this call's corpus only.
func (s *Service) scoreContent(ctx context.Context, profile []string, hotels []domain.Hotel) (map[int64]float64, error) {
	scores := make(map[int64]float64, len(hotels))
	if len(hotels) == 0 {
		return scores, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]string, 0, len(hotels)+1)
	for _, h := range hotels {
		features := make([]string, 0, len(h.Amenities)+5)
		features = append(features, h.City, h.Area, string(h.Type))
		features = append(features, h.Amenities...)
		features = append(features, starToken(h.AverageRating), ratingToken(h.AverageRating))
		docs = append(docs, strings.Join(features, " "))
	}
	docs = append(docs, strings.Join(profile, " "))

	rows, err := newVectorizer(maxVocabulary).fitTransform(docs)
	if err != nil {
		return nil, err
	}

	userVec := rows[len(rows)-1]
	for i, h := range hotels {
		scores[h.ID] = cosine(userVec, rows[i])
	}
	return scores, nil
}
