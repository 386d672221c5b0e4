package recommend

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"stayfinder/internal/adapters/observability"
	"stayfinder/internal/domain"
)

// Fusion weights for the three component scores. They sum to 1.0; a missing
// component contributes 0.
const (
	weightContent       = 0.40
	weightCollaborative = 0.35
	weightLocation      = 0.25
)

const (
	// DefaultLimit caps a recommendation response when the caller gives none.
	DefaultLimit = 10

	maxVocabulary = 1000
)

// Service ranks hotels for a user and search context by fusing content-based,
// collaborative and location-based scores. It holds no mutable state between
// calls; every invocation fits fresh models, so concurrent requests share
// nothing but the read-only store.
type Service struct {
	store domain.SignalStore
	log   zerolog.Logger
}

func New(store domain.SignalStore, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Request carries the façade inputs. UserID 0 means anonymous; check-in/out
// and guests are accepted as hints but not enforced against room inventory
// here.
type Request struct {
	UserID   int64
	City     string
	Area     string
	CheckIn  *time.Time
	CheckOut *time.Time
	Guests   int
	Limit    int
}

// Recommend returns at most Limit hotels, best first. Personalization
// failures never surface: a broken personalized path degrades to the general
// ranking, and anything worse degrades to the unranked head of the candidate
// list. The only returned error is a failed candidate listing, where there is
// nothing left to fall back on.
func (s *Service) Recommend(ctx context.Context, req Request) (out []domain.Hotel, err error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	hotels, lerr := s.store.ListActiveHotels(ctx, domain.HotelsQuery{City: req.City, Area: req.Area})
	if lerr != nil {
		return nil, lerr
	}
	if len(hotels) == 0 {
		return []domain.Hotel{}, nil
	}

	// Last-resort guard: a wrong ranking beats a broken page, so a panic
	// anywhere below answers with the unranked candidate head instead.
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("recommendation ranking panicked")
			observability.ObserveRecommendation("fallback")
			out, err = head(hotels, limit), nil
		}
	}()

	if req.UserID == 0 {
		observability.ObserveRecommendation("general")
		return s.general(hotels, limit), nil
	}

	ranked, perr := s.personalized(ctx, req, hotels, limit)
	if perr != nil {
		s.log.Warn().Int64("user", req.UserID).Err(perr).Msg("personalized path degraded to general")
		observability.ObserveRecommendation("fallback")
		return s.general(hotels, limit), nil
	}
	observability.ObserveRecommendation("personalized")
	return ranked, nil
}

func (s *Service) personalized(ctx context.Context, req Request, hotels []domain.Hotel, limit int) ([]domain.Hotel, error) {
	pref, err := s.store.FindPreference(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := s.buildProfile(ctx, req.UserID, pref)
	if err != nil {
		return nil, err
	}

	// The three scorers are independent and order-free; run them together.
	// Each degrades to an empty map on its own failure rather than failing
	// the request.
	var content, collaborative, location map[int64]float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		content = s.runScorer(gctx, "content", func(c context.Context) (map[int64]float64, error) {
			return s.scoreContent(c, profile, hotels)
		})
		return nil
	})
	g.Go(func() error {
		collaborative = s.runScorer(gctx, "collaborative", func(c context.Context) (map[int64]float64, error) {
			return s.scoreCollaborative(c, req.UserID, hotels)
		})
		return nil
	})
	g.Go(func() error {
		location = s.runScorer(gctx, "location", func(c context.Context) (map[int64]float64, error) {
			return s.scoreLocation(c, req.UserID, hotels, req.City, req.Area, pref)
		})
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type scored struct {
		id    int64
		score float64
	}
	final := make([]scored, 0, len(hotels))
	for _, h := range hotels {
		final = append(final, scored{
			id: h.ID,
			score: weightContent*content[h.ID] +
				weightCollaborative*collaborative[h.ID] +
				weightLocation*location[h.ID],
		})
	}
	// Ties break on hotel id ascending to keep the order reproducible.
	sort.SliceStable(final, func(i, j int) bool {
		if final[i].score != final[j].score {
			return final[i].score > final[j].score
		}
		return final[i].id < final[j].id
	})

	byID := make(map[int64]domain.Hotel, len(hotels))
	for _, h := range hotels {
		byID[h.ID] = h
	}
	out := make([]domain.Hotel, 0, limit)
	for _, sc := range final {
		if len(out) == limit {
			break
		}
		h, ok := byID[sc.id]
		if !ok {
			continue // dropped between listing and resolution
		}
		out = append(out, h)
	}
	return out, nil
}

// runScorer executes one scorer, records its outcome, and maps every failure
// onto "no scores". Benign reasons (insufficient signal, no location history,
// empty vocabulary) are expected states, anything else is a degraded scorer.
func (s *Service) runScorer(ctx context.Context, name string, fn func(context.Context) (map[int64]float64, error)) map[int64]float64 {
	start := time.Now()
	scores, err := fn(ctx)
	switch {
	case err == nil:
		observability.ObserveScorer(name, "ok", time.Since(start))
	case errors.Is(err, ErrInsufficientSignal), errors.Is(err, ErrNoSignal), errors.Is(err, ErrNoVocabulary):
		observability.ObserveScorer(name, "empty", time.Since(start))
		s.log.Debug().Str("scorer", name).Err(err).Msg("scorer returned no signal")
	default:
		observability.ObserveScorer(name, "degraded", time.Since(start))
		s.log.Warn().Str("scorer", name).Err(err).Msg("scorer failed, scoring as zero")
	}
	if scores == nil {
		return map[int64]float64{}
	}
	return scores
}

// general is the non-personalized ranking: rating, then popularity, with a
// deterministic name tie-break.
func (s *Service) general(hotels []domain.Hotel, limit int) []domain.Hotel {
	ranked := make([]domain.Hotel, len(hotels))
	copy(ranked, hotels)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		if a.BookingCount != b.BookingCount {
			return a.BookingCount > b.BookingCount
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.Name < b.Name
	})
	return head(ranked, limit)
}

func head(hotels []domain.Hotel, limit int) []domain.Hotel {
	if len(hotels) > limit {
		hotels = hotels[:limit]
	}
	out := make([]domain.Hotel, len(hotels))
	copy(out, hotels)
	return out
}
