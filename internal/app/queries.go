package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stayfinder/internal/domain"
)

// maxReviewLimit bounds how many reviews a single cache entry holds; the HTTP
// layer caps the limit parameter at the same value.
const maxReviewLimit = 100

type QueryService struct {
	store    domain.SignalStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(st domain.SignalStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: st, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	key := fmt.Sprintf("hotel:%d", id)
	var h domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	h, err := s.store.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	return h, nil
}

func (s *QueryService) SearchHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	key := searchKey(q)
	var out []domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	hotels, err := s.store.ListActiveHotels(ctx, q)
	if err != nil {
		return nil, err
	}
	// copy before caching so callers can't mutate the cached value
	cp := make([]domain.Hotel, len(hotels))
	copy(cp, hotels)
	if b, _ := json.Marshal(cp); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	}
	return hotels, nil
}

func (s *QueryService) ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	return s.store.ListRooms(ctx, hotelID)
}

// ListReviews caches one entry per hotel, holding the maxReviewLimit most
// recent reviews, and slices to the caller's limit afterwards. Keying by hotel
// only lets a write invalidate every limit variant with a single delete.
func (s *QueryService) ListReviews(ctx context.Context, hotelID int64, limit int) ([]domain.Review, error) {
	if limit <= 0 || limit > maxReviewLimit {
		limit = maxReviewLimit
	}
	cacheKey := fmt.Sprintf("reviews:%d", hotelID)
	var out []domain.Review
	if ok, _ := s.cache.Get(ctx, cacheKey, &out); ok {
		return headReviews(out, limit), nil
	}
	rs, err := s.store.ListReviews(ctx, hotelID, maxReviewLimit)
	if err != nil {
		return nil, err
	}
	cp := make([]domain.Review, len(rs))
	copy(cp, rs)
	_ = s.cache.Set(ctx, cacheKey, cp, int(s.cacheTTL.Seconds()))
	return headReviews(rs, limit), nil
}

func headReviews(rs []domain.Review, limit int) []domain.Review {
	if len(rs) > limit {
		rs = rs[:limit]
	}
	return rs
}

// searchKey must cover every filter field of HotelsQuery; two queries that can
// produce different listings must never share a cache entry.
func searchKey(q domain.HotelsQuery) string {
	min, max := float64(0), float64(0)
	if q.MinPrice != nil {
		min = *q.MinPrice
	}
	if q.MaxPrice != nil {
		max = *q.MaxPrice
	}
	typ := ""
	if q.Type != nil {
		typ = string(*q.Type)
	}
	return fmt.Sprintf("hotels:%s:%s:%s:%d:%.0f:%.0f:%d", q.City, q.Area, typ, q.Guests, min, max, q.Limit)
}
