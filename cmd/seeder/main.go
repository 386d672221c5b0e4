package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"stayfinder/internal/adapters/observability"
	"stayfinder/internal/app"
	"stayfinder/internal/domain"
	"stayfinder/internal/shared"
	mysqlrepo "stayfinder/internal/storage/mysql"
)

// Sample-data generator for development and demo environments: hotels with
// rooms, a handful of users, and enough bookings/reviews/searches that the
// personalized recommendation path has signal to work with.

var cityAreas = map[string][]string{
	"Mumbai":    {"Andheri", "Bandra", "Colaba", "Juhu", "Powai"},
	"Delhi":     {"Connaught Place", "Karol Bagh", "Paharganj", "Saket"},
	"Bangalore": {"Indiranagar", "Koramangala", "MG Road", "Whitefield"},
	"Chennai":   {"Adyar", "Anna Nagar", "T Nagar", "Velachery"},
	"Hyderabad": {"Banjara Hills", "Gachibowli", "Hitech City"},
	"Jaipur":    {"Bani Park", "C Scheme", "Malviya Nagar"},
	"Goa":       {"Anjuna", "Baga", "Calangute", "Panaji"},
}

var typeProfiles = map[domain.HotelType]struct {
	stars     []int
	amenities []string
}{
	domain.HotelBudget:   {[]int{1, 2}, []string{"wifi", "parking", "room_service"}},
	domain.HotelMidRange: {[]int{3, 4}, []string{"wifi", "parking", "restaurant", "gym", "room_service"}},
	domain.HotelLuxury:   {[]int{4, 5}, []string{"wifi", "pool", "spa", "gym", "restaurant", "bar", "concierge"}},
	domain.HotelResort:   {[]int{4, 5}, []string{"wifi", "pool", "spa", "beach_access", "restaurant", "kids_club"}},
	domain.HotelBoutique: {[]int{3, 4}, []string{"wifi", "restaurant", "bar", "art_gallery", "rooftop"}},
}

var hotelTypes = []domain.HotelType{
	domain.HotelBudget, domain.HotelMidRange, domain.HotelLuxury,
	domain.HotelResort, domain.HotelBoutique,
}

var namePrefixes = []string{"Grand", "Royal", "The", "Hotel", "Taj", "Leela", "Pearl", "Lotus"}
var nameSuffixes = []string{"Palace", "Residency", "Inn", "Retreat", "Towers", "Gardens", "Regency", "Suites"}

var roomTypes = []domain.RoomType{
	domain.RoomSingle, domain.RoomDouble, domain.RoomTwin,
	domain.RoomSuite, domain.RoomFamily, domain.RoomDeluxe,
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("hotels", cfg.SeedHotels).
		Int("users", cfg.SeedUsers).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	store := mysqlrepo.New(db)
	booking := app.NewBookingService(store, nil)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rl := rate.NewLimiter(rate.Limit(cfg.SeedRate), cfg.SeedRate)

	hotelIDs := seedHotels(ctx, cfg, store, rl, rng)
	userIDs := seedUsers(ctx, cfg, store, rl)
	seedActivity(ctx, store, booking, rl, rng, userIDs, hotelIDs)

	log.Info().Int("hotels", len(hotelIDs)).Int("users", len(userIDs)).Msg("seeding completed")
}

func seedHotels(ctx context.Context, cfg shared.Config, store *mysqlrepo.Repo, rl *rate.Limiter, rng *rand.Rand) []int64 {
	cities := make([]string, 0, len(cityAreas))
	for c := range cityAreas {
		cities = append(cities, c)
	}

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids []int64
	)
	for i := 0; i < cfg.SeedHotels; i++ {
		// pick attributes on the main goroutine; rng is not safe to share
		city := cities[rng.Intn(len(cities))]
		area := cityAreas[city][rng.Intn(len(cityAreas[city]))]
		typ := hotelTypes[rng.Intn(len(hotelTypes))]
		profile := typeProfiles[typ]
		h := domain.Hotel{
			Name: fmt.Sprintf("%s %s %s",
				namePrefixes[rng.Intn(len(namePrefixes))], area,
				nameSuffixes[rng.Intn(len(nameSuffixes))]),
			Description:  fmt.Sprintf("A %s stay in %s, %s.", typ, area, city),
			Type:         typ,
			City:         city,
			Area:         area,
			Address:      fmt.Sprintf("%d %s Road, %s", 1+rng.Intn(200), area, city),
			Amenities:    profile.amenities,
			StarRating:   profile.stars[rng.Intn(len(profile.stars))],
			ContactPhone: fmt.Sprintf("+91 98%08d", rng.Intn(100000000)),
			ContactEmail: fmt.Sprintf("stay%d@example.com", i),
			Active:       true,
		}
		roomCount := 3 + rng.Intn(6)
		basePrice := basePriceFor(typ, rng)

		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(h domain.Hotel, roomCount int, basePrice float64) {
			defer wg.Done()
			defer sem.Release(1)

			_ = rl.Wait(ctx)
			id, err := store.UpsertHotel(ctx, h)
			if err != nil {
				log.Warn().Str("hotel", h.Name).Err(err).Msg("seed hotel failed")
				return
			}
			for n := 0; n < roomCount; n++ {
				rm := domain.Room{
					HotelID:       id,
					Type:          roomTypes[n%len(roomTypes)],
					Number:        fmt.Sprintf("%d0%d", n/3+1, n%3+1),
					Capacity:      1 + n%4,
					PricePerNight: basePrice * (1 + 0.25*float64(n)),
					Amenities:     []string{"ac", "tv"},
					Available:     true,
				}
				_ = rl.Wait(ctx)
				if _, err := store.UpsertRoom(ctx, rm); err != nil {
					log.Warn().Int64("hotel", id).Err(err).Msg("seed room failed")
				}
			}
			mu.Lock()
			ids = append(ids, id)
			mu.Unlock()
		}(h, roomCount, basePrice)
	}
	wg.Wait()
	return ids
}

func seedUsers(ctx context.Context, cfg shared.Config, store *mysqlrepo.Repo, rl *rate.Limiter) []int64 {
	ids := make([]int64, 0, cfg.SeedUsers)
	for i := 1; i <= cfg.SeedUsers; i++ {
		_ = rl.Wait(ctx)
		id, err := store.EnsureUser(ctx, fmt.Sprintf("traveller%d", i), fmt.Sprintf("traveller%d@example.com", i))
		if err != nil {
			log.Warn().Int("n", i).Err(err).Msg("seed user failed")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func seedActivity(ctx context.Context, store *mysqlrepo.Repo, booking *app.BookingService,
	rl *rate.Limiter, rng *rand.Rand, userIDs, hotelIDs []int64) {
	if len(hotelIDs) == 0 {
		return
	}
	for _, uid := range userIDs {
		// a preference for roughly half the users
		if rng.Intn(2) == 0 {
			h, _ := store.GetHotel(ctx, hotelIDs[rng.Intn(len(hotelIDs))])
			_ = rl.Wait(ctx)
			if err := store.SavePreference(ctx, domain.UserPreference{
				UserID:    uid,
				Locations: []string{h.City, h.Area},
				Amenities: h.Amenities,
			}); err != nil {
				log.Warn().Int64("user", uid).Err(err).Msg("seed preference failed")
			}
		}

		for n := 0; n < 1+rng.Intn(4); n++ {
			hid := hotelIDs[rng.Intn(len(hotelIDs))]
			rooms, err := store.ListRooms(ctx, hid)
			if err != nil || len(rooms) == 0 {
				continue
			}
			room := rooms[rng.Intn(len(rooms))]
			checkIn := time.Now().AddDate(0, 0, -rng.Intn(120)).Truncate(24 * time.Hour)

			_ = rl.Wait(ctx)
			b, err := booking.CreateBooking(ctx, app.BookingInput{
				UserID:   uid,
				HotelID:  hid,
				RoomID:   room.ID,
				CheckIn:  checkIn,
				CheckOut: checkIn.AddDate(0, 0, 1+rng.Intn(5)),
				Guests:   1 + rng.Intn(room.Capacity),
			})
			if err != nil {
				log.Warn().Int64("user", uid).Int64("hotel", hid).Err(err).Msg("seed booking failed")
				continue
			}

			if rng.Intn(3) > 0 { // most stays get reviewed
				_ = rl.Wait(ctx)
				if _, err := booking.CreateReview(ctx, app.ReviewInput{
					UserID:    uid,
					HotelID:   hid,
					BookingID: &b.ID,
					Rating:    2 + rng.Intn(4),
					Title:     "Stay review",
					Comment:   "Seeded review.",
				}); err != nil {
					log.Debug().Int64("user", uid).Int64("hotel", hid).Err(err).Msg("seed review skipped")
				}
			}

			h, err := store.GetHotel(ctx, hid)
			if err == nil {
				_ = rl.Wait(ctx)
				booking.RecordSearch(ctx, domain.SearchHistory{
					UserID:  uid,
					City:    h.City,
					Area:    h.Area,
					CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 2),
					Guests: 2,
				})
			}
		}
	}
}

func basePriceFor(typ domain.HotelType, rng *rand.Rand) float64 {
	switch typ {
	case domain.HotelBudget:
		return 800 + float64(rng.Intn(1200))
	case domain.HotelMidRange:
		return 2500 + float64(rng.Intn(2500))
	case domain.HotelBoutique:
		return 4000 + float64(rng.Intn(4000))
	default: // luxury, resort
		return 8000 + float64(rng.Intn(12000))
	}
}
