package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"stayfinder/internal/app"
	"stayfinder/internal/domain"
	"stayfinder/internal/recommend"
)

type Handlers struct {
	Q *app.QueryService
	B *app.BookingService
	R *recommend.Service

	validate *validator.Validate
}

func NewHandlers(q *app.QueryService, b *app.BookingService, r *recommend.Service) *Handlers {
	return &Handlers{Q: q, B: b, R: r, validate: validator.New()}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels", h.searchHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Get("/v1/hotels/{id}/reviews", h.listReviews)
	s.mux.Post("/v1/hotels/{id}/reviews", h.createReview)
	s.mux.Post("/v1/bookings", h.createBooking)
	s.mux.Get("/v1/recommendations", h.recommendations)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// userID reads the opaque authenticated-user reference set by the auth proxy.
// 0 means anonymous; auth itself lives outside this service.
func userID(r *http.Request) int64 {
	v := r.Header.Get("X-User-ID")
	if v == "" {
		return 0
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// ---- hotels ----

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := domain.HotelsQuery{
		City: qs.Get("city"),
		Area: qs.Get("area"),
	}
	if g, err := strconv.Atoi(qs.Get("guests")); err == nil && g > 0 {
		q.Guests = g
	}
	if p, err := strconv.ParseFloat(qs.Get("min_price"), 64); err == nil {
		q.MinPrice = &p
	}
	if p, err := strconv.ParseFloat(qs.Get("max_price"), 64); err == nil {
		q.MaxPrice = &p
	}
	if t := qs.Get("type"); t != "" {
		ht := domain.HotelType(t)
		q.Type = &ht
	}

	hotels, err := h.Q.SearchHotels(r.Context(), q)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Search failed", "")
		return
	}

	// Search-history capture feeds the recommender's location signal.
	if uid := userID(r); uid != 0 && q.City != "" {
		sh := domain.SearchHistory{UserID: uid, City: q.City, Area: q.Area,
			Guests: q.Guests, MinPrice: q.MinPrice, MaxPrice: q.MaxPrice}
		if ci := parseDate(qs.Get("check_in")); ci != nil {
			sh.CheckIn = *ci
		}
		if co := parseDate(qs.Get("check_out")); co != nil {
			sh.CheckOut = *co
		}
		h.B.RecordSearch(r.Context(), sh)
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": hotels})
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	hotel, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}
	rooms, err := h.Q.ListRooms(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Rooms lookup failed", "")
		return
	}

	if uid := userID(r); uid != 0 {
		h.B.RecordHotelView(r.Context(), uid, id)
	}

	writeJSON(w, http.StatusOK, map[string]any{"hotel": hotel, "rooms": rooms})
}

// ---- reviews ----

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	limit := 10
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 100")
			return
		}
		limit = l
	}
	out, err := h.Q.ListReviews(r.Context(), id, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Reviews lookup failed", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

type createReviewRequest struct {
	Rating      int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title       string `json:"title" validate:"required,max=200"`
	Comment     string `json:"comment" validate:"required"`
	Cleanliness *int   `json:"cleanliness_rating" validate:"omitempty,gte=1,lte=5"`
	Service     *int   `json:"service_rating" validate:"omitempty,gte=1,lte=5"`
	Location    *int   `json:"location_rating" validate:"omitempty,gte=1,lte=5"`
	Value       *int   `json:"value_rating" validate:"omitempty,gte=1,lte=5"`
	BookingID   *int64 `json:"booking_id"`
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == 0 {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	hotelID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	rv, err := h.B.CreateReview(r.Context(), app.ReviewInput{
		UserID: uid, HotelID: hotelID, BookingID: req.BookingID,
		Rating: req.Rating, Title: req.Title, Comment: req.Comment,
		Cleanliness: req.Cleanliness, Service: req.Service,
		Location: req.Location, Value: req.Value,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateReview):
		writeProblem(w, http.StatusConflict, "Conflict", "you already reviewed this hotel")
	case err != nil:
		writeProblem(w, http.StatusInternalServerError, "Review failed", "")
	default:
		writeJSON(w, http.StatusCreated, rv)
	}
}

// ---- bookings ----

type createBookingRequest struct {
	HotelID         int64  `json:"hotel_id" validate:"required,gt=0"`
	RoomID          int64  `json:"room_id" validate:"required,gt=0"`
	CheckIn         string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests          int    `json:"guests" validate:"required,gte=1,lte=10"`
	SpecialRequests string `json:"special_requests" validate:"max=2000"`
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == 0 {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}
	checkIn := parseDate(req.CheckIn)
	checkOut := parseDate(req.CheckOut)

	b, err := h.B.CreateBooking(r.Context(), app.BookingInput{
		UserID: uid, HotelID: req.HotelID, RoomID: req.RoomID,
		CheckIn: *checkIn, CheckOut: *checkOut, Guests: req.Guests,
		SpecialRequests: req.SpecialRequests,
	})
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "room not found")
	case errors.Is(err, domain.ErrRoomUnavailable):
		writeProblem(w, http.StatusConflict, "Conflict", "room is not available")
	case err != nil:
		writeProblem(w, http.StatusBadRequest, "Booking failed", err.Error())
	default:
		writeJSON(w, http.StatusCreated, b)
	}
}

// ---- recommendations ----

func (h *Handlers) recommendations(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	req := recommend.Request{
		UserID:   userID(r),
		City:     qs.Get("city"),
		Area:     qs.Get("area"),
		CheckIn:  parseDate(qs.Get("check_in")),
		CheckOut: parseDate(qs.Get("check_out")),
		Guests:   1,
		Limit:    recommend.DefaultLimit,
	}
	if g, err := strconv.Atoi(qs.Get("guests")); err == nil && g > 0 {
		req.Guests = g
	}
	if l, err := strconv.Atoi(qs.Get("limit")); err == nil && l > 0 && l <= 50 {
		req.Limit = l
	}

	hotels, err := h.R.Recommend(r.Context(), req)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Recommendations failed", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": hotels})
}
