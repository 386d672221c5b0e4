package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"stayfinder/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- hotels ----

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	amen, _ := json.Marshal(h.Amenities)
	imgs, _ := json.Marshal(h.Images)
	if h.ID == 0 {
		res, err := r.db.ExecContext(ctx, insertHotelSQL,
			h.Name, h.Description, string(h.Type), h.City, h.Area, h.Address,
			valF64(h.Lat), valF64(h.Lon), string(amen),
			h.StarRating, h.AverageRating, string(imgs),
			h.ContactPhone, h.ContactEmail, h.Active,
		)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, h.Description, string(h.Type), h.City, h.Area, h.Address,
		valF64(h.Lat), valF64(h.Lon), string(amen),
		h.StarRating, h.AverageRating, string(imgs),
		h.ContactPhone, h.ContactEmail, h.Active,
		h.ID,
	)
	return h.ID, err
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if err == sql.ErrNoRows {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

func (r *Repo) ListActiveHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	var sb strings.Builder
	sb.WriteString(listActiveHotelsPrefix)
	var args []any

	if q.City != "" {
		sb.WriteString(" AND h.city LIKE CONCAT('%', ?, '%')")
		args = append(args, q.City)
	}
	if q.Area != "" {
		sb.WriteString(" AND h.area LIKE CONCAT('%', ?, '%')")
		args = append(args, q.Area)
	}
	if q.Type != nil {
		sb.WriteString(" AND h.hotel_type = ?")
		args = append(args, string(*q.Type))
	}
	if q.Guests > 0 {
		sb.WriteString(" AND EXISTS (SELECT 1 FROM rooms rm WHERE rm.hotel_id = h.id AND rm.is_available = 1 AND rm.capacity >= ?)")
		args = append(args, q.Guests)
	}
	if q.MinPrice != nil {
		sb.WriteString(" AND EXISTS (SELECT 1 FROM rooms rm WHERE rm.hotel_id = h.id AND rm.price_per_night >= ?)")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		sb.WriteString(" AND EXISTS (SELECT 1 FROM rooms rm WHERE rm.hotel_id = h.id AND rm.price_per_night <= ?)")
		args = append(args, *q.MaxPrice)
	}
	sb.WriteString(" ORDER BY h.average_rating DESC, h.name, h.id")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ---- rooms ----

func (r *Repo) UpsertRoom(ctx context.Context, rm domain.Room) (int64, error) {
	amen, _ := json.Marshal(rm.Amenities)
	res, err := r.db.ExecContext(ctx, insertRoomSQL,
		rm.HotelID, string(rm.Type), rm.Number, rm.Capacity, valInt(rm.SizeSqft),
		rm.PricePerNight, string(amen), rm.Description, rm.Available,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, getRoomSQL, id))
	if err == sql.ErrNoRows {
		return domain.Room{}, domain.ErrNotFound
	}
	return rm, err
}

func (r *Repo) ListRooms(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// ---- users / bookings / reviews ----

func (r *Repo) EnsureUser(ctx context.Context, username, email string) (int64, error) {
	res, err := r.db.ExecContext(ctx, ensureUserSQL, username, email)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.UserID, b.HotelID, b.RoomID, b.CheckIn, b.CheckOut, b.Guests,
		b.TotalAmount, string(b.Status), b.SpecialRequests, b.Reference,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) CreateReview(ctx context.Context, rv domain.Review) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.UserID, rv.HotelID, valInt64(rv.BookingID), rv.Rating, rv.Title, rv.Comment,
		valInt(rv.Cleanliness), valInt(rv.Service), valInt(rv.Location), valInt(rv.Value),
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 { // unique (user_id, hotel_id)
			return 0, domain.ErrDuplicateReview
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) ListReviews(ctx context.Context, hotelID int64, limit int) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, hotelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var bookingID sql.NullInt64
		var clean, svc, loc, val sql.NullInt64
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.HotelID, &bookingID, &rv.Rating, &rv.Title, &rv.Comment,
			&clean, &svc, &loc, &val, &rv.CreatedAt,
		); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			rv.BookingID = &bookingID.Int64
		}
		rv.Cleanliness = nullableInt(clean)
		rv.Service = nullableInt(svc)
		rv.Location = nullableInt(loc)
		rv.Value = nullableInt(val)
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) RefreshHotelRating(ctx context.Context, hotelID int64) error {
	_, err := r.db.ExecContext(ctx, refreshHotelRatingSQL, hotelID)
	return err
}

// ---- signals ----

func (r *Repo) AddInteraction(ctx context.Context, in domain.Interaction) error {
	_, err := r.db.ExecContext(ctx, insertInteractionSQL,
		in.UserID, in.HotelID, string(in.Type), in.Weight)
	return err
}

func (r *Repo) AddSearch(ctx context.Context, sh domain.SearchHistory) error {
	amen, _ := json.Marshal(sh.Amenities)
	_, err := r.db.ExecContext(ctx, insertSearchSQL,
		sh.UserID, sh.City, sh.Area, sh.CheckIn, sh.CheckOut, sh.Guests,
		valF64(sh.MinPrice), valF64(sh.MaxPrice), string(amen),
	)
	return err
}

func (r *Repo) SavePreference(ctx context.Context, p domain.UserPreference) error {
	locs, _ := json.Marshal(p.Locations)
	amen, _ := json.Marshal(p.Amenities)
	_, err := r.db.ExecContext(ctx, upsertPreferenceSQL,
		p.UserID, string(locs), string(amen), valF64(p.PriceFrom), valF64(p.PriceTo))
	return err
}

func (r *Repo) FindPreference(ctx context.Context, userID int64) (*domain.UserPreference, error) {
	var p domain.UserPreference
	var locs, amen []byte
	var from, to sql.NullFloat64
	err := r.db.QueryRowContext(ctx, findPreferenceSQL, userID).
		Scan(&p.UserID, &locs, &amen, &from, &to)
	if err == sql.ErrNoRows {
		return nil, nil // absence is a valid state
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(locs, &p.Locations)
	_ = json.Unmarshal(amen, &p.Amenities)
	if from.Valid {
		p.PriceFrom = &from.Float64
	}
	if to.Valid {
		p.PriceTo = &to.Float64
	}
	return &p, nil
}

func (r *Repo) RecentBookedHotels(ctx context.Context, userID int64, n int) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, recentBookedHotelsSQL, userID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) RecentReviewedHotels(ctx context.Context, userID int64, n int) ([]domain.ReviewedHotel, error) {
	rows, err := r.db.QueryContext(ctx, recentReviewedHotelsSQL, userID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReviewedHotel
	for rows.Next() {
		var rv domain.ReviewedHotel
		h, err := scanHotelWith(rows, &rv.Rating)
		if err != nil {
			return nil, err
		}
		rv.Hotel = h
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) RecentSearches(ctx context.Context, userID int64, n int) ([]domain.SearchHistory, error) {
	rows, err := r.db.QueryContext(ctx, recentSearchesSQL, userID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SearchHistory
	for rows.Next() {
		var sh domain.SearchHistory
		var minP, maxP sql.NullFloat64
		var amen []byte
		if err := rows.Scan(
			&sh.ID, &sh.UserID, &sh.City, &sh.Area, &sh.CheckIn, &sh.CheckOut,
			&sh.Guests, &minP, &maxP, &amen, &sh.CreatedAt,
		); err != nil {
			return nil, err
		}
		if minP.Valid {
			sh.MinPrice = &minP.Float64
		}
		if maxP.Valid {
			sh.MaxPrice = &maxP.Float64
		}
		_ = json.Unmarshal(amen, &sh.Amenities)
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (r *Repo) ReviewSignals(ctx context.Context, hotelIDs []int64) ([]domain.RatingSignal, error) {
	if len(hotelIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		reviewSignalsPrefix+placeholders(len(hotelIDs))+signalsSuffix,
		int64Args(hotelIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RatingSignal
	for rows.Next() {
		var s domain.RatingSignal
		if err := rows.Scan(&s.UserID, &s.HotelID, &s.Rating); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) InteractionSignals(ctx context.Context, hotelIDs []int64) ([]domain.InteractionSignal, error) {
	if len(hotelIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		interactionSignalsPrefix+placeholders(len(hotelIDs))+signalsSuffix,
		int64Args(hotelIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.InteractionSignal
	for rows.Next() {
		var s domain.InteractionSignal
		if err := rows.Scan(&s.UserID, &s.HotelID, &s.Weight); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ---- scanning helpers ----

type rowScanner interface{ Scan(dest ...any) error }

func scanHotel(row rowScanner) (domain.Hotel, error) {
	return scanHotelInto(row, nil)
}

// scanHotelWith handles queries that prefix the hotel columns with extras.
func scanHotelWith(row rowScanner, extra *int) (domain.Hotel, error) {
	return scanHotelInto(row, extra)
}

func scanHotelInto(row rowScanner, leading *int) (domain.Hotel, error) {
	var h domain.Hotel
	var typ string
	var lat, lon sql.NullFloat64
	var amenities, images []byte

	dest := []any{
		&h.ID, &h.Name, &h.Description, &typ, &h.City, &h.Area, &h.Address,
		&lat, &lon, &amenities, &h.StarRating, &h.AverageRating,
		&h.ReviewCount, &h.BookingCount,
		&images, &h.ContactPhone, &h.ContactEmail, &h.Active, &h.CreatedAt,
	}
	if leading != nil {
		dest = append([]any{leading}, dest...)
	}
	if err := row.Scan(dest...); err != nil {
		return domain.Hotel{}, err
	}
	h.Type = domain.HotelType(typ)
	if lat.Valid {
		h.Lat = &lat.Float64
	}
	if lon.Valid {
		h.Lon = &lon.Float64
	}
	_ = json.Unmarshal(amenities, &h.Amenities)
	_ = json.Unmarshal(images, &h.Images)
	return h, nil
}

func scanRoom(row rowScanner) (domain.Room, error) {
	var rm domain.Room
	var typ string
	var size sql.NullInt64
	var amenities []byte
	if err := row.Scan(
		&rm.ID, &rm.HotelID, &typ, &rm.Number, &rm.Capacity, &size,
		&rm.PricePerNight, &amenities, &rm.Description, &rm.Available,
	); err != nil {
		return domain.Room{}, err
	}
	rm.Type = domain.RoomType(typ)
	rm.SizeSqft = nullableInt(size)
	_ = json.Unmarshal(amenities, &rm.Amenities)
	return rm, nil
}

func placeholders(n int) string {
	return "(?" + strings.Repeat(",?", n-1) + ")"
}

func int64Args(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
