package mysql

// hotelColumns is the shared SELECT list for hotel reads. review_count and
// booking_count are annotated the same way everywhere so the general ranking
// can tie-break on them without extra queries.
const hotelColumns = `
  h.id, h.name, h.description, h.hotel_type, h.city, h.area, h.address,
  h.lat, h.lon, h.amenities, h.star_rating, h.average_rating,
  (SELECT COUNT(*) FROM reviews r WHERE r.hotel_id = h.id)  AS review_count,
  (SELECT COUNT(*) FROM bookings b WHERE b.hotel_id = h.id) AS booking_count,
  h.images, h.contact_phone, h.contact_email, h.is_active, h.created_at`

const getHotelSQL = `
SELECT` + hotelColumns + `
FROM hotels h
WHERE h.id = ?`

const listActiveHotelsPrefix = `
SELECT` + hotelColumns + `
FROM hotels h
WHERE h.is_active = 1`

const insertHotelSQL = `
INSERT INTO hotels
  (name, description, hotel_type, city, area, address, lat, lon, amenities,
   star_rating, average_rating, images, contact_phone, contact_email, is_active)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const updateHotelSQL = `
UPDATE hotels SET
  name = ?, description = ?, hotel_type = ?, city = ?, area = ?, address = ?,
  lat = ?, lon = ?, amenities = ?, star_rating = ?, average_rating = ?,
  images = ?, contact_phone = ?, contact_email = ?, is_active = ?,
  updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

const insertRoomSQL = `
INSERT INTO rooms
  (hotel_id, room_type, room_number, capacity, size_sqft, price_per_night,
   amenities, description, is_available)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id             = LAST_INSERT_ID(id),
  room_type      = VALUES(room_type),
  capacity       = VALUES(capacity),
  size_sqft      = VALUES(size_sqft),
  price_per_night = VALUES(price_per_night),
  amenities      = VALUES(amenities),
  description    = VALUES(description),
  is_available   = VALUES(is_available)`

const getRoomSQL = `
SELECT id, hotel_id, room_type, room_number, capacity, size_sqft,
       price_per_night, amenities, description, is_available
FROM rooms
WHERE id = ?`

const listRoomsSQL = `
SELECT id, hotel_id, room_type, room_number, capacity, size_sqft,
       price_per_night, amenities, description, is_available
FROM rooms
WHERE hotel_id = ?
ORDER BY price_per_night, id`

// ensureUserSQL keys on the unique username; LAST_INSERT_ID(id) makes the
// existing row's id observable through result.LastInsertId on conflict.
const ensureUserSQL = `
INSERT INTO users (username, email)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id), email = VALUES(email)`

const insertBookingSQL = `
INSERT INTO bookings
  (user_id, hotel_id, room_id, check_in_date, check_out_date, guests,
   total_amount, booking_status, special_requests, booking_reference)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertReviewSQL = `
INSERT INTO reviews
  (user_id, hotel_id, booking_id, rating, title, comment,
   cleanliness_rating, service_rating, location_rating, value_rating)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const listReviewsSQL = `
SELECT id, user_id, hotel_id, booking_id, rating, title, comment,
       cleanliness_rating, service_rating, location_rating, value_rating, created_at
FROM reviews
WHERE hotel_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`

const refreshHotelRatingSQL = `
UPDATE hotels h SET
  h.average_rating = COALESCE((SELECT AVG(r.rating) FROM reviews r WHERE r.hotel_id = h.id), 0),
  h.total_reviews  = (SELECT COUNT(*) FROM reviews r WHERE r.hotel_id = h.id)
WHERE h.id = ?`

// Interactions are append-only: a bare INSERT, never read-modify-write.
const insertInteractionSQL = `
INSERT INTO interactions (user_id, hotel_id, interaction_type, weight)
VALUES (?, ?, ?, ?)`

const insertSearchSQL = `
INSERT INTO search_history
  (user_id, city, area, check_in_date, check_out_date, guests, min_price, max_price, amenities)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const upsertPreferenceSQL = `
INSERT INTO user_preferences (user_id, locations, amenities, price_from, price_to)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  locations  = VALUES(locations),
  amenities  = VALUES(amenities),
  price_from = VALUES(price_from),
  price_to   = VALUES(price_to)`

const findPreferenceSQL = `
SELECT user_id, locations, amenities, price_from, price_to
FROM user_preferences
WHERE user_id = ?`

// The two "recent" reads below order by descending creation time; profile
// construction takes the first N rows, so this ordering is contractual.
const recentBookedHotelsSQL = `
SELECT` + hotelColumns + `
FROM bookings b
JOIN hotels h ON h.id = b.hotel_id
WHERE b.user_id = ?
ORDER BY b.created_at DESC, b.id DESC
LIMIT ?`

const recentReviewedHotelsSQL = `
SELECT r.rating,` + hotelColumns + `
FROM reviews r
JOIN hotels h ON h.id = r.hotel_id
WHERE r.user_id = ?
ORDER BY r.created_at DESC, r.id DESC
LIMIT ?`

const recentSearchesSQL = `
SELECT id, user_id, city, area, check_in_date, check_out_date, guests,
       min_price, max_price, amenities, created_at
FROM search_history
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`

// Signal scans order by id so training-row order (and therefore the seeded
// model fit) is reproducible.
const reviewSignalsPrefix = `
SELECT user_id, hotel_id, rating
FROM reviews
WHERE hotel_id IN `

const interactionSignalsPrefix = `
SELECT user_id, hotel_id, weight
FROM interactions
WHERE hotel_id IN `

const signalsSuffix = ` ORDER BY id`
