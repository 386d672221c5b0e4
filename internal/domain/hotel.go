package domain

import "time"

type HotelType string

const (
	HotelBudget   HotelType = "budget"
	HotelMidRange HotelType = "mid_range"
	HotelLuxury   HotelType = "luxury"
	HotelResort   HotelType = "resort"
	HotelBoutique HotelType = "boutique"
)

type Hotel struct {
	ID            int64
	Name          string
	Description   string
	Type          HotelType
	City          string
	Area          string
	Address       string
	Lat, Lon      *float64
	Amenities     []string
	StarRating    int
	AverageRating float64 // 0 when unreviewed, else within [0,5]
	ReviewCount   int
	BookingCount  int
	Images        []string
	ContactPhone  string
	ContactEmail  string
	Active        bool
	CreatedAt     time.Time
}

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTwin   RoomType = "twin"
	RoomSuite  RoomType = "suite"
	RoomFamily RoomType = "family"
	RoomDeluxe RoomType = "deluxe"
)

type Room struct {
	ID            int64
	HotelID       int64
	Type          RoomType
	Number        string
	Capacity      int
	SizeSqft      *int
	PricePerNight float64
	Amenities     []string
	Description   string
	Available     bool
}
