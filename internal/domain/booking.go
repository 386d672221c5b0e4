package domain

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

type Booking struct {
	ID              int64
	UserID          int64
	HotelID         int64
	RoomID          int64
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	TotalAmount     float64
	Status          BookingStatus
	SpecialRequests string
	Reference       string // 8-char uppercase, unique
	CreatedAt       time.Time
}

func (b Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
