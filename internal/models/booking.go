package models

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// bookingTransitions is the full set of legal status moves. Every status
// change in the system goes through CanTransition; handlers never flip the
// field ad hoc.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled},
	BookingCancelled: {},
}

func (s BookingStatus) CanTransition(to BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsActive reports whether the booking still holds a room unit.
func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Booking struct {
	ID     string `bson:"_id" json:"id"`
	UserID string `bson:"user_id" json:"user_id"`

	// HostelCode is the single stored reference to the hostel; bookings are
	// resolved by code lookup like every other operation.
	HostelCode string `bson:"hostel_code" json:"hostel_code" validate:"required"`
	RoomType   string `bson:"room_type" json:"room_type" validate:"required"`

	CheckIn  time.Time `bson:"check_in" json:"check_in" validate:"required"`
	CheckOut time.Time `bson:"check_out" json:"check_out" validate:"required"`

	GuestName   string `bson:"guest_name" json:"guest_name" validate:"required"`
	GuestEmail  string `bson:"guest_email" json:"guest_email" validate:"required,email"`
	GuestPhone  string `bson:"guest_phone" json:"guest_phone" validate:"required"`
	GuestGender string `bson:"guest_gender" json:"guest_gender" validate:"required,oneof=male female other"`

	Amount float64 `bson:"amount" json:"amount" validate:"required,gt=0"`

	PaymentOrderID string `bson:"payment_order_id" json:"payment_order_id" validate:"required"`
	PaymentID      string `bson:"payment_id" json:"payment_id" validate:"required"`

	Status    BookingStatus `bson:"status" json:"status"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// Receipt is the read-only projection of a confirmed booking. Distinct from
// the payment gateway's receipt token.
type Receipt struct {
	BookingID  string    `json:"booking_id"`
	HostelCode string    `json:"hostel_code"`
	RoomType   string    `json:"room_type"`
	GuestName  string    `json:"guest_name"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Amount     float64   `json:"amount"`
	PaymentID  string    `json:"payment_id"`
	IssuedAt   time.Time `json:"issued_at"`
}
