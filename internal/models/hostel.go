package models

import (
	"time"
)

type HostelCategory string

const (
	CategoryBoys  HostelCategory = "boys"
	CategoryGirls HostelCategory = "girls"
	CategoryCoed  HostelCategory = "coed"
)

// RoomType is a bookable category of lodging unit within a hostel. Available
// is the live counter the booking workflow decrements and restores; it is
// never mutated anywhere else.
type RoomType struct {
	Label      string  `bson:"label" json:"label" validate:"required"`
	Capacity   int     `bson:"capacity" json:"capacity" validate:"required,gt=0"` // beds per unit
	Price      float64 `bson:"price" json:"price" validate:"required,gt=0"`       // per period
	TotalUnits int     `bson:"total_units" json:"total_units" validate:"required,gt=0"`
	Available  int     `bson:"available" json:"available" validate:"gte=0"`
}

type Facilities struct {
	WiFi     bool `bson:"wifi" json:"wifi"`
	Laundry  bool `bson:"laundry" json:"laundry"`
	Mess     bool `bson:"mess" json:"mess"`
	Parking  bool `bson:"parking" json:"parking"`
	Security bool `bson:"security" json:"security"`
}

type Contact struct {
	Phone string `bson:"phone" json:"phone" validate:"required"`
	Email string `bson:"email" json:"email" validate:"required,email"`
}

type Hostel struct {
	// Code is the public identity, e.g. "HST-ABC123". Unique index on the
	// collection.
	Code     string         `bson:"code" json:"code"`
	Name     string         `bson:"name" json:"name" validate:"required"`
	Location string         `bson:"location" json:"location" validate:"required"`
	Category HostelCategory `bson:"category" json:"category" validate:"required,oneof=boys girls coed"`

	Rules    []string `bson:"rules,omitempty" json:"rules,omitempty"`
	FoodMenu []string `bson:"food_menu,omitempty" json:"food_menu,omitempty"`

	Facilities Facilities `bson:"facilities" json:"facilities"`
	Contact    Contact    `bson:"contact" json:"contact"`

	RoomTypes []RoomType `bson:"room_types" json:"room_types" validate:"required,min=1,dive"`

	OwnerID   string    `bson:"owner_id" json:"owner_id,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RoomTypeByLabel returns the room type with the given label, or nil.
func (h *Hostel) RoomTypeByLabel(label string) *RoomType {
	for i := range h.RoomTypes {
		if h.RoomTypes[i].Label == label {
			return &h.RoomTypes[i]
		}
	}
	return nil
}

// hostelIdentityFields can never change after creation. Update requests
// naming any of them are rejected outright.
var hostelIdentityFields = map[string]struct{}{
	"_id":        {},
	"code":       {},
	"owner_id":   {},
	"created_at": {},
}

func IsHostelIdentityField(field string) bool {
	_, ok := hostelIdentityFields[field]
	return ok
}
