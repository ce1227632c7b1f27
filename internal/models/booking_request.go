package models

import "time"

// BookingStatus is the lifecycle state of a booking request. Only BookingStatusPending is
// ever written by this service; confirmation happens out-of-band.
type BookingStatus string

const (
	BookingStatusPending BookingStatus = "pending"
)

const (
	FoodWith    = "with"
	FoodWithout = "without"
)

const BookingRequestType = "bookingRequest"

// BookingSubmission is the inbound JSON body of POST /api/submit-booking.
// Presence rules are expressed as validator tags; everything else is optional.
type BookingSubmission struct {
	GuestName      string `json:"guestName" validate:"required"`
	GuestEmail     string `json:"guestEmail,omitempty"`
	GuestPhone     string `json:"guestPhone,omitempty"`
	CheckInDate    string `json:"checkInDate" validate:"required"`
	CheckOutDate   string `json:"checkOutDate,omitempty"`
	NumberOfGuests *int   `json:"numberOfGuests,omitempty"`
	FoodPreference string `json:"foodPreference,omitempty" validate:"omitempty,oneof=with without"`
	VillaID        string `json:"villaId" validate:"required"`
	VillaName      string `json:"villaName,omitempty"`
}

// Reference is a weak link to another content-store document by id.
type Reference struct {
	Type string `bson:"_type" json:"_type"` // always "reference"
	Ref  string `bson:"_ref" json:"_ref"`
}

// BookingRequestDocument is the persisted shape of a booking request.
type BookingRequestDocument struct {
	ID                string        `bson:"_id,omitempty" json:"_id,omitempty"`
	Type              string        `bson:"_type" json:"_type"`
	GuestName         string        `bson:"guestName" json:"guestName"`
	GuestEmail        string        `bson:"guestEmail,omitempty" json:"guestEmail,omitempty"`
	GuestPhone        string        `bson:"guestPhone,omitempty" json:"guestPhone,omitempty"`
	CheckInDate       string        `bson:"checkInDate" json:"checkInDate"`
	CheckOutDate      string        `bson:"checkOutDate,omitempty" json:"checkOutDate,omitempty"`
	NumberOfGuests    *int          `bson:"numberOfGuests,omitempty" json:"numberOfGuests,omitempty"`
	FoodPreference    string        `bson:"foodPreference,omitempty" json:"foodPreference,omitempty"`
	Status            BookingStatus `bson:"status" json:"status"`
	CreatedAt         time.Time     `bson:"createdAt" json:"createdAt"`
	VillaReference    Reference     `bson:"villaReference" json:"villaReference"`
	VillaNameSnapshot string        `bson:"villaNameSnapshot,omitempty" json:"villaNameSnapshot,omitempty"`
}
