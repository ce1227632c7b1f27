package booking

import (
	"time"

	"coastline/villas/internal/models"
)

// BuildDocument maps a validated submission to the stored booking request shape.
// Status and creation time are always assigned here, never taken from the client.
func BuildDocument(sub *models.BookingSubmission, now time.Time) *models.BookingRequestDocument {
	return &models.BookingRequestDocument{
		Type:           models.BookingRequestType,
		GuestName:      sub.GuestName,
		GuestEmail:     sub.GuestEmail,
		GuestPhone:     sub.GuestPhone,
		CheckInDate:    sub.CheckInDate,
		CheckOutDate:   sub.CheckOutDate,
		NumberOfGuests: sub.NumberOfGuests,
		FoodPreference: sub.FoodPreference,
		Status:         models.BookingStatusPending,
		CreatedAt:      now.UTC(),
		VillaReference: models.Reference{
			Type: "reference",
			Ref:  sub.VillaID,
		},
		VillaNameSnapshot: sub.VillaName,
	}
}
