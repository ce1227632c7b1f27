package tasks

import (
	"github.com/hibiken/asynq"

	"coastline/villas/internal/models"
)

// BookingNotificationTasks builds the mail tasks for a stored booking request: one to the
// operator when operatorEmail is set and one to the guest when they left an address.
func BookingNotificationTasks(doc *models.BookingRequestDocument, bookingID, operatorEmail, appName string) ([]*asynq.Task, error) {
	data := map[string]interface{}{
		"bookingId":      bookingID,
		"appName":        appName,
		"guestName":      doc.GuestName,
		"guestEmail":     doc.GuestEmail,
		"guestPhone":     doc.GuestPhone,
		"checkInDate":    doc.CheckInDate,
		"checkOutDate":   doc.CheckOutDate,
		"foodPreference": doc.FoodPreference,
		"villaId":        doc.VillaReference.Ref,
		"villaName":      doc.VillaNameSnapshot,
	}
	if doc.NumberOfGuests != nil {
		data["numberOfGuests"] = *doc.NumberOfGuests
	}
	if doc.VillaNameSnapshot == "" {
		data["villaName"] = doc.VillaReference.Ref
	}

	var out []*asynq.Task
	if operatorEmail != "" {
		t, err := NewEmailDeliveryTask(EmailTaskPayload{To: operatorEmail, TemplateID: TemplateBookingOperator, Data: data})
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if doc.GuestEmail != "" {
		t, err := NewEmailDeliveryTask(EmailTaskPayload{To: doc.GuestEmail, TemplateID: TemplateBookingGuestAck, Data: data})
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
