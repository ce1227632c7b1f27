package bookingform

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"coastline/villas/internal/models"
)

const (
	MsgMissingVilla   = "No villa selected. Please choose a villa before booking."
	MsgInvalidGuests  = "Number of guests must be a whole number."
	MsgUnreachable    = "Could not reach the booking service. Please try again."
	MsgUnknownFailure = "Failed to submit booking request."
)

var (
	ErrFormLocked   = errors.New("form is not accepting input")
	ErrUnknownField = errors.New("unknown form field")
)

// Field names a controlled input.
type Field string

const (
	FieldName           Field = "name"
	FieldEmail          Field = "email"
	FieldPhone          Field = "phone"
	FieldCheckIn        Field = "checkIn"
	FieldCheckOut       Field = "checkOut"
	FieldGuests         Field = "guests"
	FieldFoodPreference Field = "foodPreference"
)

// Values are the raw input strings as the guest typed them.
type Values struct {
	Name           string
	Email          string
	Phone          string
	CheckIn        string
	CheckOut       string
	Guests         string
	FoodPreference string
}

func emptyValues() Values {
	return Values{FoodPreference: models.FoodWithout}
}

// Villa is the booking target, carried over from the page the guest came from.
type Villa struct {
	ID               string
	Name             string
	PriceWithFood    float64
	PriceWithoutFood float64
}

// Form is a booking form bound to one Submitter. It is safe for concurrent use and
// allows a single submission in flight.
type Form struct {
	submitter Submitter

	mu     sync.Mutex
	values Values
	villa  Villa
	state  State
}

func NewForm(submitter Submitter) *Form {
	return &Form{
		submitter: submitter,
		values:    emptyValues(),
		state:     Editing{},
	}
}

// SelectVilla sets the villa being booked.
func (f *Form) SelectVilla(v Villa) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.villa = v
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *Form) Villa() Villa {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.villa
}

// Set updates one input. It fails with ErrFormLocked while a submission is in flight or
// the confirmation view is shown.
func (f *Form) Set(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !acceptsInput(f.state) {
		return ErrFormLocked
	}

	switch field {
	case FieldName:
		f.values.Name = value
	case FieldEmail:
		f.values.Email = value
	case FieldPhone:
		f.values.Phone = value
	case FieldCheckIn:
		f.values.CheckIn = value
	case FieldCheckOut:
		f.values.CheckOut = value
	case FieldGuests:
		f.values.Guests = value
	case FieldFoodPreference:
		f.values.FoodPreference = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// QuotedNightlyRate is the villa's price for the chosen food preference.
func (f *Form) QuotedNightlyRate() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values.FoodPreference == models.FoodWith {
		return f.villa.PriceWithFood
	}
	return f.villa.PriceWithoutFood
}

// Submit sends the form once and returns the resulting state. Local problems (no villa,
// unparsable guest count) fail without a network call.
func (f *Form) Submit(ctx context.Context) (State, error) {
	f.mu.Lock()
	if !acceptsInput(f.state) {
		f.mu.Unlock()
		return nil, ErrFormLocked
	}

	if f.villa.ID == "" {
		f.state = Failed{Message: MsgMissingVilla}
		f.mu.Unlock()
		return Failed{Message: MsgMissingVilla}, nil
	}

	sub, err := buildSubmission(f.values, f.villa)
	if err != nil {
		f.state = Failed{Message: MsgInvalidGuests}
		f.mu.Unlock()
		return Failed{Message: MsgInvalidGuests}, nil
	}

	f.state = Submitting{}
	f.mu.Unlock()

	bookingID, err := f.submitter.Submit(ctx, sub)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = Failed{Message: failureMessage(err)}
		return f.state, nil
	}
	f.values = emptyValues()
	f.state = Submitted{BookingID: bookingID}
	return f.state, nil
}

// Reset leaves the confirmation view for a fresh form ("make another booking").
// The selected villa is kept.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.state.(Submitting); busy {
		return
	}
	f.values = emptyValues()
	f.state = Editing{}
}

func buildSubmission(v Values, villa Villa) (*models.BookingSubmission, error) {
	sub := &models.BookingSubmission{
		GuestName:      v.Name,
		GuestEmail:     v.Email,
		GuestPhone:     v.Phone,
		CheckInDate:    v.CheckIn,
		CheckOutDate:   v.CheckOut,
		FoodPreference: v.FoodPreference,
		VillaID:        villa.ID,
		VillaName:      villa.Name,
	}
	if guests := strings.TrimSpace(v.Guests); guests != "" {
		n, err := strconv.Atoi(guests)
		if err != nil {
			return nil, err
		}
		sub.NumberOfGuests = &n
	}
	return sub, nil
}

func failureMessage(err error) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		if serverErr.Message != "" {
			return serverErr.Message
		}
		return MsgUnknownFailure
	}
	return MsgUnreachable
}
