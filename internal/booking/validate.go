package booking

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"coastline/villas/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report wire names (guestName) rather than Go field names (GuestName).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeSubmission reads a booking submission from a JSON body.
// Unknown keys and wrongly typed values are rejected; an empty body decodes to an empty
// submission so that the presence check reports it.
func DecodeSubmission(r io.Reader) (*models.BookingSubmission, error) {
	var sub models.BookingSubmission
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sub); err != nil {
		if errors.Is(err, io.EOF) {
			return &sub, nil
		}
		return nil, &ValidationError{Kind: ValidationInvalid, Err: err}
	}
	return &sub, nil
}

// Validate checks that guestName, villaId and checkInDate are present and that
// foodPreference, if given, is one of the known values. It performs no date, guest-count
// or contact-format checks.
func Validate(sub *models.BookingSubmission) error {
	if sub == nil {
		return &ValidationError{Kind: ValidationMissing, Fields: []string{"guestName", "villaId", "checkInDate"}}
	}

	err := validate.Struct(sub)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Kind: ValidationInvalid, Err: err}
	}

	var missing, invalid []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Kind: ValidationMissing, Fields: missing}
	}
	return &ValidationError{Kind: ValidationInvalid, Fields: invalid}
}
