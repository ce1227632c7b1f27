package contentstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"coastline/villas/internal/models"
)

var villaValidate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}()

// DecodeVillas reads a JSON array of villas.
func DecodeVillas(r io.Reader) ([]models.Villa, error) {
	var villas []models.Villa
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&villas); err != nil {
		return nil, fmt.Errorf("failed to decode villas: %w", err)
	}
	return villas, nil
}

// ValidateVilla checks a villa against the content schema and names every failing field.
func ValidateVilla(v *models.Villa) error {
	err := villaValidate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid villa %q: %s", v.Slug, strings.Join(fields, ", "))
}

// ImportFailure is a villa rejected by validation. Index is its position in the input,
// since the slug may be empty or repeated.
type ImportFailure struct {
	Index int
	Slug  string
	Err   error
}

// ImportResult summarises one ImportVillas run.
type ImportResult struct {
	Imported []string
	Skipped  []string // slug already present
	Failed   []ImportFailure
}

// ImportVillas validates and inserts each villa. Invalid villas are not sent; a
// duplicate slug is skipped; any other insert error stops the run.
func ImportVillas(ctx context.Context, wc WriteClient, villas []models.Villa) (*ImportResult, error) {
	res := &ImportResult{}
	for i := range villas {
		v := &villas[i]
		if err := ValidateVilla(v); err != nil {
			res.Failed = append(res.Failed, ImportFailure{Index: i, Slug: v.Slug, Err: err})
			continue
		}
		id, err := wc.ImportVilla(ctx, v)
		if errors.Is(err, ErrDuplicateSlug) {
			log.Printf("WARN: Villa %s already exists, skipping.", v.Slug)
			res.Skipped = append(res.Skipped, v.Slug)
			continue
		}
		if err != nil {
			return res, err
		}
		res.Imported = append(res.Imported, id)
	}
	return res, nil
}
