package contentstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coastline/villas/internal/models"
)

type recordingWriteClient struct {
	slugs   map[string]bool
	failFor string
}

func (r *recordingWriteClient) CreateBookingRequest(ctx context.Context, doc *models.BookingRequestDocument) (string, error) {
	return "", errors.New("not used")
}

func (r *recordingWriteClient) ImportVilla(ctx context.Context, v *models.Villa) (string, error) {
	if v.Slug == r.failFor {
		return "", errors.New("connection reset")
	}
	if r.slugs[v.Slug] {
		return "", fmt.Errorf("%w: %s", ErrDuplicateSlug, v.Slug)
	}
	r.slugs[v.Slug] = true
	return "id-" + v.Slug, nil
}

func (r *recordingWriteClient) EnsureIndexes(ctx context.Context) error { return nil }

func validVilla(slug string) models.Villa {
	return models.Villa{
		Name:             "Ocean Breeze Villa",
		Slug:             slug,
		Location:         "Uluwatu, Bali",
		Tagline:          "Cliffside calm",
		Gallery:          []models.ImageRef{{AssetRef: "image-abc-800x600-jpg"}},
		PriceWithFood:    320,
		PriceWithoutFood: 250,
		Bedrooms:         3,
		Bathrooms:        2,
		MaxGuests:        6,
		Amenities:        []string{"Pool"},
	}
}

func TestValidateVilla(t *testing.T) {
	v := validVilla("ocean-breeze")
	assert.NoError(t, ValidateVilla(&v))

	v.Tagline = strings.Repeat("x", 61)
	v.Gallery = nil
	v.Bedrooms = 0
	err := ValidateVilla(&v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tagline (max)")
	assert.Contains(t, err.Error(), "gallery (min)")
	assert.Contains(t, err.Error(), "bedrooms (gte)")

	v = validVilla("x")
	v.Gallery = []models.ImageRef{{}}
	err = ValidateVilla(&v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assetRef (required)")
}

func TestDecodeVillas(t *testing.T) {
	villas, err := DecodeVillas(strings.NewReader(`[{"name":"A","slug":"a"}]`))
	require.NoError(t, err)
	require.Len(t, villas, 1)
	assert.Equal(t, "a", villas[0].Slug)

	_, err = DecodeVillas(strings.NewReader(`[{"nom":"A"}]`))
	assert.Error(t, err)
}

func TestImportVillas(t *testing.T) {
	wc := &recordingWriteClient{slugs: map[string]bool{"taken": true}}
	bad := validVilla("bad")
	bad.Name = ""

	res, err := ImportVillas(context.Background(), wc, []models.Villa{validVilla("first"), validVilla("taken"), bad, validVilla("second")})
	require.NoError(t, err)
	assert.Equal(t, []string{"id-first", "id-second"}, res.Imported)
	assert.Equal(t, []string{"taken"}, res.Skipped)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 2, res.Failed[0].Index)
	assert.Equal(t, "bad", res.Failed[0].Slug)
}

func TestImportVillas_CountsEveryRejectedVilla(t *testing.T) {
	wc := &recordingWriteClient{slugs: map[string]bool{}}
	noSlug := validVilla("")
	noName := validVilla("dup")
	noName.Name = ""
	noLocation := validVilla("dup")
	noLocation.Location = ""

	res, err := ImportVillas(context.Background(), wc, []models.Villa{noSlug, noSlug, noName, noLocation})
	require.NoError(t, err)
	require.Len(t, res.Failed, 4)
	for i, f := range res.Failed {
		assert.Equal(t, i, f.Index)
		assert.Error(t, f.Err)
	}
	assert.Empty(t, res.Imported)
}

func TestImportVillas_StopsOnStoreError(t *testing.T) {
	wc := &recordingWriteClient{slugs: map[string]bool{}, failFor: "boom"}

	res, err := ImportVillas(context.Background(), wc, []models.Villa{validVilla("ok"), validVilla("boom"), validVilla("never")})
	require.Error(t, err)
	assert.Equal(t, []string{"id-ok"}, res.Imported)
	assert.False(t, wc.slugs["never"])
}
