package contentstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coastline/villas/internal/booking"
	"coastline/villas/internal/config"
	"coastline/villas/internal/models"
	"coastline/villas/internal/utils"
)

func TestCheckWriteConfig(t *testing.T) {
	full := config.ContentWriteConfig{ProjectID: "p", Dataset: "d", WriteToken: "t"}
	assert.NoError(t, CheckWriteConfig(full))

	err := CheckWriteConfig(config.ContentWriteConfig{ProjectID: "p", Dataset: "d"})
	cfgErr := booking.IsConfigurationError(err)
	require.NotNil(t, cfgErr)
	assert.Equal(t, []string{"CONTENT_WRITE_TOKEN"}, cfgErr.Missing)

	err = CheckWriteConfig(config.ContentWriteConfig{})
	cfgErr = booking.IsConfigurationError(err)
	require.NotNil(t, cfgErr)
	assert.Equal(t, []string{"CONTENT_PROJECT_ID", "CONTENT_DATASET", "CONTENT_WRITE_TOKEN"}, cfgErr.Missing)
}

func TestMongoWriteClientFactory_MissingTokenNeverConnects(t *testing.T) {
	f := NewMongoWriteClientFactory("mongodb://unreachable.invalid:27017", config.ContentWriteConfig{ProjectID: "p", Dataset: "d"})

	wc, err := f.NewWriteClient(context.Background())
	assert.Nil(t, wc)
	require.NotNil(t, booking.IsConfigurationError(err))
	assert.Nil(t, f.client)
	assert.NoError(t, f.Close())
}

func TestConfigurationErrorDoesNotLeakValues(t *testing.T) {
	err := CheckWriteConfig(config.ContentWriteConfig{ProjectID: "", Dataset: "d", WriteToken: "sk-very-secret"})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "sk-very-secret")
}

func TestReadClient_ClampLimit(t *testing.T) {
	r := NewReadClient(nil, nil, 6)
	assert.Equal(t, 6, r.ClampLimit(0))
	assert.Equal(t, 6, r.ClampLimit(-3))
	assert.Equal(t, 10, r.ClampLimit(10))
	assert.Equal(t, MaxVillaListLimit, r.ClampLimit(500))

	assert.Equal(t, 6, NewReadClient(nil, nil, 0).defaultLimit)
}

// memoryCache is a QueryCache backed by a map, enough to observe read-through behaviour.
type memoryCache struct {
	mu    sync.Mutex
	items map[string]interface{}
	sets  int
	fail  bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]interface{}{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, errors.New("cache down")
	}
	v, ok := m.items[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *[]models.Villa:
		*d = v.([]models.Villa)
	case *models.Villa:
		*d = v.(models.Villa)
	}
	return true, nil
}

func (m *memoryCache) Set(_ context.Context, key string, v interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("cache down")
	}
	m.sets++
	m.items[key] = v
	return nil
}

func TestReadClient_CacheHitSkipsStore(t *testing.T) {
	c := newMemoryCache()
	c.items["slug:ocean-breeze"] = models.Villa{Name: "Ocean Breeze Villa", Slug: "ocean-breeze"}
	c.items["list:6"] = []models.Villa{{Name: "Ocean Breeze Villa"}}

	// A nil database would panic if the store were touched.
	r := NewReadClient(nil, c, 6)

	villa, err := r.GetVillaBySlug(context.Background(), "ocean-breeze")
	require.NoError(t, err)
	assert.Equal(t, "Ocean Breeze Villa", villa.Name)

	villas, err := r.ListVillas(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, villas, 1)
}

func seedVilla(name, slug string, createdAt time.Time) *models.Villa {
	return &models.Villa{
		Name:             name,
		Slug:             slug,
		Location:         "Santorini, Greece",
		Tagline:          "Cliffside views",
		Gallery:          []models.ImageRef{{AssetRef: "image-" + slug + "-1200x800-jpg"}},
		PriceWithFood:    450,
		PriceWithoutFood: 300,
		Bedrooms:         3,
		Bathrooms:        2,
		MaxGuests:        6,
		Amenities:        []string{"Private Pool", "Wi-Fi"},
		CreatedAt:        createdAt,
	}
}

func TestContentStore_Integration(t *testing.T) {
	database := utils.SetupTestDB(t, "testdb_contentstore", villasCollection, bookingRequestsCollection)
	ctx := context.Background()
	w := &mongoWriteClient{db: database, now: time.Now}
	require.NoError(t, w.EnsureIndexes(ctx))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"first", "second", "third"} {
		_, err := w.ImportVilla(ctx, seedVilla("Villa "+slug, slug, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	_, err := w.ImportVilla(ctx, seedVilla("Copy", "second", base))
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	cache := newMemoryCache()
	r := NewReadClient(database, cache, 2)

	villas, err := r.ListVillas(ctx, 0)
	require.NoError(t, err)
	require.Len(t, villas, 2)
	assert.Equal(t, "third", villas[0].Slug)
	assert.Equal(t, "second", villas[1].Slug)
	assert.Equal(t, 1, cache.sets)

	villa, err := r.GetVillaBySlug(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, "Villa first", villa.Name)
	assert.Equal(t, []string{"Private Pool", "Wi-Fi"}, villa.Amenities)

	_, err = r.GetVillaBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrVillaNotFound)

	// Cache outages fall through to the store.
	cache.fail = true
	villa, err = r.GetVillaBySlug(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, "Villa second", villa.Name)
}

func TestCreateBookingRequest_Integration(t *testing.T) {
	database := utils.SetupTestDB(t, "testdb_contentstore_bookings", bookingRequestsCollection)
	ctx := context.Background()
	w := &mongoWriteClient{db: database, now: time.Now}

	newDoc := func() *models.BookingRequestDocument {
		return booking.BuildDocument(&models.BookingSubmission{
			GuestName:   "Jane Doe",
			VillaID:     "villa-123",
			CheckInDate: "2025-06-01",
			VillaName:   "Ocean Breeze Villa",
		}, time.Now())
	}

	id1, err := w.CreateBookingRequest(ctx, newDoc())
	require.NoError(t, err)
	id2, err := w.CreateBookingRequest(ctx, newDoc())
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2, "identical payloads must produce distinct documents")

	var stored models.BookingRequestDocument
	require.NoError(t, database.Collection(bookingRequestsCollection).FindOne(ctx, map[string]string{"_id": id1}).Decode(&stored))
	assert.Equal(t, models.BookingStatusPending, stored.Status)
	assert.Equal(t, "villa-123", stored.VillaReference.Ref)
	assert.Equal(t, "reference", stored.VillaReference.Type)
	assert.Equal(t, "Ocean Breeze Villa", stored.VillaNameSnapshot)
}
