package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coastline/villas/internal/contentstore"
	"coastline/villas/internal/models"
	"coastline/villas/internal/storage"
)

type MockVillaReader struct {
	mock.Mock
}

func (m *MockVillaReader) ListVillas(ctx context.Context, limit int) ([]models.Villa, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Villa), args.Error(1)
}

func (m *MockVillaReader) GetVillaBySlug(ctx context.Context, slug string) (*models.Villa, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Villa), args.Error(1)
}

func sampleVilla() models.Villa {
	return models.Villa{
		ID:               "villa-1",
		Name:             "Casa Azul",
		Slug:             "casa-azul",
		Location:         "Bali",
		Tagline:          "Cliffside views",
		Gallery:          []models.ImageRef{{AssetRef: "image-abc-800x600-jpg", Alt: "Pool"}, {AssetRef: "image-def-800x600-jpg"}},
		PriceWithFood:    250,
		PriceWithoutFood: 200,
		Bedrooms:         3,
		Bathrooms:        2,
		MaxGuests:        6,
		Amenities:        []string{"Pool", "Wifi"},
	}
}

func TestVillaService_ListVillas(t *testing.T) {
	reader := new(MockVillaReader)
	svc := NewVillaService(reader, storage.NewImageURLBuilder("/api/image"))

	noGallery := sampleVilla()
	noGallery.ID, noGallery.Slug, noGallery.Gallery = "villa-2", "bare", nil
	reader.On("ListVillas", mock.Anything, 6).Return([]models.Villa{sampleVilla(), noGallery}, nil)

	listings, err := svc.ListVillas(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "villa-1", listings[0].ID)
	assert.Equal(t, "casa-azul", listings[0].Slug)
	assert.Equal(t, 250.0, listings[0].PriceWithFood)
	assert.Equal(t, "/api/image/image-abc-800x600-jpg?fit=crop&h=600&w=800", listings[0].MainImage)
	assert.Empty(t, listings[1].MainImage)
	reader.AssertExpectations(t)
}

func TestVillaService_ListVillas_Empty(t *testing.T) {
	reader := new(MockVillaReader)
	svc := NewVillaService(reader, storage.NewImageURLBuilder("/api/image"))
	reader.On("ListVillas", mock.Anything, 0).Return([]models.Villa{}, nil)

	listings, err := svc.ListVillas(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, listings)
	assert.Empty(t, listings)
}

func TestVillaService_GetVillaBySlug(t *testing.T) {
	reader := new(MockVillaReader)
	svc := NewVillaService(reader, storage.NewImageURLBuilder("https://img.example.com/api/image/"))
	v := sampleVilla()
	reader.On("GetVillaBySlug", mock.Anything, "casa-azul").Return(&v, nil)

	details, err := svc.GetVillaBySlug(context.Background(), "casa-azul")
	require.NoError(t, err)

	assert.Equal(t, "Casa Azul", details.Name)
	assert.Equal(t, 3, details.Bedrooms)
	assert.Equal(t, []string{"Pool", "Wifi"}, details.Amenities)
	require.Len(t, details.Gallery, 2)
	assert.Equal(t, "https://img.example.com/api/image/image-abc-800x600-jpg?fit=max&h=1200&w=1600", details.Gallery[0].URL)
	assert.Equal(t, "Pool", details.Gallery[0].Alt)
	assert.NotNil(t, details.Description)
}

func TestVillaService_GetVillaBySlug_NotFound(t *testing.T) {
	reader := new(MockVillaReader)
	svc := NewVillaService(reader, storage.NewImageURLBuilder("/api/image"))
	reader.On("GetVillaBySlug", mock.Anything, "nope").Return(nil, contentstore.ErrVillaNotFound)

	_, err := svc.GetVillaBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, contentstore.ErrVillaNotFound)
}
