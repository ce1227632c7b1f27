package services

import (
	"context"

	"coastline/villas/internal/contentstore"
	"coastline/villas/internal/models"
	"coastline/villas/internal/storage"
)

const (
	cardImageWidth     = 800
	cardImageHeight    = 600
	galleryImageWidth  = 1600
	galleryImageHeight = 1200
)

// IVillaService shapes content-store villas into the listing and detail views.
type IVillaService interface {
	ListVillas(ctx context.Context, limit int) ([]models.VillaListing, error)
	GetVillaBySlug(ctx context.Context, slug string) (*models.VillaDetails, error)
}

// villaService implements IVillaService.
type villaService struct {
	reader contentstore.IVillaReader
	images *storage.ImageURLBuilder
}

// NewVillaService creates a new VillaService.
func NewVillaService(reader contentstore.IVillaReader, images *storage.ImageURLBuilder) IVillaService {
	return &villaService{reader: reader, images: images}
}

// ListVillas returns the N most recent villas as cards. The card image is the first
// gallery entry, or "" when the gallery is empty.
func (s *villaService) ListVillas(ctx context.Context, limit int) ([]models.VillaListing, error) {
	villas, err := s.reader.ListVillas(ctx, limit)
	if err != nil {
		return nil, err
	}
	listings := make([]models.VillaListing, 0, len(villas))
	for i := range villas {
		listings = append(listings, s.toListing(&villas[i]))
	}
	return listings, nil
}

// GetVillaBySlug returns contentstore.ErrVillaNotFound when no villa has the slug.
func (s *villaService) GetVillaBySlug(ctx context.Context, slug string) (*models.VillaDetails, error) {
	villa, err := s.reader.GetVillaBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	gallery := make([]models.GalleryImage, 0, len(villa.Gallery))
	for _, img := range villa.Gallery {
		gallery = append(gallery, models.GalleryImage{
			URL: s.images.Image(img.AssetRef).Width(galleryImageWidth).Height(galleryImageHeight).Fit(storage.FitMax).URL(),
			Alt: img.Alt,
		})
	}

	amenities := villa.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	description := villa.Description
	if description == nil {
		description = []models.Block{}
	}

	return &models.VillaDetails{
		VillaListing: s.toListing(villa),

		Bedrooms:    villa.Bedrooms,
		Bathrooms:   villa.Bathrooms,
		MaxGuests:   villa.MaxGuests,
		Amenities:   amenities,
		Gallery:     gallery,
		Description: description,
	}, nil
}

func (s *villaService) toListing(v *models.Villa) models.VillaListing {
	mainImage := ""
	if len(v.Gallery) > 0 {
		mainImage = s.images.Image(v.Gallery[0].AssetRef).Width(cardImageWidth).Height(cardImageHeight).Fit(storage.FitCrop).URL()
	}
	return models.VillaListing{
		ID:               v.ID,
		Name:             v.Name,
		Slug:             v.Slug,
		Tagline:          v.Tagline,
		Location:         v.Location,
		PriceWithFood:    v.PriceWithFood,
		PriceWithoutFood: v.PriceWithoutFood,
		MainImage:        mainImage,
	}
}
