package models

import "time"

// ImageRef points at an image asset held in the object store.
type ImageRef struct {
	AssetRef string `bson:"assetRef" json:"assetRef" validate:"required"`
	Alt      string `bson:"alt,omitempty" json:"alt,omitempty"`
}

// Span is a run of text inside a description block.
type Span struct {
	Text  string   `bson:"text" json:"text"`
	Marks []string `bson:"marks,omitempty" json:"marks,omitempty"`
}

// Block is one paragraph-level element of a rich-text description.
type Block struct {
	Key      string `bson:"_key,omitempty" json:"_key,omitempty"`
	Type     string `bson:"_type" json:"_type"` // "block"
	Style    string `bson:"style,omitempty" json:"style,omitempty"`
	ListItem string `bson:"listItem,omitempty" json:"listItem,omitempty"`
	Children []Span `bson:"children" json:"children"`
}

// Villa is a rentable property record owned by the content store.
// This service only ever reads it, apart from the import tool.
type Villa struct {
	ID               string     `bson:"_id,omitempty" json:"id,omitempty"`
	Type             string     `bson:"_type" json:"-"`
	Name             string     `bson:"name" json:"name" validate:"required"`
	Slug             string     `bson:"slug" json:"slug" validate:"required"`
	Location         string     `bson:"location" json:"location" validate:"required"`
	Tagline          string     `bson:"tagline" json:"tagline" validate:"required,max=60"`
	Gallery          []ImageRef `bson:"gallery" json:"gallery" validate:"min=1,dive"`
	PriceWithFood    float64    `bson:"priceWithFood" json:"priceWithFood" validate:"gte=0"`
	PriceWithoutFood float64    `bson:"priceWithoutFood" json:"priceWithoutFood" validate:"gte=0"`
	Bedrooms         int        `bson:"bedrooms" json:"bedrooms" validate:"gte=1"`
	Bathrooms        int        `bson:"bathrooms" json:"bathrooms" validate:"gte=1"`
	MaxGuests        int        `bson:"maxGuests" json:"maxGuests" validate:"gte=1"`
	Amenities        []string   `bson:"amenities" json:"amenities" validate:"min=1"`
	Description      []Block    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt        time.Time  `bson:"_createdAt" json:"createdAt"`
}

// VillaListing is the card-sized projection returned by the listing query.
type VillaListing struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Slug             string  `json:"slug"`
	Tagline          string  `json:"tagline"`
	Location         string  `json:"location"`
	PriceWithFood    float64 `json:"priceWithFood"`
	PriceWithoutFood float64 `json:"priceWithoutFood"`
	MainImage        string  `json:"mainImage"`
}

// GalleryImage is an ImageRef resolved to a URL for the detail page.
type GalleryImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// VillaDetails is the full villa shape returned by the detail query.
type VillaDetails struct {
	VillaListing

	Bedrooms    int            `json:"bedrooms"`
	Bathrooms   int            `json:"bathrooms"`
	MaxGuests   int            `json:"maxGuests"`
	Amenities   []string       `json:"amenities"`
	Gallery     []GalleryImage `json:"gallery"`
	Description []Block        `json:"description"`
}

const VillaType = "villa"
