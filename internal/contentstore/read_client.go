package contentstore

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coastline/villas/internal/models"
)

const (
	villasCollection          = "villas"
	bookingRequestsCollection = "booking_requests"

	MaxVillaListLimit = 50
)

var ErrVillaNotFound = errors.New("villa not found")

// QueryCache is the read-through cache sitting in front of villa queries.
type QueryCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, v interface{}) error
}

// IVillaReader is the read-only surface of the content store.
type IVillaReader interface {
	ListVillas(ctx context.Context, limit int) ([]models.Villa, error)
	GetVillaBySlug(ctx context.Context, slug string) (*models.Villa, error)
}

// ReadClient queries villas from the public dataset. It holds no write credentials.
type ReadClient struct {
	db           *mongo.Database
	cache        QueryCache
	defaultLimit int
}

// NewReadClient builds the read client once at startup. cache may be nil.
func NewReadClient(db *mongo.Database, cache QueryCache, defaultLimit int) *ReadClient {
	if defaultLimit <= 0 || defaultLimit > MaxVillaListLimit {
		defaultLimit = 6
	}
	return &ReadClient{db: db, cache: cache, defaultLimit: defaultLimit}
}

// ClampLimit applies the default for non-positive limits and caps large ones.
func (r *ReadClient) ClampLimit(limit int) int {
	if limit <= 0 {
		return r.defaultLimit
	}
	if limit > MaxVillaListLimit {
		return MaxVillaListLimit
	}
	return limit
}

// ListVillas returns the most recently created villas, newest first.
func (r *ReadClient) ListVillas(ctx context.Context, limit int) ([]models.Villa, error) {
	limit = r.ClampLimit(limit)
	cacheKey := fmt.Sprintf("list:%d", limit)

	var villas []models.Villa
	if r.cacheGet(ctx, cacheKey, &villas) {
		return villas, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.db.Collection(villasCollection).Find(ctx, bson.M{"_type": models.VillaType}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to execute villa listing query: %w", err)
	}
	defer cursor.Close(ctx)

	villas = []models.Villa{}
	if err = cursor.All(ctx, &villas); err != nil {
		return nil, fmt.Errorf("failed to decode villa listing results: %w", err)
	}

	r.cacheSet(ctx, cacheKey, villas)
	return villas, nil
}

// GetVillaBySlug returns the single villa whose slug matches exactly.
func (r *ReadClient) GetVillaBySlug(ctx context.Context, slug string) (*models.Villa, error) {
	cacheKey := "slug:" + slug

	var villa models.Villa
	if r.cacheGet(ctx, cacheKey, &villa) {
		return &villa, nil
	}

	filter := bson.M{"_type": models.VillaType, "slug": slug}
	err := r.db.Collection(villasCollection).FindOne(ctx, filter).Decode(&villa)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrVillaNotFound
		}
		return nil, fmt.Errorf("failed to find villa by slug %q: %w", slug, err)
	}

	r.cacheSet(ctx, cacheKey, villa)
	return &villa, nil
}

// Cache problems never fail a read; the query simply goes to the store.
func (r *ReadClient) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	if r.cache == nil {
		return false
	}
	hit, err := r.cache.Get(ctx, key, dst)
	if err != nil {
		log.Printf("WARN: villa cache read %s failed: %v", key, err)
		return false
	}
	return hit
}

func (r *ReadClient) cacheSet(ctx context.Context, key string, v interface{}) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, v); err != nil {
		log.Printf("WARN: villa cache write %s failed: %v", key, err)
	}
}
