package contentstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coastline/villas/internal/booking"
	"coastline/villas/internal/config"
	"coastline/villas/internal/db"
	"coastline/villas/internal/models"
)

var ErrDuplicateSlug = errors.New("villa with this id or slug already exists")

// WriteClient creates documents in the content store.
type WriteClient interface {
	CreateBookingRequest(ctx context.Context, doc *models.BookingRequestDocument) (string, error)
	ImportVilla(ctx context.Context, villa *models.Villa) (string, error)
	EnsureIndexes(ctx context.Context) error
}

// WriteClientFactory hands out write clients. Implementations must check their
// configuration on every call.
type WriteClientFactory interface {
	NewWriteClient(ctx context.Context) (WriteClient, error)
}

// CheckWriteConfig returns a ConfigurationError naming every absent server-only value.
func CheckWriteConfig(cfg config.ContentWriteConfig) error {
	var missing []string
	if cfg.ProjectID == "" {
		missing = append(missing, "CONTENT_PROJECT_ID")
	}
	if cfg.Dataset == "" {
		missing = append(missing, "CONTENT_DATASET")
	}
	if cfg.WriteToken == "" {
		missing = append(missing, "CONTENT_WRITE_TOKEN")
	}
	if len(missing) > 0 {
		return &booking.ConfigurationError{Missing: missing}
	}
	return nil
}

// MongoWriteClientFactory authenticates with the project id as principal and the write
// token as its secret. The client is created on first use and then reused.
type MongoWriteClientFactory struct {
	uri string
	cfg config.ContentWriteConfig

	mu     sync.Mutex
	client *mongo.Client
}

// NewMongoWriteClientFactory creates a factory. A zero cfg is valid: every call will fail.
func NewMongoWriteClientFactory(uri string, cfg config.ContentWriteConfig) *MongoWriteClientFactory {
	return &MongoWriteClientFactory{uri: uri, cfg: cfg}
}

func (f *MongoWriteClientFactory) NewWriteClient(ctx context.Context) (WriteClient, error) {
	if err := CheckWriteConfig(f.cfg); err != nil {
		return nil, err
	}

	dbName := config.DatabaseName(f.cfg.ProjectID, f.cfg.Dataset)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client == nil {
		client, err := db.ConnectAuthenticated(ctx, f.uri, dbName, f.cfg.ProjectID, f.cfg.WriteToken)
		if err != nil {
			return nil, err
		}
		f.client = client
	}
	return &mongoWriteClient{db: f.client.Database(dbName), now: time.Now}, nil
}

// Close disconnects the cached client, if any.
func (f *MongoWriteClientFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := db.DisconnectDB(f.client)
	f.client = nil
	return err
}

type mongoWriteClient struct {
	db  *mongo.Database
	now func() time.Time
}

// CreateBookingRequest inserts doc under a fresh id. A failed insert is returned as is;
// nothing here retries.
func (w *mongoWriteClient) CreateBookingRequest(ctx context.Context, doc *models.BookingRequestDocument) (string, error) {
	doc.ID = uuid.NewString()
	if _, err := w.db.Collection(bookingRequestsCollection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert booking request: %w", err)
	}
	return doc.ID, nil
}

func (w *mongoWriteClient) ImportVilla(ctx context.Context, villa *models.Villa) (string, error) {
	if villa.ID == "" {
		villa.ID = uuid.NewString()
	}
	villa.Type = models.VillaType
	if villa.CreatedAt.IsZero() {
		villa.CreatedAt = w.now().UTC()
	}
	if _, err := w.db.Collection(villasCollection).InsertOne(ctx, villa); err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateSlug, villa.Slug)
		}
		return "", fmt.Errorf("failed to insert villa %s: %w", villa.Slug, err)
	}
	return villa.ID, nil
}

// EnsureIndexes creates the unique slug index and the sort indexes used by the queries.
func (w *mongoWriteClient) EnsureIndexes(ctx context.Context) error {
	_, err := w.db.Collection(villasCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "_type", Value: 1}, {Key: "_createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create villa indexes: %w", err)
	}
	_, err = w.db.Collection(bookingRequestsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking request index: %w", err)
	}
	return nil
}
