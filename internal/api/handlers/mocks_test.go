package handlers_test

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"

	"coastline/villas/internal/contentstore"
	"coastline/villas/internal/models"
)

// --- Mocks ---

// MockWriteClientFactory implements contentstore.WriteClientFactory
type MockWriteClientFactory struct {
	mock.Mock
}

func (m *MockWriteClientFactory) NewWriteClient(ctx context.Context) (contentstore.WriteClient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(contentstore.WriteClient), args.Error(1)
}

// MockWriteClient implements contentstore.WriteClient
type MockWriteClient struct {
	mock.Mock
}

func (m *MockWriteClient) CreateBookingRequest(ctx context.Context, doc *models.BookingRequestDocument) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

func (m *MockWriteClient) ImportVilla(ctx context.Context, villa *models.Villa) (string, error) {
	args := m.Called(ctx, villa)
	return args.String(0), args.Error(1)
}

func (m *MockWriteClient) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAsynqClient implements handlers.IAsynqClient
type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	mockArgs := []interface{}{ctx, task}
	for _, opt := range opts {
		mockArgs = append(mockArgs, opt)
	}
	args := m.Called(mockArgs...)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

// MockVillaService implements services.IVillaService
type MockVillaService struct {
	mock.Mock
}

func (m *MockVillaService) ListVillas(ctx context.Context, limit int) ([]models.VillaListing, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VillaListing), args.Error(1)
}

func (m *MockVillaService) GetVillaBySlug(ctx context.Context, slug string) (*models.VillaDetails, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VillaDetails), args.Error(1)
}

// MockObjectStore implements storage.IObjectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) GetObject(ctx context.Context, key string) ([]byte, string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
