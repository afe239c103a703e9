package services_test

import (
	"context"
	"testing"

	"asicshop/internal/events"
	"asicshop/internal/models"
	"asicshop/internal/repositories"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// MockPublisher is a mock implementation of events.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(ctx context.Context, ev events.OrderCreated) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// seedStore fills a memory store with two products priced 100.00 and 250.50.
func seedStore(t *testing.T) (*repositories.MemoryStore, []models.Product) {
	t.Helper()
	store := repositories.NewMemoryStore()
	products := []models.Product{
		{Name: "Antminer S19 Pro", Brand: "Bitmain", Algorithm: "SHA-256", Hashrate: "110 TH/s", Price: "100.00", InStock: true},
		{Name: "Avalon A1246", Brand: "Canaan", Algorithm: "SHA-256", Hashrate: "90 TH/s", Price: "250.50", InStock: true},
	}
	for i := range products {
		require.NoError(t, store.Products().Create(&products[i]))
	}
	return store, products
}

func guest(token string) models.Owner {
	return models.Owner{SessionID: token}
}

func member(id uint, token string) models.Owner {
	return models.Owner{UserID: ptr(id), SessionID: token}
}
