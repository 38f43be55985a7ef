package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	data map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: map[string]string{}}
}

func (f *fakeStorage) GetCart(ctx context.Context, customerID string) (string, error) {
	if payload, ok := f.data[customerID]; ok {
		return payload, nil
	}
	return "", goredis.Nil
}

func (f *fakeStorage) StoreCart(ctx context.Context, customerID, payload string, ttl time.Duration) error {
	f.data[customerID] = payload
	return nil
}

func (f *fakeStorage) DeleteCart(ctx context.Context, customerID string) error {
	delete(f.data, customerID)
	return nil
}

func TestRedisStoreRoundTrip(t *testing.T) {
	storage := newFakeStorage()
	store, err := NewRedisStore(storage, time.Hour, nil)
	require.NoError(t, err)

	customerID := uuid.New()
	cart := NewCart(customerID)
	cart.Items = append(cart.Items, Item{
		ProductID:      uuid.New(),
		Name:           "Bananas 1kg",
		UnitPriceCents: 4900,
		Quantity:       2,
	})
	require.NoError(t, store.Save(context.Background(), cart))

	loaded, err := store.Load(context.Background(), customerID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Bananas 1kg", loaded.Items[0].Name)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestRedisStoreMissingCartIsEmpty(t *testing.T) {
	store, err := NewRedisStore(newFakeStorage(), time.Hour, nil)
	require.NoError(t, err)

	customerID := uuid.New()
	loaded, err := store.Load(context.Background(), customerID)
	require.NoError(t, err)
	assert.Equal(t, customerID, loaded.CustomerID)
	assert.True(t, loaded.IsEmpty())
}

func TestRedisStoreCorruptDocumentIsDiscarded(t *testing.T) {
	storage := newFakeStorage()
	store, err := NewRedisStore(storage, time.Hour, nil)
	require.NoError(t, err)

	customerID := uuid.New()
	storage.data[customerID.String()] = "{not-json"

	loaded, err := store.Load(context.Background(), customerID)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestRedisStoreSaveRequiresCustomer(t *testing.T) {
	store, err := NewRedisStore(newFakeStorage(), time.Hour, nil)
	require.NoError(t, err)

	require.Error(t, store.Save(context.Background(), NewCart(uuid.Nil)))
}

func TestRedisStoreDocumentShape(t *testing.T) {
	storage := newFakeStorage()
	store, err := NewRedisStore(storage, time.Hour, nil)
	require.NoError(t, err)

	customerID := uuid.New()
	cart := NewCart(customerID)
	cart.GiftPackaging = true
	require.NoError(t, store.Save(context.Background(), cart))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(storage.data[customerID.String()]), &doc))
	assert.Equal(t, customerID.String(), doc["customer_id"])
	assert.Equal(t, true, doc["gift_packaging"])
}
