package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/quickkart/quickkart-backend/pkg/errors"
	"github.com/quickkart/quickkart-backend/pkg/logger"
)

// Store persists cart documents keyed by customer.
type Store interface {
	Load(ctx context.Context, customerID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type cartStorage interface {
	GetCart(ctx context.Context, customerID string) (string, error)
	StoreCart(ctx context.Context, customerID, payload string, ttl time.Duration) error
	DeleteCart(ctx context.Context, customerID string) error
}

type redisStore struct {
	storage cartStorage
	ttl     time.Duration
	logg    *logger.Logger
}

// NewRedisStore builds a Store over the shared redis client. The TTL is
// refreshed on every save so active carts never expire mid-session.
func NewRedisStore(storage cartStorage, ttl time.Duration, logg *logger.Logger) (Store, error) {
	if storage == nil {
		return nil, errors.New("cart storage required")
	}
	if ttl <= 0 {
		return nil, errors.New("cart ttl must be positive")
	}
	return &redisStore{storage: storage, ttl: ttl, logg: logg}, nil
}

// Load returns the stored cart, or a fresh empty one when nothing is stored.
// A corrupt document is logged and treated as an empty cart rather than
// failing the request.
func (s *redisStore) Load(ctx context.Context, customerID uuid.UUID) (*Cart, error) {
	payload, err := s.storage.GetCart(ctx, customerID.String())
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return NewCart(customerID), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(payload), &cart); err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithCustomerID(ctx, customerID.String())
			s.logg.Warn(logCtx, "discarding corrupt cart document")
		}
		return NewCart(customerID), nil
	}
	cart.CustomerID = customerID
	if cart.Items == nil {
		cart.Items = []Item{}
	}
	return &cart, nil
}

func (s *redisStore) Save(ctx context.Context, cart *Cart) error {
	if cart == nil || cart.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart customer id required")
	}
	cart.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.storage.StoreCart(ctx, cart.CustomerID.String(), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context, customerID uuid.UUID) error {
	if err := s.storage.DeleteCart(ctx, customerID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
