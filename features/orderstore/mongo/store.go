package mongo

import (
	"context"
	"errors"

	clientsmongo "github.com/dishpatch/dishpatch/features/orderstore/mongo/clients/mongo"
	"github.com/dishpatch/dishpatch/orders"
)

// Store implements orders.Store by delegating to the Mongo client.
type Store struct {
	client clientsmongo.Client
}

// NewStore builds a Store using the provided client.
func NewStore(client clientsmongo.Client) (*Store, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	return &Store{client: client}, nil
}

// OrderDetails loads the order record.
func (s *Store) OrderDetails(ctx context.Context, orderID string) (orders.OrderDetails, error) {
	return s.client.OrderDetails(ctx, orderID)
}

// UserPreference loads the ordering user's notification preference.
func (s *Store) UserPreference(ctx context.Context, orderID string) (orders.UserPreference, error) {
	return s.client.UserPreference(ctx, orderID)
}

// VendorPreference loads the vendor's notification preference.
func (s *Store) VendorPreference(ctx context.Context, orderID string) (orders.VendorPreference, error) {
	return s.client.VendorPreference(ctx, orderID)
}
