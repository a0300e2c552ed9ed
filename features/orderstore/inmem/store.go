// Package inmem provides an in-memory orders.Store for development and
// tests. Records can be seeded explicitly; unseeded orders are fabricated
// on first read with identifiers derived deterministically from the order
// ID, so repeated reads (and activity retries) always see the same data.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dishpatch/dishpatch/orders"
)

// Store is a thread-safe in-memory orders.Store.
type Store struct {
	mu      sync.Mutex
	orders  map[string]orders.OrderDetails
	users   map[string]orders.UserPreference
	vendors map[string]orders.VendorPreference

	now func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		orders:  make(map[string]orders.OrderDetails),
		users:   make(map[string]orders.UserPreference),
		vendors: make(map[string]orders.VendorPreference),
		now:     time.Now,
	}
}

// Seed installs an order record and the matching notification preferences.
func (s *Store) Seed(details orders.OrderDetails, user orders.UserPreference, vendor orders.VendorPreference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[details.OrderID] = details
	s.users[details.OrderID] = user
	s.vendors[details.OrderID] = vendor
}

// OrderDetails returns the seeded record for orderID, fabricating one on
// first read when none exists.
func (s *Store) OrderDetails(_ context.Context, orderID string) (orders.OrderDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.details(orderID), nil
}

// UserPreference returns the user's channel preference, defaulting to push.
func (s *Store) UserPreference(_ context.Context, orderID string) (orders.UserPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pref, ok := s.users[orderID]; ok {
		return pref, nil
	}
	return orders.UserPreference{
		UserID:  s.details(orderID).UserID,
		Channel: orders.ChannelPush,
	}, nil
}

// VendorPreference returns the vendor's channel preference, defaulting to
// push.
func (s *Store) VendorPreference(_ context.Context, orderID string) (orders.VendorPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pref, ok := s.vendors[orderID]; ok {
		return pref, nil
	}
	return orders.VendorPreference{
		VendorID: s.details(orderID).VendorID,
		Channel:  orders.ChannelPush,
	}, nil
}

// details must be called with the mutex held.
func (s *Store) details(orderID string) orders.OrderDetails {
	if d, ok := s.orders[orderID]; ok {
		return d
	}
	d := orders.OrderDetails{
		OrderID:   orderID,
		UserID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte("user/"+orderID)).String(),
		VendorID:  uuid.NewSHA1(uuid.NameSpaceOID, []byte("vendor/"+orderID)).String(),
		OrderDate: s.now().UTC(),
	}
	s.orders[orderID] = d
	return d
}
