package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dishpatch/dishpatch/orders"
)

func TestOrderDetailsFabricatedDeterministically(t *testing.T) {
	store := New()

	first, err := store.OrderDetails(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, "order-1", first.OrderID)
	require.NotEmpty(t, first.UserID)
	require.NotEmpty(t, first.VendorID)

	second, err := store.OrderDetails(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, first, second)

	other, err := New().OrderDetails(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, first.UserID, other.UserID)
	require.Equal(t, first.VendorID, other.VendorID)
}

func TestPreferencesDefaultToPush(t *testing.T) {
	store := New()

	user, err := store.UserPreference(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, orders.ChannelPush, user.Channel)

	vendor, err := store.VendorPreference(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, orders.ChannelPush, vendor.Channel)

	details, err := store.OrderDetails(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, details.UserID, user.UserID)
	require.Equal(t, details.VendorID, vendor.VendorID)
}

func TestSeedOverridesFabrication(t *testing.T) {
	store := New()
	details := orders.OrderDetails{
		OrderID:   "order-2",
		UserID:    "user-2",
		VendorID:  "vendor-2",
		OrderDate: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	store.Seed(details,
		orders.UserPreference{UserID: "user-2", Channel: orders.ChannelSMS},
		orders.VendorPreference{VendorID: "vendor-2", Channel: orders.ChannelSMS},
	)

	got, err := store.OrderDetails(context.Background(), "order-2")
	require.NoError(t, err)
	require.Equal(t, details, got)

	user, err := store.UserPreference(context.Background(), "order-2")
	require.NoError(t, err)
	require.Equal(t, orders.ChannelSMS, user.Channel)

	vendor, err := store.VendorPreference(context.Background(), "order-2")
	require.NoError(t, err)
	require.Equal(t, orders.ChannelSMS, vendor.Channel)
}
