package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dishpatch/dishpatch/orders"
)

func TestNewRequiresClientAndDatabase(t *testing.T) {
	_, err := New(Options{})
	require.EqualError(t, err, "mongo client is required")

	_, err = New(Options{Client: &mongodriver.Client{}})
	require.EqualError(t, err, "database name is required")
}

func TestEnsureIndexes(t *testing.T) {
	ordersColl := newFakeCollection()
	userColl := newFakeCollection()
	vendorColl := newFakeCollection()
	require.NoError(t, ensureIndexes(context.Background(), ordersColl, userColl, vendorColl))
	require.Equal(t, 1, ordersColl.indexCreated)
	require.Equal(t, 1, userColl.indexCreated)
	require.Equal(t, 1, vendorColl.indexCreated)
}

func TestOrderDetails(t *testing.T) {
	placed := time.Date(2026, 2, 14, 18, 30, 0, 0, time.UTC)
	ordersColl := newFakeCollection()
	ordersColl.orders["order-1"] = orderDocument{
		OrderID:   "order-1",
		UserID:    "user-1",
		VendorID:  "vendor-1",
		OrderDate: placed,
	}
	client := mustNewTestClient(t, ordersColl, newFakeCollection(), newFakeCollection())

	details, err := client.OrderDetails(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, orders.OrderDetails{
		OrderID:   "order-1",
		UserID:    "user-1",
		VendorID:  "vendor-1",
		OrderDate: placed,
	}, details)
}

func TestOrderDetailsNotFound(t *testing.T) {
	client := mustNewTestClient(t, newFakeCollection(), newFakeCollection(), newFakeCollection())

	_, err := client.OrderDetails(context.Background(), "missing")
	require.ErrorIs(t, err, orders.ErrOrderNotFound)

	_, err = client.OrderDetails(context.Background(), "")
	require.EqualError(t, err, "order id is required")
}

func TestUserPreference(t *testing.T) {
	ordersColl := newFakeCollection()
	ordersColl.orders["order-1"] = orderDocument{OrderID: "order-1", UserID: "user-1", VendorID: "vendor-1"}
	userColl := newFakeCollection()
	userColl.userPrefs["user-1"] = userPrefDocument{UserID: "user-1", Channel: "SMS"}
	client := mustNewTestClient(t, ordersColl, userColl, newFakeCollection())

	pref, err := client.UserPreference(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, orders.UserPreference{UserID: "user-1", Channel: orders.ChannelSMS}, pref)
}

func TestUserPreferenceDefaultsToPush(t *testing.T) {
	ordersColl := newFakeCollection()
	ordersColl.orders["order-1"] = orderDocument{OrderID: "order-1", UserID: "user-1", VendorID: "vendor-1"}
	client := mustNewTestClient(t, ordersColl, newFakeCollection(), newFakeCollection())

	pref, err := client.UserPreference(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, orders.UserPreference{UserID: "user-1", Channel: orders.ChannelPush}, pref)
}

func TestVendorPreference(t *testing.T) {
	ordersColl := newFakeCollection()
	ordersColl.orders["order-1"] = orderDocument{OrderID: "order-1", UserID: "user-1", VendorID: "vendor-1"}
	vendorColl := newFakeCollection()
	vendorColl.vendorPrefs["vendor-1"] = vendorPrefDocument{VendorID: "vendor-1", Channel: "SMS"}
	client := mustNewTestClient(t, ordersColl, newFakeCollection(), vendorColl)

	pref, err := client.VendorPreference(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, orders.VendorPreference{VendorID: "vendor-1", Channel: orders.ChannelSMS}, pref)
}

func TestVendorPreferenceDefaultsToPush(t *testing.T) {
	ordersColl := newFakeCollection()
	ordersColl.orders["order-1"] = orderDocument{OrderID: "order-1", UserID: "user-1", VendorID: "vendor-1"}
	client := mustNewTestClient(t, ordersColl, newFakeCollection(), newFakeCollection())

	pref, err := client.VendorPreference(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, orders.VendorPreference{VendorID: "vendor-1", Channel: orders.ChannelPush}, pref)
}

func mustNewTestClient(t *testing.T, ordersColl, userColl, vendorColl collection) *client {
	t.Helper()
	c, err := newClientWithCollections(nil, ordersColl, userColl, vendorColl, time.Second)
	require.NoError(t, err)
	return c
}

// fakeCollection answers FindOne against in-memory document maps keyed by
// the filter fields the client uses.
type fakeCollection struct {
	orders      map[string]orderDocument
	userPrefs   map[string]userPrefDocument
	vendorPrefs map[string]vendorPrefDocument

	indexCreated int
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{
		orders:      make(map[string]orderDocument),
		userPrefs:   make(map[string]userPrefDocument),
		vendorPrefs: make(map[string]vendorPrefDocument),
	}
}

func (f *fakeCollection) FindOne(_ context.Context, filter any, _ ...*options.FindOneOptions) singleResult {
	m, ok := filter.(bson.M)
	if !ok {
		return fakeSingleResult{err: mongodriver.ErrNoDocuments}
	}
	if id, ok := m["order_id"].(string); ok {
		if doc, ok := f.orders[id]; ok {
			return fakeSingleResult{doc: doc}
		}
	}
	if id, ok := m["user_id"].(string); ok {
		if doc, ok := f.userPrefs[id]; ok {
			return fakeSingleResult{doc: doc}
		}
	}
	if id, ok := m["vendor_id"].(string); ok {
		if doc, ok := f.vendorPrefs[id]; ok {
			return fakeSingleResult{doc: doc}
		}
	}
	return fakeSingleResult{err: mongodriver.ErrNoDocuments}
}

func (f *fakeCollection) Indexes() indexView {
	return fakeIndexView{coll: f}
}

type fakeIndexView struct {
	coll *fakeCollection
}

func (v fakeIndexView) CreateOne(context.Context, mongodriver.IndexModel, ...*options.CreateIndexesOptions) (string, error) {
	v.coll.indexCreated++
	return "", nil
}

type fakeSingleResult struct {
	doc any
	err error
}

func (r fakeSingleResult) Decode(val any) error {
	if r.err != nil {
		return r.err
	}
	raw, err := bson.Marshal(r.doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, val)
}
