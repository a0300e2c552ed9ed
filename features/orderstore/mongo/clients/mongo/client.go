// Package mongo implements the low-level MongoDB client used by the order
// store.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"goa.design/clue/health"

	"github.com/dishpatch/dishpatch/orders"
)

type (
	// Client exposes Mongo-backed reads for order records and notification
	// preferences.
	Client interface {
		health.Pinger

		OrderDetails(ctx context.Context, orderID string) (orders.OrderDetails, error)
		UserPreference(ctx context.Context, orderID string) (orders.UserPreference, error)
		VendorPreference(ctx context.Context, orderID string) (orders.VendorPreference, error)
	}

	// Options configures the Mongo client implementation.
	Options struct {
		Client                *mongodriver.Client
		Database              string
		OrdersCollection      string
		UserPrefsCollection   string
		VendorPrefsCollection string
		Timeout               time.Duration
	}

	client struct {
		mongo       *mongodriver.Client
		orders      collection
		userPrefs   collection
		vendorPrefs collection
		timeout     time.Duration
	}

	orderDocument struct {
		OrderID   string    `bson:"order_id"`
		UserID    string    `bson:"user_id"`
		VendorID  string    `bson:"vendor_id"`
		OrderDate time.Time `bson:"order_date"`
	}

	userPrefDocument struct {
		UserID  string `bson:"user_id"`
		Channel string `bson:"channel"`
	}

	vendorPrefDocument struct {
		VendorID string `bson:"vendor_id"`
		Channel  string `bson:"channel"`
	}
)

const (
	defaultOrdersCollection      = "orders"
	defaultUserPrefsCollection   = "user_preferences"
	defaultVendorPrefsCollection = "vendor_preferences"
	defaultTimeout               = 5 * time.Second
	clientName                   = "orderstore-mongo"
)

// New returns a Client backed by the provided MongoDB client.
func New(opts Options) (Client, error) {
	if opts.Client == nil {
		return nil, errors.New("mongo client is required")
	}
	if opts.Database == "" {
		return nil, errors.New("database name is required")
	}
	ordersCollection := opts.OrdersCollection
	if ordersCollection == "" {
		ordersCollection = defaultOrdersCollection
	}
	userPrefsCollection := opts.UserPrefsCollection
	if userPrefsCollection == "" {
		userPrefsCollection = defaultUserPrefsCollection
	}
	vendorPrefsCollection := opts.VendorPrefsCollection
	if vendorPrefsCollection == "" {
		vendorPrefsCollection = defaultVendorPrefsCollection
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db := opts.Client.Database(opts.Database)
	ordersColl := mongoCollection{coll: db.Collection(ordersCollection)}
	userColl := mongoCollection{coll: db.Collection(userPrefsCollection)}
	vendorColl := mongoCollection{coll: db.Collection(vendorPrefsCollection)}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := ensureIndexes(ctx, ordersColl, userColl, vendorColl); err != nil {
		return nil, err
	}
	return newClientWithCollections(opts.Client, ordersColl, userColl, vendorColl, timeout)
}

func newClientWithCollections(mongoClient *mongodriver.Client, ordersColl, userColl, vendorColl collection, timeout time.Duration) (*client, error) {
	if ordersColl == nil || userColl == nil || vendorColl == nil {
		return nil, errors.New("collections are required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &client{
		mongo:       mongoClient,
		orders:      ordersColl,
		userPrefs:   userColl,
		vendorPrefs: vendorColl,
		timeout:     timeout,
	}, nil
}

func (c *client) Name() string {
	return clientName
}

func (c *client) Ping(ctx context.Context) error {
	return c.mongo.Ping(ctx, readpref.Primary())
}

// OrderDetails loads the order record. Returns orders.ErrOrderNotFound when
// no document matches.
func (c *client) OrderDetails(ctx context.Context, orderID string) (orders.OrderDetails, error) {
	doc, err := c.orderDocument(ctx, orderID)
	if err != nil {
		return orders.OrderDetails{}, err
	}
	return orders.OrderDetails{
		OrderID:   doc.OrderID,
		UserID:    doc.UserID,
		VendorID:  doc.VendorID,
		OrderDate: doc.OrderDate.UTC(),
	}, nil
}

// UserPreference resolves the ordering user's channel preference via the
// order record. Users without a stored preference default to push.
func (c *client) UserPreference(ctx context.Context, orderID string) (orders.UserPreference, error) {
	order, err := c.orderDocument(ctx, orderID)
	if err != nil {
		return orders.UserPreference{}, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	var doc userPrefDocument
	err = c.userPrefs.FindOne(ctx, bson.M{"user_id": order.UserID}).Decode(&doc)
	switch {
	case errors.Is(err, mongodriver.ErrNoDocuments):
		return orders.UserPreference{UserID: order.UserID, Channel: orders.ChannelPush}, nil
	case err != nil:
		return orders.UserPreference{}, err
	}
	return orders.UserPreference{
		UserID:  doc.UserID,
		Channel: orders.NotificationChannel(doc.Channel),
	}, nil
}

// VendorPreference resolves the vendor's channel preference via the order
// record. Vendors without a stored preference default to push.
func (c *client) VendorPreference(ctx context.Context, orderID string) (orders.VendorPreference, error) {
	order, err := c.orderDocument(ctx, orderID)
	if err != nil {
		return orders.VendorPreference{}, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	var doc vendorPrefDocument
	err = c.vendorPrefs.FindOne(ctx, bson.M{"vendor_id": order.VendorID}).Decode(&doc)
	switch {
	case errors.Is(err, mongodriver.ErrNoDocuments):
		return orders.VendorPreference{VendorID: order.VendorID, Channel: orders.ChannelPush}, nil
	case err != nil:
		return orders.VendorPreference{}, err
	}
	return orders.VendorPreference{
		VendorID: doc.VendorID,
		Channel:  orders.NotificationChannel(doc.Channel),
	}, nil
}

func (c *client) orderDocument(ctx context.Context, orderID string) (orderDocument, error) {
	if orderID == "" {
		return orderDocument{}, errors.New("order id is required")
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	var doc orderDocument
	if err := c.orders.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return orderDocument{}, orders.ErrOrderNotFound
		}
		return orderDocument{}, err
	}
	return doc, nil
}

func (c *client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func ensureIndexes(ctx context.Context, ordersColl, userColl, vendorColl collection) error {
	orderIndex := mongodriver.IndexModel{
		Keys:    bson.D{{Key: "order_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := ordersColl.Indexes().CreateOne(ctx, orderIndex); err != nil {
		return err
	}
	userIndex := mongodriver.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := userColl.Indexes().CreateOne(ctx, userIndex); err != nil {
		return err
	}
	vendorIndex := mongodriver.IndexModel{
		Keys:    bson.D{{Key: "vendor_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := vendorColl.Indexes().CreateOne(ctx, vendorIndex); err != nil {
		return err
	}
	return nil
}

type collection interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) singleResult
	Indexes() indexView
}

type indexView interface {
	CreateOne(ctx context.Context, model mongodriver.IndexModel,
		opts ...*options.CreateIndexesOptions) (string, error)
}

type singleResult interface {
	Decode(val any) error
}

type mongoCollection struct {
	coll *mongodriver.Collection
}

func (c mongoCollection) FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) singleResult {
	return mongoSingleResult{res: c.coll.FindOne(ctx, filter, opts...)}
}

func (c mongoCollection) Indexes() indexView {
	return mongoIndexView{view: c.coll.Indexes()}
}

type mongoSingleResult struct {
	res *mongodriver.SingleResult
}

func (r mongoSingleResult) Decode(val any) error {
	return r.res.Decode(val)
}

type mongoIndexView struct {
	view mongodriver.IndexView
}

func (v mongoIndexView) CreateOne(ctx context.Context, model mongodriver.IndexModel,
	opts ...*options.CreateIndexesOptions) (string, error) {
	return v.view.CreateOne(ctx, model, opts...)
}
