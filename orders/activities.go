package orders

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"goa.design/clue/log"
)

// ErrOrderNotFound is returned by Store implementations when no record
// exists for the requested order.
var ErrOrderNotFound = errors.New("order not found")

// Activity names as registered with the worker. Workflow code invokes
// activities by name so the workflow package carries no dependency on the
// backing store or notification transport.
const (
	ActivityGetOrderDetails     = "get_order_details"
	ActivityGetVendorPreference = "get_vendor_preference"
	ActivityGetUserPreference   = "get_user_preference"
	ActivityNotifyUserSMS       = "notify_user_sms"
	ActivityNotifyUserPush      = "notify_user_push"
	ActivityNotifyVendorSMS     = "notify_vendor_sms"
	ActivityNotifyVendorPush    = "notify_vendor_push"
)

type (
	// Store provides the read-once order records consumed at the start of
	// processing. All reads are idempotent; the workflow retries them under
	// its step retry policy.
	Store interface {
		// OrderDetails returns the immutable details of the order.
		OrderDetails(ctx context.Context, orderID string) (OrderDetails, error)
		// UserPreference returns the ordering user's notification preference.
		UserPreference(ctx context.Context, orderID string) (UserPreference, error)
		// VendorPreference returns the vendor's notification preference.
		VendorPreference(ctx context.Context, orderID string) (VendorPreference, error)
	}

	// Notification is a single outbound message to a user or vendor.
	Notification struct {
		Channel   NotificationChannel `json:"channel"`
		Recipient string              `json:"recipient"`
		OrderID   string              `json:"order_id"`
		Message   string              `json:"message"`
	}

	// Notifier delivers notifications. Delivery is at-least-once: the
	// workflow retries failed sends, so implementations need not retry
	// internally.
	Notifier interface {
		Send(ctx context.Context, n Notification) error
	}

	// Activities holds the side-effecting steps of the order workflow. The
	// zero value is not usable; construct with NewActivities.
	Activities struct {
		store    Store
		notifier Notifier
	}

	// ActivityRegistry is the subset of the Temporal registration API used
	// to install the activities. Satisfied by worker.Worker and by the SDK
	// test environments.
	ActivityRegistry interface {
		RegisterActivityWithOptions(a any, options activity.RegisterOptions)
	}
)

// NewActivities builds the activity set backed by the given store and
// notifier.
func NewActivities(store Store, notifier Notifier) (*Activities, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}
	return &Activities{store: store, notifier: notifier}, nil
}

// Register installs every activity under its wire name.
func (a *Activities) Register(r ActivityRegistry) {
	r.RegisterActivityWithOptions(a.GetOrderDetails, activity.RegisterOptions{Name: ActivityGetOrderDetails})
	r.RegisterActivityWithOptions(a.GetVendorPreference, activity.RegisterOptions{Name: ActivityGetVendorPreference})
	r.RegisterActivityWithOptions(a.GetUserPreference, activity.RegisterOptions{Name: ActivityGetUserPreference})
	r.RegisterActivityWithOptions(a.NotifyUserSMS, activity.RegisterOptions{Name: ActivityNotifyUserSMS})
	r.RegisterActivityWithOptions(a.NotifyUserPush, activity.RegisterOptions{Name: ActivityNotifyUserPush})
	r.RegisterActivityWithOptions(a.NotifyVendorSMS, activity.RegisterOptions{Name: ActivityNotifyVendorSMS})
	r.RegisterActivityWithOptions(a.NotifyVendorPush, activity.RegisterOptions{Name: ActivityNotifyVendorPush})
}

// GetOrderDetails reads the order record from the store.
func (a *Activities) GetOrderDetails(ctx context.Context, orderID string) (OrderDetails, error) {
	log.Info(ctx, log.KV{K: "msg", V: "retrieving order details"}, log.KV{K: "order_id", V: orderID})
	details, err := a.store.OrderDetails(ctx, orderID)
	if err != nil {
		return OrderDetails{}, fmt.Errorf("order details for %q: %w", orderID, err)
	}
	return details, nil
}

// GetUserPreference reads the user's notification preference.
func (a *Activities) GetUserPreference(ctx context.Context, orderID string) (UserPreference, error) {
	log.Info(ctx, log.KV{K: "msg", V: "retrieving user preference"}, log.KV{K: "order_id", V: orderID})
	pref, err := a.store.UserPreference(ctx, orderID)
	if err != nil {
		return UserPreference{}, fmt.Errorf("user preference for %q: %w", orderID, err)
	}
	return pref, nil
}

// GetVendorPreference reads the vendor's notification preference.
func (a *Activities) GetVendorPreference(ctx context.Context, orderID string) (VendorPreference, error) {
	log.Info(ctx, log.KV{K: "msg", V: "retrieving vendor preference"}, log.KV{K: "order_id", V: orderID})
	pref, err := a.store.VendorPreference(ctx, orderID)
	if err != nil {
		return VendorPreference{}, fmt.Errorf("vendor preference for %q: %w", orderID, err)
	}
	return pref, nil
}

// NotifyUserSMS sends an SMS notification to the ordering user.
func (a *Activities) NotifyUserSMS(ctx context.Context, in UserNotificationInput) error {
	return a.send(ctx, Notification{
		Channel:   ChannelSMS,
		Recipient: in.UserID,
		OrderID:   in.OrderID,
		Message:   string(in.Message),
	})
}

// NotifyUserPush sends a push notification to the ordering user.
func (a *Activities) NotifyUserPush(ctx context.Context, in UserNotificationInput) error {
	return a.send(ctx, Notification{
		Channel:   ChannelPush,
		Recipient: in.UserID,
		OrderID:   in.OrderID,
		Message:   string(in.Message),
	})
}

// NotifyVendorSMS sends an SMS notification to the vendor.
func (a *Activities) NotifyVendorSMS(ctx context.Context, in VendorNotificationInput) error {
	return a.send(ctx, Notification{
		Channel:   ChannelSMS,
		Recipient: in.VendorID,
		OrderID:   in.OrderID,
		Message:   string(in.Message),
	})
}

// NotifyVendorPush sends a push notification to the vendor.
func (a *Activities) NotifyVendorPush(ctx context.Context, in VendorNotificationInput) error {
	return a.send(ctx, Notification{
		Channel:   ChannelPush,
		Recipient: in.VendorID,
		OrderID:   in.OrderID,
		Message:   string(in.Message),
	})
}

func (a *Activities) send(ctx context.Context, n Notification) error {
	log.Info(ctx,
		log.KV{K: "msg", V: "sending notification"},
		log.KV{K: "channel", V: n.Channel},
		log.KV{K: "recipient", V: n.Recipient},
		log.KV{K: "order_id", V: n.OrderID},
		log.KV{K: "message", V: n.Message},
	)
	if err := a.notifier.Send(ctx, n); err != nil {
		return fmt.Errorf("send %s notification for order %q: %w", n.Channel, n.OrderID, err)
	}
	return nil
}
