package orders

import "time"

// NotificationChannel selects the delivery mechanism for a notification.
type NotificationChannel string

const (
	ChannelSMS  NotificationChannel = "SMS"
	ChannelPush NotificationChannel = "PUSH"
)

// VendorMessage is the kind of message sent to a vendor.
type VendorMessage string

// VendorMessageNewOrder tells the vendor a new order is waiting for a decision.
const VendorMessageNewOrder VendorMessage = "NEW_ORDER"

// UserMessage is the kind of message sent to the ordering user.
type UserMessage string

const (
	UserMessageOrderAccepted      UserMessage = "ORDER_ACCEPTED"
	UserMessageOrderCanceled      UserMessage = "ORDER_CANCELED"
	UserMessageOrderBeingPrepared UserMessage = "ORDER_BEING_PREPARED"
	UserMessageOrderReady         UserMessage = "ORDER_READY"
	UserMessageOrderCompleted     UserMessage = "ORDER_COMPLETED"
)

// DefaultExpirationSeconds bounds how long an order waits for vendor signals
// when the caller does not specify an expiration window.
const DefaultExpirationSeconds = 60

// WorkflowInput starts an order lifecycle workflow.
type WorkflowInput struct {
	// OrderID identifies the order. Required.
	OrderID string `json:"order_id"`
	// ExpirationSeconds is the total window, measured from workflow start,
	// during which vendor signals are honored. Zero means
	// DefaultExpirationSeconds.
	ExpirationSeconds int `json:"expiration_time"`
}

// OrderDetails is the immutable order record fetched once at the start of
// processing.
type OrderDetails struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	VendorID  string    `json:"vendor_id"`
	OrderDate time.Time `json:"order_date"`
}

// UserPreference holds the user's preferred notification channel.
type UserPreference struct {
	UserID  string              `json:"user_id"`
	Channel NotificationChannel `json:"notification_preference"`
}

// VendorPreference holds the vendor's preferred notification channel.
type VendorPreference struct {
	VendorID string              `json:"vendor_id"`
	Channel  NotificationChannel `json:"notification_preference"`
}

// UserNotificationInput is the payload of the user notification activities.
type UserNotificationInput struct {
	OrderID string              `json:"order_id"`
	UserID  string              `json:"user_id"`
	Message UserMessage         `json:"message"`
	Channel NotificationChannel `json:"user_notification_preference,omitempty"`
}

// VendorNotificationInput is the payload of the vendor notification activities.
type VendorNotificationInput struct {
	OrderID  string              `json:"order_id"`
	VendorID string              `json:"vendor_id"`
	Message  VendorMessage       `json:"message"`
	Channel  NotificationChannel `json:"vendor_notification_preference,omitempty"`
}
