// Package pulse exposes an orders.Notifier that publishes push notifications
// onto goa.design/pulse streams. Each order gets its own stream so mobile or
// web clients can follow one order's lifecycle by subscribing to
// orders/<order-id>.
package pulse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	clientspulse "github.com/dishpatch/dishpatch/features/notify/pulse/clients/pulse"
	"github.com/dishpatch/dishpatch/orders"
)

type (
	// Options configures the notifier.
	Options struct {
		// Client is the Pulse client used to publish notifications. Required.
		Client clientspulse.Client
		// StreamID derives the target stream from a notification. Defaults
		// to orders/<order-id>.
		StreamID func(orders.Notification) string
	}

	// Notifier publishes notifications into Pulse streams. Thread-safe for
	// concurrent Send operations.
	Notifier struct {
		client   clientspulse.Client
		streamID func(orders.Notification) string
	}

	// envelope wraps notifications for transmission over Pulse streams.
	envelope struct {
		Channel   string    `json:"channel"`
		Recipient string    `json:"recipient"`
		OrderID   string    `json:"order_id"`
		Message   string    `json:"message"`
		Timestamp time.Time `json:"timestamp"`
	}
)

// New constructs a Pulse-backed notifier. The Client field in opts is
// required.
func New(opts Options) (*Notifier, error) {
	if opts.Client == nil {
		return nil, errors.New("pulse client is required")
	}
	streamID := opts.StreamID
	if streamID == nil {
		streamID = defaultStreamID
	}
	return &Notifier{client: opts.Client, streamID: streamID}, nil
}

// Send publishes the notification to the order's stream. The stream event
// name is the notification message so subscribers can filter without
// decoding payloads.
func (n *Notifier) Send(ctx context.Context, notif orders.Notification) error {
	if notif.OrderID == "" {
		return errors.New("order id is required")
	}
	if notif.Message == "" {
		return errors.New("message is required")
	}
	stream, err := n.client.Stream(n.streamID(notif))
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope{
		Channel:   string(notif.Channel),
		Recipient: notif.Recipient,
		OrderID:   notif.OrderID,
		Message:   notif.Message,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification envelope: %w", err)
	}
	if _, err := stream.Add(ctx, notif.Message, payload); err != nil {
		return err
	}
	return nil
}

func defaultStreamID(n orders.Notification) string {
	return "orders/" + n.OrderID
}
