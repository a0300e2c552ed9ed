// Package devlog provides an orders.Notifier for development and tests. It
// logs each send instead of talking to an SMS or push gateway, optionally
// simulating transport latency, and records everything it sent so tests can
// assert on notification sequences.
package devlog

import (
	"context"
	"sync"
	"time"

	"goa.design/clue/log"
	"golang.org/x/time/rate"

	"github.com/dishpatch/dishpatch/orders"
)

type (
	// Options configures the notifier.
	Options struct {
		// Delay is the simulated transport latency per send.
		Delay time.Duration
		// RateLimit bounds outbound sends per second. Zero means unlimited.
		RateLimit rate.Limit
		// Burst is the rate limiter burst size. Defaults to 1 when a rate
		// limit is set.
		Burst int
	}

	// Notifier logs and records notifications. Safe for concurrent use.
	Notifier struct {
		delay   time.Duration
		limiter *rate.Limiter

		mu   sync.Mutex
		sent []orders.Notification
	}
)

// New returns a Notifier with the given options.
func New(opts Options) *Notifier {
	n := &Notifier{delay: opts.Delay}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		n.limiter = rate.NewLimiter(opts.RateLimit, burst)
	}
	return n
}

// Send logs the notification and records it. Honors context cancellation
// while rate limited or sleeping through the simulated latency.
func (n *Notifier) Send(ctx context.Context, notif orders.Notification) error {
	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if n.delay > 0 {
		select {
		case <-time.After(n.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	log.Info(ctx,
		log.KV{K: "msg", V: "notification sent"},
		log.KV{K: "channel", V: notif.Channel},
		log.KV{K: "recipient", V: notif.Recipient},
		log.KV{K: "order_id", V: notif.OrderID},
		log.KV{K: "message", V: notif.Message},
	)
	n.mu.Lock()
	n.sent = append(n.sent, notif)
	n.mu.Unlock()
	return nil
}

// Sent returns a copy of every notification sent so far, in order.
func (n *Notifier) Sent() []orders.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]orders.Notification(nil), n.sent...)
}

// Reset clears the recorded notifications.
func (n *Notifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}
