package orders

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// orderCase is the live state of one order workflow. All fields are mutated
// exclusively from workflow goroutines, which Temporal schedules
// cooperatively, so no locking is needed: the signal receivers and the main
// loop never run concurrently.
type orderCase struct {
	state      OrderState
	pending    bool
	startTime  time.Time
	expiration time.Duration
}

// Workflow drives a single order through its lifecycle. It notifies the
// vendor of the new order, then processes vendor transition signals until
// the order reaches a terminal state or the expiration window closes. The
// returned state is the state the order ended in.
//
// Signals are accepted at any time; requests whose target state is not
// reachable from the current state are dropped without error. The current
// state is queryable via QueryOrderState throughout the run.
func Workflow(ctx workflow.Context, input WorkflowInput) (OrderState, error) {
	logger := workflow.GetLogger(ctx)

	if input.OrderID == "" {
		return "", errors.New("order id is required")
	}
	expiration := time.Duration(input.ExpirationSeconds) * time.Second
	if input.ExpirationSeconds <= 0 {
		expiration = DefaultExpirationSeconds * time.Second
	}

	oc := &orderCase{
		state:      StateOrderPlaced,
		startTime:  workflow.GetInfo(ctx).WorkflowStartTime,
		expiration: expiration,
	}
	if err := workflow.SetQueryHandler(ctx, QueryOrderState, func() (OrderState, error) {
		return oc.state, nil
	}); err != nil {
		return oc.state, fmt.Errorf("register state query: %w", err)
	}
	oc.listenForTransitions(ctx)

	logger.Info("Placing an order.", "order_id", input.OrderID)

	actx := workflow.WithActivityOptions(ctx, stepOptions())

	var details OrderDetails
	if err := workflow.ExecuteActivity(actx, ActivityGetOrderDetails, input.OrderID).Get(actx, &details); err != nil {
		return oc.state, fmt.Errorf("fetch order details: %w", err)
	}

	var vendorPref VendorPreference
	if err := workflow.ExecuteActivity(actx, ActivityGetVendorPreference, input.OrderID).Get(actx, &vendorPref); err != nil {
		return oc.state, fmt.Errorf("fetch vendor preference: %w", err)
	}

	if err := notifyVendor(actx, VendorNotificationInput{
		OrderID:  input.OrderID,
		VendorID: details.VendorID,
		Message:  VendorMessageNewOrder,
		Channel:  vendorPref.Channel,
	}); err != nil {
		return oc.state, err
	}
	oc.state = StateVendorNotified
	logger.Info("Vendor notified.", "order_id", input.OrderID, "vendor_id", details.VendorID)

	var userPref UserPreference
	if err := workflow.ExecuteActivity(actx, ActivityGetUserPreference, input.OrderID).Get(actx, &userPref); err != nil {
		return oc.state, fmt.Errorf("fetch user preference: %w", err)
	}

	notify := func(msg UserMessage) error {
		return notifyUser(actx, UserNotificationInput{
			OrderID: input.OrderID,
			UserID:  details.UserID,
			Message: msg,
			Channel: userPref.Channel,
		})
	}

	remaining := oc.expiration
wait:
	for {
		var err error
		remaining, err = oc.waitForStateChange(ctx, remaining)
		if err != nil {
			return oc.state, err
		}

		switch oc.state {
		case StateOrderAccepted:
			logger.Info("Order accepted.", "order_id", input.OrderID, "vendor_id", details.VendorID)
			if err := notify(UserMessageOrderAccepted); err != nil {
				return oc.state, err
			}
		case StateOrderPreparation:
			logger.Info("Order is being prepared.", "order_id", input.OrderID, "vendor_id", details.VendorID)
			if err := notify(UserMessageOrderBeingPrepared); err != nil {
				return oc.state, err
			}
		case StateOrderReady:
			logger.Info("Order is ready.", "order_id", input.OrderID, "vendor_id", details.VendorID)
			if err := notify(UserMessageOrderReady); err != nil {
				return oc.state, err
			}
			break wait
		default:
			// Declined, or an unrecognized state: tell the user and stop.
			logger.Info("Order declined.", "order_id", input.OrderID)
			if err := notify(UserMessageOrderCanceled); err != nil {
				return oc.state, err
			}
			return oc.state, nil
		}
		oc.pending = false
	}

	// The vendor has committed; wait for pickup without a deadline.
	if err := workflow.Await(ctx, func() bool { return oc.state == StateOrderPickedUp }); err != nil {
		return oc.state, err
	}
	logger.Info("Order completed.", "order_id", input.OrderID, "vendor_id", details.VendorID)
	if err := notify(UserMessageOrderCompleted); err != nil {
		return oc.state, err
	}
	return oc.state, nil
}

// stepOptions bounds each external step: a short start-to-close timeout and
// retries whose backoff interval is capped at five seconds.
func stepOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumInterval: 5 * time.Second,
		},
	}
}

// listenForTransitions consumes the transition signal channels for the rest
// of the run and applies each request against the state current at the time
// the signal is processed.
func (oc *orderCase) listenForTransitions(ctx workflow.Context) {
	workflow.Go(ctx, func(ctx workflow.Context) {
		selector := workflow.NewSelector(ctx)
		for _, st := range signalTargets {
			target := st.Target
			ch := workflow.GetSignalChannel(ctx, st.Name)
			selector.AddReceive(ch, func(c workflow.ReceiveChannel, _ bool) {
				c.Receive(ctx, nil)
				oc.requestTransition(ctx, target)
			})
		}
		for ctx.Err() == nil {
			selector.Select(ctx)
		}
	})
}

// requestTransition moves the order to target when the lifecycle graph
// allows it and flags the change for the wait loop. Invalid requests are
// dropped: callers get no error, only a log line records the attempt.
func (oc *orderCase) requestTransition(ctx workflow.Context, target OrderState) {
	logger := workflow.GetLogger(ctx)
	if !oc.state.CanTransitionTo(target) {
		logger.Info("Ignoring transition request.", "state", oc.state, "target", target)
		return
	}
	logger.Info("Transitioning order.", "state", oc.state, "target", target)
	oc.state = target
	oc.pending = true
}

// waitForStateChange blocks until a transition lands or timeout elapses.
// On timeout the order is declined when the current state still allows it;
// otherwise the vendor has already committed and the order is forced to
// READY instead. Returns the time left in the absolute expiration window,
// measured from workflow start.
func (oc *orderCase) waitForStateChange(ctx workflow.Context, timeout time.Duration) (time.Duration, error) {
	ok, err := workflow.AwaitWithTimeout(ctx, timeout, func() bool { return oc.pending })
	if err != nil {
		return 0, err
	}
	if !ok {
		if oc.state.CanTransitionTo(StateOrderDeclined) {
			oc.state = StateOrderDeclined
		} else {
			oc.state = StateOrderReady
		}
		workflow.GetLogger(ctx).Info("Order expired.", "state", oc.state)
	}
	return oc.expiration - workflow.Now(ctx).Sub(oc.startTime), nil
}
