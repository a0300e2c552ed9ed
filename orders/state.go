package orders

// OrderState identifies a stage in the order lifecycle. States form a
// forward-only graph: PLACED → VENDOR_NOTIFIED → {ACCEPTED | DECLINED} →
// PREPARATION → READY → PICKED_UP, with DECLINED and PICKED_UP terminal.
type OrderState string

const (
	StateOrderPlaced      OrderState = "ORDER_PLACED"
	StateVendorNotified   OrderState = "VENDOR_NOTIFIED"
	StateOrderAccepted    OrderState = "ORDER_ACCEPTED"
	StateOrderDeclined    OrderState = "ORDER_DECLINED"
	StateOrderPreparation OrderState = "ORDER_PREPARATION"
	StateOrderReady       OrderState = "ORDER_READY"
	StateOrderPickedUp    OrderState = "ORDER_PICKED_UP"
)

// stateTransitions is the set of edges of the lifecycle graph. A state
// missing from the map (or mapping to an empty slice) is terminal.
var stateTransitions = map[OrderState][]OrderState{
	StateOrderPlaced:      {StateVendorNotified},
	StateVendorNotified:   {StateOrderAccepted, StateOrderDeclined},
	StateOrderAccepted:    {StateOrderPreparation},
	StateOrderPreparation: {StateOrderReady},
	StateOrderReady:       {StateOrderPickedUp},
	StateOrderPickedUp:    {},
	StateOrderDeclined:    {},
}

var stateDescriptions = map[OrderState]string{
	StateOrderPlaced:      "Order has been placed by the customer",
	StateVendorNotified:   "Restaurant has been notified of the new order",
	StateOrderAccepted:    "Restaurant has accepted the order",
	StateOrderDeclined:    "Restaurant has declined the order",
	StateOrderPreparation: "Order is being prepared by the restaurant",
	StateOrderReady:       "Order is ready for pickup",
	StateOrderPickedUp:    "Order has been picked up by the customer",
}

// AllowedNextStates returns the states directly reachable from s. The
// returned slice is a copy; callers may mutate it freely.
func (s OrderState) AllowedNextStates() []OrderState {
	next, ok := stateTransitions[s]
	if !ok {
		return nil
	}
	return append([]OrderState(nil), next...)
}

// CanTransitionTo reports whether next is directly reachable from s.
func (s OrderState) CanTransitionTo(next OrderState) bool {
	for _, n := range stateTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func (s OrderState) IsTerminal() bool {
	return len(stateTransitions[s]) == 0
}

// RequiresVendorAction reports whether progress from s depends on the vendor.
func (s OrderState) RequiresVendorAction() bool {
	switch s {
	case StateVendorNotified, StateOrderPreparation, StateOrderReady:
		return true
	}
	return false
}

// Description returns a human-readable description of s.
func (s OrderState) Description() string {
	if d, ok := stateDescriptions[s]; ok {
		return d
	}
	return "Unknown state"
}

func (s OrderState) String() string {
	return string(s)
}
