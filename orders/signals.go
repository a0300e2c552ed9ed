package orders

// WorkflowName is the registered name of the order lifecycle workflow.
const WorkflowName = "Orders"

// TaskQueue is the Temporal task queue shared by the worker and the
// command-line runners.
const TaskQueue = "order-notification"

// Signal names accepted by the workflow. Each signal requests a transition
// to a fixed target state; requests whose target is not reachable from the
// current state are dropped.
const (
	SignalAcceptOrder  = "accept_order"
	SignalDeclineOrder = "decline_order"
	SignalPrepareOrder = "prepare_order"
	SignalReadyOrder   = "ready_order"
	SignalPickUpOrder  = "pick_up_order"
)

// QueryOrderState is the query name returning the current OrderState.
const QueryOrderState = "query_order_state"

// signalTargets maps each transition signal to the state it requests.
// Iterated as a slice so signal channel registration order is deterministic
// across replays.
var signalTargets = []struct {
	Name   string
	Target OrderState
}{
	{SignalAcceptOrder, StateOrderAccepted},
	{SignalDeclineOrder, StateOrderDeclined},
	{SignalPrepareOrder, StateOrderPreparation},
	{SignalReadyOrder, StateOrderReady},
	{SignalPickUpOrder, StateOrderPickedUp},
}

// TransitionSignals returns the names of all transition signals in
// registration order.
func TransitionSignals() []string {
	names := make([]string, len(signalTargets))
	for i, st := range signalTargets {
		names[i] = st.Name
	}
	return names
}

// SignalFor returns the signal name that requests a transition to target.
// The second return value is false when no signal maps to target.
func SignalFor(target OrderState) (string, bool) {
	for _, st := range signalTargets {
		if st.Target == target {
			return st.Name, true
		}
	}
	return "", false
}
