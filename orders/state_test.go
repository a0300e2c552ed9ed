package orders

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStates() []OrderState {
	return []OrderState{
		StateOrderPlaced,
		StateVendorNotified,
		StateOrderAccepted,
		StateOrderDeclined,
		StateOrderPreparation,
		StateOrderReady,
		StateOrderPickedUp,
	}
}

func TestCanTransitionTo(t *testing.T) {
	allowed := map[OrderState][]OrderState{
		StateOrderPlaced:      {StateVendorNotified},
		StateVendorNotified:   {StateOrderAccepted, StateOrderDeclined},
		StateOrderAccepted:    {StateOrderPreparation},
		StateOrderPreparation: {StateOrderReady},
		StateOrderReady:       {StateOrderPickedUp},
		StateOrderDeclined:    nil,
		StateOrderPickedUp:    nil,
	}
	for _, from := range allStates() {
		for _, to := range allStates() {
			want := false
			for _, n := range allowed[from] {
				if n == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[OrderState]bool{
		StateOrderDeclined: true,
		StateOrderPickedUp: true,
	}
	for _, s := range allStates() {
		assert.Equal(t, terminal[s], s.IsTerminal(), s)
	}
	assert.True(t, OrderState("BOGUS").IsTerminal(), "unknown states have no outgoing edges")
}

func TestRequiresVendorAction(t *testing.T) {
	vendor := map[OrderState]bool{
		StateVendorNotified:   true,
		StateOrderPreparation: true,
		StateOrderReady:       true,
	}
	for _, s := range allStates() {
		assert.Equal(t, vendor[s], s.RequiresVendorAction(), s)
	}
}

func TestAllowedNextStatesIsACopy(t *testing.T) {
	next := StateVendorNotified.AllowedNextStates()
	require.Equal(t, []OrderState{StateOrderAccepted, StateOrderDeclined}, next)
	next[0] = StateOrderPickedUp
	require.Equal(t, []OrderState{StateOrderAccepted, StateOrderDeclined},
		StateVendorNotified.AllowedNextStates())
}

func TestDescription(t *testing.T) {
	for _, s := range allStates() {
		assert.NotEqual(t, "Unknown state", s.Description(), s)
	}
	assert.Equal(t, "Unknown state", OrderState("BOGUS").Description())
}

func TestSignalFor(t *testing.T) {
	for _, name := range TransitionSignals() {
		found := false
		for _, s := range allStates() {
			if sig, ok := SignalFor(s); ok && sig == name {
				found = true
			}
		}
		assert.True(t, found, "signal %s has no target state", name)
	}
	_, ok := SignalFor(StateOrderPlaced)
	assert.False(t, ok, "no signal targets the initial state")
}

func orderStateGen() gopter.Gen {
	return gen.OneConstOf(
		StateOrderPlaced,
		StateVendorNotified,
		StateOrderAccepted,
		StateOrderDeclined,
		StateOrderPreparation,
		StateOrderReady,
		StateOrderPickedUp,
	)
}

// TestLifecycleGraphProperties checks structural invariants of the lifecycle
// graph: transitions never revisit a state, every non-terminal state reaches
// a terminal one, and terminal states accept nothing.
func TestLifecycleGraphProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	stateGen := orderStateGen()

	properties.Property("random walks terminate without revisiting a state", prop.ForAll(
		func(start OrderState, choices []int) bool {
			seen := map[OrderState]bool{start: true}
			current := start
			for _, c := range choices {
				next := current.AllowedNextStates()
				if len(next) == 0 {
					break
				}
				current = next[abs(c)%len(next)]
				if seen[current] {
					return false
				}
				seen[current] = true
			}
			return len(seen) <= len(allStates())
		},
		stateGen,
		gen.SliceOf(gen.Int()),
	))

	properties.Property("terminal states reject every transition", prop.ForAll(
		func(from, to OrderState) bool {
			if !from.IsTerminal() {
				return true
			}
			return !from.CanTransitionTo(to)
		},
		stateGen,
		stateGen,
	))

	properties.TestingRun(t)
}

// TestTransitionReplayDeterminism replays generated transition-request
// sequences from the initial state: applying a request only when the graph
// allows it and dropping it otherwise. The same sequence must always land in
// the same final state, and every applied edge must be an allowed one.
func TestTransitionReplayDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	apply := func(targets []OrderState) OrderState {
		current := StateOrderPlaced
		for _, target := range targets {
			if current.CanTransitionTo(target) {
				current = target
			}
		}
		return current
	}

	properties.Property("replaying a request sequence is deterministic", prop.ForAll(
		func(targets []OrderState) bool {
			return apply(targets) == apply(targets)
		},
		gen.SliceOf(orderStateGen()),
	))

	properties.Property("applied transitions only follow allowed edges", prop.ForAll(
		func(targets []OrderState) bool {
			current := StateOrderPlaced
			for _, target := range targets {
				if !current.CanTransitionTo(target) {
					continue
				}
				allowed := false
				for _, n := range current.AllowedNextStates() {
					if n == target {
						allowed = true
					}
				}
				if !allowed {
					return false
				}
				current = target
			}
			return true
		},
		gen.SliceOf(orderStateGen()),
	))

	properties.TestingRun(t)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
