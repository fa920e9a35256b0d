package types

var (
	InitState string = "init"
	FailState string = "fail"
)

// Predicate over a single state
type StatePredicate func(State) bool

func (r StatePredicate) And(other StatePredicate) StatePredicate {
	return func(s State) bool {
		return r(s) && other(s)
	}
}

func (r StatePredicate) Or(other StatePredicate) StatePredicate {
	return func(s State) bool {
		return r(s) || other(s)
	}
}

func (r StatePredicate) Not() StatePredicate {
	return func(s State) bool {
		return !r(s)
	}
}

// OnNext lifts the predicate to a MonitorCondition evaluated on the next state of a transition
func (r StatePredicate) OnNext() MonitorCondition {
	return func(_ State, _ Action, ns State) bool {
		return r(ns)
	}
}

// MonitorState is a state in the state machine (Monitor)
// Use MonitorBuilder to create monitor states (do not instantiate directly)
type MonitorState struct {
	Success     bool
	Name        string
	transitions map[string]MonitorCondition
	// order of the transitions, conditions are checked in insertion order
	order []string
}

// Transitions of a Monitor are labelled with a MonitorCondition
// MonitorCondition is a predicate on the transition of RL (state, action, nextState)
type MonitorCondition func(State, Action, State) bool

// Not operator on the MonitorCondition
func (m MonitorCondition) Not() MonitorCondition {
	return func(s State, a Action, ns State) bool {
		return !m(s, a, ns)
	}
}

// Or operator between MonitorCondition's
func (m MonitorCondition) Or(other MonitorCondition) MonitorCondition {
	return func(s State, a Action, ns State) bool {
		return m(s, a, ns) || other(s, a, ns)
	}
}

// And operator between MonitorCondition's
func (m MonitorCondition) And(other MonitorCondition) MonitorCondition {
	return func(s State, a Action, ns State) bool {
		return m(s, a, ns) && other(s, a, ns)
	}
}

// Monitor is a generic state machine over traces
type Monitor struct {
	Name   string
	states map[string]*MonitorState
}

// Checks if a trace satisfies the monitor
// Simulates the monitor and returns the prefix
// that results in a transition to a success state
func (m *Monitor) Check(t *Trace) (*Trace, bool) {
	curState := m.states[InitState]
	if curState.Success {
		return NewTrace(), true
	}
	for i := 0; i < t.Len(); i++ {
		s, a, ns, _ := t.Get(i)
		for _, next := range curState.order {
			if curState.transitions[next](s, a, ns) {
				curState = m.states[next]
				break
			}
		}
		if curState.Success {
			return t.GetPrefix(i + 1)
		}
	}
	return nil, false
}

// Creates a new Monitor
// with a default initial state
func NewMonitor(name string) *Monitor {
	m := &Monitor{
		Name:   name,
		states: make(map[string]*MonitorState),
	}
	m.states[InitState] = newMonitorState(InitState)
	return m
}

func newMonitorState(name string) *MonitorState {
	return &MonitorState{
		Name:        name,
		Success:     false,
		transitions: make(map[string]MonitorCondition),
		order:       make([]string, 0),
	}
}

// Returns a MonitorBuilder to construct the remainder of the state machine
// Initialized at the initial state
func (m *Monitor) Build() *MonitorBuilder {
	return &MonitorBuilder{
		monitor:  m,
		curState: m.states[InitState],
	}
}

// Encodes a Builder pattern to create the state machine
// The builder is indexed at a particular state of the state machine (Monitor)
type MonitorBuilder struct {
	monitor  *Monitor
	curState *MonitorState
}

// On defines a transition from the current state based on the condition the next state
// returns a new builder instance that is indexed at the next state.
// To construct a chain of state one can call s1.On().On().On()...
// Node: If `next` is not part of the state machine, then its newly created otherwise the existing state is indexed
func (m *MonitorBuilder) On(cond MonitorCondition, next string) *MonitorBuilder {
	nextState, ok := m.monitor.states[next]
	if !ok {
		nextState = newMonitorState(next)
		m.monitor.states[next] = nextState
	}
	if _, exists := m.curState.transitions[next]; !exists {
		m.curState.order = append(m.curState.order, next)
	}
	m.curState.transitions[next] = cond
	return &MonitorBuilder{
		monitor:  m.monitor,
		curState: nextState,
	}
}

// Mark the corresponding state indexed at this builder instance as a success state
func (m *MonitorBuilder) MarkSuccess() *MonitorBuilder {
	m.curState.Success = true
	return m
}
