package types

import (
	"encoding/json"
	"os"
)

// Trace of an episode as (state, action, nextState, reward) tuples
type Trace struct {
	states     []State
	actions    []Action
	nextStates []State
	rewards    []float64
	// Terminal is set if the last transition ended the episode inside the environment
	Terminal  bool
	Truncated bool
}

func NewTrace() *Trace {
	return &Trace{
		states:     make([]State, 0),
		actions:    make([]Action, 0),
		nextStates: make([]State, 0),
		rewards:    make([]float64, 0),
	}
}

func (t *Trace) Slice(from, to int) *Trace {
	slicedTrace := NewTrace()
	for i := from; i < to; i++ {
		slicedTrace.Append(i-from, t.states[i], t.actions[i], t.nextStates[i], t.rewards[i])
	}
	return slicedTrace
}

func (t *Trace) Append(step int, state State, action Action, nextState State, reward float64) {
	t.states = append(t.states, state)
	t.actions = append(t.actions, action)
	t.nextStates = append(t.nextStates, nextState)
	t.rewards = append(t.rewards, reward)
}

func (t *Trace) Len() int {
	return len(t.states)
}

func (t *Trace) Get(i int) (State, Action, State, bool) {
	if i < 0 || i >= len(t.states) {
		return nil, nil, nil, false
	}
	return t.states[i], t.actions[i], t.nextStates[i], true
}

func (t *Trace) Reward(i int) (float64, bool) {
	if i < 0 || i >= len(t.rewards) {
		return 0, false
	}
	return t.rewards[i], true
}

// Return is the undiscounted sum of rewards
func (t *Trace) Return() float64 {
	total := 0.0
	for _, r := range t.rewards {
		total += r
	}
	return total
}

func (t *Trace) Last() (State, Action, State, bool) {
	if len(t.states) < 1 {
		return nil, nil, nil, false
	}
	lastIndex := len(t.states) - 1
	return t.states[lastIndex], t.actions[lastIndex], t.nextStates[lastIndex], true
}

func (t *Trace) GetPrefix(i int) (*Trace, bool) {
	if i > len(t.states) {
		return nil, false
	}
	return &Trace{
		states:     t.states[0:i],
		actions:    t.actions[0:i],
		nextStates: t.nextStates[0:i],
		rewards:    t.rewards[0:i],
	}, true
}

type jsonTrace struct {
	States     []string  `json:"states"`
	Actions    []string  `json:"actions"`
	NextStates []string  `json:"next_states"`
	Rewards    []float64 `json:"rewards"`
	Terminal   bool      `json:"terminal"`
	Truncated  bool      `json:"truncated"`
}

// MarshalJSON records the hashes of states and actions
func (t *Trace) MarshalJSON() ([]byte, error) {
	out := jsonTrace{
		States:     make([]string, len(t.states)),
		Actions:    make([]string, len(t.actions)),
		NextStates: make([]string, len(t.nextStates)),
		Rewards:    t.rewards,
		Terminal:   t.Terminal,
		Truncated:  t.Truncated,
	}
	for i := range t.states {
		out.States[i] = t.states[i].Hash()
		out.Actions[i] = t.actions[i].Hash()
		out.NextStates[i] = t.nextStates[i].Hash()
	}
	return json.Marshal(out)
}

func (t *Trace) Record(filePath string) error {
	bs, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, bs, 0644)
}
