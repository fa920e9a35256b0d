package explorer

import (
	"fmt"
	"strings"
)

// Step of a recorded trace, states and actions are stored by their hash
type Step struct {
	State     string
	Action    string
	NextState string
	Reward    float64
}

type Trace struct {
	States     []string  `json:"states"`
	Actions    []string  `json:"actions"`
	NextStates []string  `json:"next_states"`
	Rewards    []float64 `json:"rewards"`
	Terminal   bool      `json:"terminal"`
	Truncated  bool      `json:"truncated"`
}

func NewTrace() *Trace {
	return &Trace{
		States:     make([]string, 0),
		Actions:    make([]string, 0),
		NextStates: make([]string, 0),
		Rewards:    make([]float64, 0),
	}
}

func (t *Trace) Len() int {
	return len(t.States)
}

func (t *Trace) Get(index int) (Step, bool) {
	if index < 0 || index >= len(t.States) {
		return Step{}, false
	}
	return Step{
		State:     t.States[index],
		Action:    t.Actions[index],
		NextState: t.NextStates[index],
		Reward:    t.Rewards[index],
	}, true
}

func (t *Trace) Return() float64 {
	total := 0.0
	for _, r := range t.Rewards {
		total += r
	}
	return total
}

func (t *Trace) valid() bool {
	n := len(t.States)
	return len(t.Actions) == n && len(t.NextStates) == n && len(t.Rewards) == n
}

// Outcome of the trace, read from its last state
func (t *Trace) Outcome() string {
	switch {
	case t.Len() == 0:
		return "empty"
	case t.Truncated:
		return "truncated"
	case !t.Terminal:
		return "horizon"
	case t.Rewards[t.Len()-1] > 0:
		return "goal"
	}
	return "penalty"
}

// Describe expands the flags of a state hash, one per line
func Describe(stateKey string) string {
	fields := strings.Fields(stateKey)
	out := ""
	pos := make([]string, 0)
	for _, f := range fields {
		if k, v, ok := strings.Cut(f, ":"); ok {
			out += fmt.Sprintf("\t%s: %s\n", k, v)
			continue
		}
		pos = append(pos, f)
	}
	return fmt.Sprintf("\tposition: %s\n%s", strings.Join(pos, " "), out)
}
