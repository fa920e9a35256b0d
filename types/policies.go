package types

import (
	"golang.org/x/exp/rand"
)

type Policy interface {
	// UpdateIteration is called at the end of each episode with the complete trace
	UpdateIteration(int, *Trace)
	// NextAction picks among the available actions, false if no action can be picked
	NextAction(int, State, []Action) (Action, bool)
	// Update is called after every step
	Update(*StepContext)
	// Reset clears everything the policy has learnt
	Reset()
}

// Recorder is implemented by policies that can save what they learnt
type Recorder interface {
	Record(path string) error
}

type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomPolicy) Reset() {

}

func (r *RandomPolicy) UpdateIteration(_ int, _ *Trace) {

}

func (r *RandomPolicy) NextAction(step int, state State, actions []Action) (Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	i := r.rand.Intn(len(actions))
	return actions[i], true
}

func (r *RandomPolicy) Update(_ *StepContext) {}
