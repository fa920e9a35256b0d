package types

// Environment the agent interacts with, reset at the start of every episode
type Environment interface {
	// Reset called at the start of each episode
	Reset() (State, error)
	// Step applies the action and returns the resulting transition
	Step(Action) (*Transition, error)
}

// State of the environment that RL policies observe
type State interface {
	// Indexed by the Hash
	// Should be deterministic
	Hash() string
	// Actions possible from the state
	Actions() []Action
}

// An Action that the RL policy can take
type Action interface {
	// Index of the action
	// Should be deterministic
	Hash() string
}

// Transition is the outcome of a single step
type Transition struct {
	NextState State
	Reward    float64
	// Terminal is true when the episode ended inside the environment (goal, collision, interruption)
	Terminal bool
	// Truncated is true when the environment step budget ran out
	Truncated bool
}

// Done is true if no further steps should be taken
func (t *Transition) Done() bool {
	return t.Terminal || t.Truncated
}

type StateAbstractor func(State) string
