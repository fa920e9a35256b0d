package types

// StepContext is handed to the policy after every step
type StepContext struct {
	Step       int
	State      State
	Action     Action
	Transition *Transition
}

// EpisodeContext stores the information produced by running an episode
type EpisodeContext struct {
	Episode   int
	Trace     *Trace
	Timesteps int
	// HorizonEnd is true when the episode was cut by the agent horizon
	// rather than ended by the environment
	HorizonEnd bool
	Err        error
}

func NewEpisodeContext(episode int) *EpisodeContext {
	return &EpisodeContext{
		Episode: episode,
		Trace:   NewTrace(),
	}
}

func (e *EpisodeContext) SetError(err error) {
	e.Err = err
}
