package types

import "fmt"

type AgentConfig struct {
	Episodes    int
	Horizon     int
	Policy      Policy
	Environment Environment
}

// RL Agent configured with the corresponding
// policy and environment
type Agent struct {
	config      *AgentConfig
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// Run the agent for the specified number of episodes and horizon
func (a *Agent) Run() ([]*Trace, error) {
	traces := make([]*Trace, a.config.Episodes)
	for i := 0; i < a.config.Episodes; i++ {
		eCtx := NewEpisodeContext(i)
		a.RunEpisode(eCtx)
		if eCtx.Err != nil {
			return traces[:i], eCtx.Err
		}
		traces[i] = eCtx.Trace
	}
	return traces, nil
}

// RunEpisode runs a single episode and stores the outcome in the episode context.
// The episode stops at the horizon or when the environment reports the episode is done
func (a *Agent) RunEpisode(eCtx *EpisodeContext) {
	state, err := a.environment.Reset()
	if err != nil {
		eCtx.SetError(fmt.Errorf("reset: %w", err))
		return
	}
	trace := eCtx.Trace
	actions := state.Actions()

	for i := 0; i < a.config.Horizon; i++ {
		if len(actions) == 0 {
			break
		}
		nextAction, ok := a.policy.NextAction(i, state, actions)
		if !ok {
			break
		}
		transition, err := a.environment.Step(nextAction)
		if err != nil {
			eCtx.SetError(fmt.Errorf("step %d: %w", i, err))
			return
		}
		a.policy.Update(&StepContext{
			Step:       i,
			State:      state,
			Action:     nextAction,
			Transition: transition,
		})

		trace.Append(i, state, nextAction, transition.NextState, transition.Reward)
		eCtx.Timesteps += 1
		state = transition.NextState
		actions = state.Actions()

		if transition.Done() {
			trace.Terminal = transition.Terminal
			trace.Truncated = transition.Truncated
			break
		}
	}
	if !trace.Terminal && !trace.Truncated {
		eCtx.HorizonEnd = true
	}
	a.policy.UpdateIteration(eCtx.Episode, trace)
}
