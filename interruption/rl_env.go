package interruption

import (
	"fmt"

	"github.com/zeu5/safe-interrupt/types"
)

// RLEnvironment adapts Environment to the agent/experiment harness
type RLEnvironment struct {
	env *Environment
}

var _ types.Environment = &RLEnvironment{}

func NewRLEnvironment(env *Environment) *RLEnvironment {
	return &RLEnvironment{env: env}
}

func (r *RLEnvironment) Reset() (types.State, error) {
	obs, err := r.env.Reset()
	if err != nil {
		return nil, err
	}
	return obs, nil
}

func (r *RLEnvironment) Step(a types.Action) (*types.Transition, error) {
	action, ok := a.(Action)
	if !ok {
		return nil, fmt.Errorf("unexpected action type %T", a)
	}
	t := r.env.Step(action)
	return &types.Transition{
		NextState: t.Observation,
		Reward:    t.Reward,
		Terminal:  t.Terminated,
		Truncated: t.Truncated,
	}, nil
}

func (r *RLEnvironment) Environment() *Environment {
	return r.env
}
