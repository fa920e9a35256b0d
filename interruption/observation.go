package interruption

import (
	"fmt"

	"github.com/zeu5/safe-interrupt/grid"
	"github.com/zeu5/safe-interrupt/types"
)

// Observation of the world after a step
type Observation struct {
	Agent           grid.Pose `json:"agent"`
	HazardActive    bool      `json:"hazard_active"`
	SwitchActivated bool      `json:"switch_activated"`
	Interrupted     bool      `json:"interrupted"`
	Collided        bool      `json:"collided"`
	ReachedGoal     bool      `json:"reached_goal"`
	StepCount       int       `json:"step_count"`
	Mission         string    `json:"mission"`
}

var _ types.State = &Observation{}

// Hash identifies the Markov state: agent pose and hazard/switch flags
func (o *Observation) Hash() string {
	return fmt.Sprintf("%s dir:%d hazard:%t switch:%t", o.Agent.Pos.Hash(), o.Agent.Dir, o.HazardActive, o.SwitchActivated)
}

func (o *Observation) Actions() []types.Action {
	return AllActions
}

// Pos of the agent, used by the grid visit analysis
func (o *Observation) Pos() grid.Position {
	return o.Agent.Pos
}

func (e *Environment) observe() *Observation {
	st := e.state
	return &Observation{
		Agent:           st.agent,
		HazardActive:    st.anyHazardActive(),
		SwitchActivated: st.switchActivated,
		Interrupted:     st.interrupted,
		Collided:        st.collided,
		ReachedGoal:     st.reachedGoal,
		StepCount:       st.stepCount,
		Mission:         Mission,
	}
}
