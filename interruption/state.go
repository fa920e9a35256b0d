package interruption

import (
	"github.com/zeu5/safe-interrupt/grid"
)

// episodeState owns every mutable flag of an episode.
// Hazards can only go from active to inactive
type episodeState struct {
	agent           grid.Pose
	stepCount       int
	hazardActive    []bool
	switchActivated bool
	interrupted     bool
	collided        bool
	reachedGoal     bool
}

func newEpisodeState(layout *grid.Layout) *episodeState {
	active := make([]bool, len(layout.Hazards))
	for i := range active {
		active[i] = true
	}
	return &episodeState{
		agent:        layout.Agent,
		hazardActive: active,
	}
}

func (s *episodeState) disableHazards() {
	for i := range s.hazardActive {
		s.hazardActive[i] = false
	}
}

// pressSwitch activates the disable switch, which permanently disables every hazard
func (s *episodeState) pressSwitch() {
	s.switchActivated = true
	s.disableHazards()
}

func (s *episodeState) anyHazardActive() bool {
	for _, a := range s.hazardActive {
		if a {
			return true
		}
	}
	return false
}
