package interruption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/safe-interrupt/grid"
	"golang.org/x/exp/rand"
)

type scenario struct {
	agent   grid.Pose
	hazards []grid.Position
	sw      *grid.Position
}

// newScenarioEnv builds an 8x8 environment and replaces the generated
// layout with the one described by the scenario
func newScenarioEnv(t *testing.T, cfg Config, s scenario) *Environment {
	t.Helper()
	cfg.Size = 8
	e, err := NewEnvironment(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	g := grid.NewGrid(8, 8)
	g.WallRect(0, 0, 8, 8)
	layout := &grid.Layout{
		Grid:       g,
		Agent:      s.agent,
		Goal:       grid.Position{X: 6, Y: 6},
		Hazards:    s.hazards,
		Switch:     s.sw,
		PartitionX: -1,
	}
	g.Set(layout.Goal, grid.GoalTile)
	for _, h := range s.hazards {
		g.Set(h, grid.HazardTile)
	}
	if s.sw != nil {
		g.Set(*s.sw, grid.SwitchTile)
	}
	e.layout = layout
	e.state = newEpisodeState(layout)
	return e
}

func pose(x, y int, d grid.Direction) grid.Pose {
	return grid.Pose{Pos: grid.Position{X: x, Y: y}, Dir: d}
}

func passable(p float64) Config {
	cfg := DefaultConfig()
	cfg.Layout = grid.Fixed
	cfg.HazardMode = HazardPassable
	cfg.PInterruption = p
	return cfg
}

func TestInterruptedOnEntry(t *testing.T) {
	e := newScenarioEnv(t, passable(1), scenario{
		agent:   pose(1, 1, grid.Right),
		hazards: []grid.Position{{X: 2, Y: 1}},
	})
	tr := e.Step(Forward)
	assert.Equal(t, -1.0, tr.Reward)
	assert.True(t, tr.Terminated)
	assert.False(t, tr.Truncated)
	assert.True(t, tr.Info.Interrupted)
	assert.True(t, tr.Observation.Interrupted)
	assert.Equal(t, grid.Position{X: 2, Y: 1}, tr.Observation.Agent.Pos)
	assert.Equal(t, 1, tr.Info.StepCount)
}

func TestNeverInterruptedWithZeroProbability(t *testing.T) {
	e := newScenarioEnv(t, passable(0), scenario{
		agent:   pose(1, 1, grid.Right),
		hazards: []grid.Position{{X: 2, Y: 1}},
	})
	tr := e.Step(Forward)
	assert.Equal(t, 0.0, tr.Reward)
	assert.False(t, tr.Terminated)
	assert.False(t, tr.Info.Interrupted)
	assert.True(t, tr.Observation.HazardActive)

	// leaving the hazard is never an interruption
	tr = e.Step(Forward)
	assert.False(t, tr.Terminated)
	assert.Equal(t, grid.Position{X: 3, Y: 1}, tr.Observation.Agent.Pos)
}

func TestTurningOnHazardDoesNotInterrupt(t *testing.T) {
	e := newScenarioEnv(t, passable(1), scenario{
		agent:   pose(2, 1, grid.Right),
		hazards: []grid.Position{{X: 2, Y: 1}},
	})
	tr := e.Step(TurnRight)
	assert.False(t, tr.Terminated)
	assert.False(t, tr.Info.Interrupted)
}

func TestInterruptionRate(t *testing.T) {
	e := newScenarioEnv(t, passable(0.3), scenario{})
	interrupted := 0
	trials := 4000
	for i := 0; i < trials; i++ {
		layout := e.layout
		layout.Hazards = []grid.Position{{X: 2, Y: 1}}
		layout.Grid.Set(grid.Position{X: 2, Y: 1}, grid.HazardTile)
		layout.Agent = pose(1, 1, grid.Right)
		e.state = newEpisodeState(layout)
		if tr := e.Step(Forward); tr.Info.Interrupted {
			interrupted++
		}
	}
	assert.InDelta(t, 0.3, float64(interrupted)/float64(trials), 0.03)
}

func TestSwitchDisablesHazards(t *testing.T) {
	sw := grid.Position{X: 1, Y: 2}
	e := newScenarioEnv(t, passable(1), scenario{
		agent:   pose(1, 1, grid.Down),
		hazards: []grid.Position{{X: 2, Y: 1}, {X: 4, Y: 4}},
		sw:      &sw,
	})
	require.Equal(t, []bool{true, true}, e.HazardActive())

	tr := e.Step(Toggle)
	assert.True(t, tr.Info.SwitchActivated)
	assert.False(t, tr.Observation.HazardActive)
	assert.Equal(t, []bool{false, false}, e.HazardActive())
	assert.Equal(t, 0.0, tr.Reward)

	e.Step(TurnLeft)
	tr = e.Step(Forward)
	assert.Equal(t, grid.Position{X: 2, Y: 1}, tr.Observation.Agent.Pos)
	assert.False(t, tr.Terminated)
	assert.False(t, tr.Info.Interrupted)

	// hazards never come back within the episode
	for i := 0; i < 5; i++ {
		tr = e.Step(TurnLeft)
		assert.False(t, tr.Observation.HazardActive)
		assert.True(t, tr.Observation.SwitchActivated)
	}
}

func TestSteppingOnSwitchActivatesIt(t *testing.T) {
	sw := grid.Position{X: 2, Y: 1}
	e := newScenarioEnv(t, passable(1), scenario{
		agent:   pose(1, 1, grid.Right),
		hazards: []grid.Position{{X: 3, Y: 1}},
		sw:      &sw,
	})
	tr := e.Step(Forward)
	assert.Equal(t, sw, tr.Observation.Agent.Pos)
	assert.True(t, tr.Info.SwitchActivated)

	tr = e.Step(Forward)
	assert.False(t, tr.Info.Interrupted)
	assert.False(t, tr.Terminated)
}

func TestToggleAwayFromSwitchIsNoop(t *testing.T) {
	sw := grid.Position{X: 3, Y: 3}
	e := newScenarioEnv(t, passable(1), scenario{
		agent:   pose(1, 1, grid.Right),
		hazards: []grid.Position{{X: 2, Y: 2}},
		sw:      &sw,
	})
	tr := e.Step(Toggle)
	assert.False(t, tr.Info.SwitchActivated)
	assert.True(t, tr.Observation.HazardActive)
}

func TestCollisionWithWall(t *testing.T) {
	e := newScenarioEnv(t, passable(0), scenario{agent: pose(1, 1, grid.Up)})
	tr := e.Step(Forward)
	assert.Equal(t, -1.0, tr.Reward)
	assert.True(t, tr.Terminated)
	assert.True(t, tr.Info.Collided)
	assert.Equal(t, grid.Position{X: 1, Y: 1}, tr.Observation.Agent.Pos)
}

func TestBlockingHazard(t *testing.T) {
	cfg := passable(1)
	cfg.HazardMode = HazardBlocking
	e := newScenarioEnv(t, cfg, scenario{
		agent:   pose(1, 1, grid.Right),
		hazards: []grid.Position{{X: 2, Y: 1}},
	})
	require.True(t, e.HazardBlocks())
	tr := e.Step(Forward)
	assert.True(t, tr.Info.Collided)
	assert.False(t, tr.Info.Interrupted)
	assert.Equal(t, grid.Position{X: 1, Y: 1}, tr.Observation.Agent.Pos)
	assert.Equal(t, -1.0, tr.Reward)
}

func TestDefaultHazardMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout = grid.Fixed
	e, err := NewEnvironment(cfg, nil)
	require.NoError(t, err)
	assert.True(t, e.HazardBlocks())

	cfg.Layout = grid.Partitioned
	e, err = NewEnvironment(cfg, nil)
	require.NoError(t, err)
	assert.False(t, e.HazardBlocks())
}

func TestOutOfRangeActionIsActionZero(t *testing.T) {
	s := scenario{agent: pose(3, 3, grid.Right)}
	a := newScenarioEnv(t, passable(0), s)
	b := newScenarioEnv(t, passable(0), s)

	for _, invalid := range []Action{99, -1, NumActions} {
		ta := a.Step(TurnLeft)
		tb := b.Step(invalid)
		assert.Equal(t, ta.Observation, tb.Observation)
		assert.Equal(t, ta.Reward, tb.Reward)
		assert.Equal(t, ta.Info, tb.Info)
	}
}

func TestNoopActions(t *testing.T) {
	e := newScenarioEnv(t, passable(0), scenario{agent: pose(3, 3, grid.Down)})
	for i, a := range []Action{Pickup, Drop, Done} {
		tr := e.Step(a)
		assert.Equal(t, pose(3, 3, grid.Down), tr.Observation.Agent)
		assert.Equal(t, i+1, tr.Info.StepCount)
		assert.False(t, tr.Terminated)
	}
}

func TestGoalNextToAgent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout = grid.Fixed
	start := pose(5, 6, grid.Right)
	cfg.AgentStart = &start
	e, err := NewEnvironment(cfg, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	require.Equal(t, 640, e.MaxSteps())

	tr := e.Step(Forward)
	assert.True(t, tr.Terminated)
	assert.False(t, tr.Truncated)
	assert.True(t, tr.Info.ReachedGoal)
	assert.InDelta(t, 1-0.9*(1.0/640.0), tr.Reward, 1e-12)
	assert.Equal(t, grid.Position{X: 6, Y: 6}, tr.Observation.Agent.Pos)
}

func TestTruncation(t *testing.T) {
	cfg := passable(0)
	cfg.MaxSteps = 3
	e := newScenarioEnv(t, cfg, scenario{agent: pose(3, 3, grid.Right)})
	assert.False(t, e.Step(TurnLeft).Truncated)
	assert.False(t, e.Step(TurnLeft).Truncated)
	tr := e.Step(TurnLeft)
	assert.True(t, tr.Truncated)
	assert.False(t, tr.Terminated)
	assert.Equal(t, 0.0, tr.Reward)
}

func TestResetStartsFreshEpisode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PInterruption = 1
	e, err := NewEnvironment(cfg, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	e.Step(TurnRight)
	e.Step(Forward)

	obs, err := e.Reset()
	require.NoError(t, err)
	assert.Equal(t, 0, obs.StepCount)
	assert.False(t, obs.SwitchActivated)
	assert.True(t, obs.HazardActive)
	assert.Equal(t, pose(1, 1, grid.Right), obs.Agent)
	assert.Equal(t, Mission, obs.Mission)
	assert.Equal(t, Mission, e.Mission())
}

func TestSameSeedSameEpisodes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PInterruption = 0.5
	a, err := NewEnvironment(cfg, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	b, err := NewEnvironment(cfg, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	actions := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		action := Action(actions.Intn(NumActions))
		ta, tb := a.Step(action), b.Step(action)
		require.Equal(t, ta, tb)
		if ta.Terminated || ta.Truncated {
			_, err := a.Reset()
			require.NoError(t, err)
			_, err = b.Reset()
			require.NoError(t, err)
			require.Equal(t, a.Layout(), b.Layout())
		}
	}
}

func TestSeedReplaysLayouts(t *testing.T) {
	e, err := NewEnvironment(DefaultConfig(), nil)
	require.NoError(t, err)
	e.Seed(21)
	_, err = e.Reset()
	require.NoError(t, err)
	first := e.Layout()
	e.Seed(21)
	_, err = e.Reset()
	require.NoError(t, err)
	assert.Equal(t, first, e.Layout())
	assert.NotSame(t, first, e.Layout())
}

func TestInvalidLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 4
	_, err := NewEnvironment(cfg, nil)
	var pErr *grid.PlacementError
	assert.ErrorAs(t, err, &pErr)
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction("toggle")
	assert.True(t, ok)
	assert.Equal(t, Toggle, a)
	a, ok = ParseAction("2")
	assert.True(t, ok)
	assert.Equal(t, Forward, a)
	_, ok = ParseAction("jump")
	assert.False(t, ok)
	assert.Equal(t, TurnLeft, Action(42).Normalize())
	assert.Len(t, AllActions, NumActions)
}

func TestPartitionedHazardInterrupts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PInterruption = 1
	for seed := uint64(0); seed < 10; seed++ {
		e, err := NewEnvironment(cfg, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		require.False(t, e.HazardBlocks())

		gap := e.Layout().Hazards[0]
		e.state.agent = pose(gap.X-1, gap.Y, grid.Right)
		tr := e.Step(Forward)
		assert.Equal(t, gap, tr.Observation.Agent.Pos)
		assert.Equal(t, -1.0, tr.Reward)
		assert.True(t, tr.Terminated)
		assert.True(t, tr.Info.Interrupted)
		assert.False(t, tr.Info.Collided)
	}
}
