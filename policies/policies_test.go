package policies

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/safe-interrupt/types"
)

// chain is a line of states 0..length-1, reaching the last one ends the episode with reward 1
type chain struct {
	length int
	pos    int
}

type chainState int

func (c chainState) Hash() string { return strconv.Itoa(int(c)) }
func (c chainState) Actions() []types.Action {
	return []types.Action{chainAction("left"), chainAction("right")}
}

type chainAction string

func (c chainAction) Hash() string { return string(c) }

func (c *chain) Reset() (types.State, error) {
	c.pos = 0
	return chainState(0), nil
}

func (c *chain) Step(a types.Action) (*types.Transition, error) {
	switch a.Hash() {
	case "left":
		if c.pos > 0 {
			c.pos--
		}
	case "right":
		c.pos++
	}
	done := c.pos == c.length-1
	reward := 0.0
	if done {
		reward = 1
	}
	return &types.Transition{NextState: chainState(c.pos), Reward: reward, Terminal: done}, nil
}

func terminated(traces []*types.Trace) int {
	count := 0
	for _, tr := range traces {
		if tr.Terminal {
			count++
		}
	}
	return count
}

func train(t *testing.T, policy types.Policy, episodes int) []*types.Trace {
	t.Helper()
	agent := types.NewAgent(&types.AgentConfig{
		Episodes:    episodes,
		Horizon:     50,
		Policy:      policy,
		Environment: &chain{length: 5},
	})
	traces, err := agent.Run()
	require.NoError(t, err)
	return traces
}

func TestQLearningLearnsChain(t *testing.T) {
	q := NewQLearningPolicy(0.5, 0.9, 0.3, 1)
	train(t, q, 500)

	for s := 0; s < 4; s++ {
		state := chainState(s).Hash()
		assert.Greater(t, q.QTable().Get(state, "right", 0), q.QTable().Get(state, "left", 0), "state %d", s)
	}
	assert.InDelta(t, 1.0, q.QTable().Get("3", "right", 0), 1e-3)

	q.Reset()
	assert.Equal(t, 0, q.QTable().Len())
}

func TestQLearningTerminalHasNoFutureValue(t *testing.T) {
	q := NewQLearningPolicy(1, 0.9, 0, 1)
	q.QTable().Set("end", "left", 100)
	q.Update(&types.StepContext{
		State:      chainState(0),
		Action:     chainAction("right"),
		Transition: &types.Transition{NextState: chainEnd{}, Reward: -1, Terminal: true},
	})
	assert.Equal(t, -1.0, q.QTable().Get("0", "right", 0))
}

type chainEnd struct{}

func (chainEnd) Hash() string            { return "end" }
func (chainEnd) Actions() []types.Action { return nil }

func TestSoftMaxPrefersBestAction(t *testing.T) {
	s := NewSoftMaxPolicy(0.1, 0.9, 0.05, 3)
	s.QTable().Set("0", "right", 1)
	s.QTable().Set("0", "left", 0)
	actions := chainState(0).Actions()

	right := 0
	for i := 0; i < 200; i++ {
		a, ok := s.NextAction(0, chainState(0), actions)
		require.True(t, ok)
		if a.Hash() == "right" {
			right++
		}
	}
	assert.Greater(t, right, 190)

	_, ok := s.NextAction(0, chainState(0), nil)
	assert.False(t, ok)
}

func TestSoftMaxLearnsChain(t *testing.T) {
	s := NewSoftMaxPolicy(0.5, 0.9, 0.5, 2)
	traces := train(t, s, 300)
	assert.Greater(t, terminated(traces[250:]), 45)
	assert.Greater(t, s.QTable().Get("3", "right", 0), 0.5)
}

func TestBonusPrefersUntriedActions(t *testing.T) {
	b := NewBonusPolicyGreedy(0.5, 0.9, 0, 4)
	b.Update(&types.StepContext{
		State:      chainState(0),
		Action:     chainAction("left"),
		Transition: &types.Transition{NextState: chainState(0), Reward: -1},
	})
	a, ok := b.NextAction(0, chainState(0), chainState(0).Actions())
	require.True(t, ok)
	assert.Equal(t, "right", a.Hash())

	traces := train(t, b, 200)
	assert.Greater(t, terminated(traces[150:]), 40)
}

func TestQTableRecordRead(t *testing.T) {
	q := NewQTable()
	q.Set("s", "a", 0.5)
	q.Set("s", "b", -0.5)
	q.Set("s", "a", 0.7)
	assert.Equal(t, 0.7, q.Get("s", "a", 0))

	action, val := q.Max("s", 0)
	assert.Equal(t, "a", action)
	assert.Equal(t, 0.7, val)
	_, def := q.Max("unknown", 3)
	assert.Equal(t, 3.0, def)

	file := filepath.Join(t.TempDir(), "q.json")
	require.NoError(t, q.Record(file))
	read := NewQTable()
	require.NoError(t, read.Read(file))
	values, ok := read.GetAll("s")
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"a": 0.7, "b": -0.5}, values)
	assert.True(t, read.HasState("s"))
	assert.False(t, read.HasState("t"))
}
