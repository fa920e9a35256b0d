package grid

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/safe-interrupt/types"
)

func TestDirections(t *testing.T) {
	assert.Equal(t, Position{X: 1, Y: 0}, Right.Vec())
	assert.Equal(t, Position{X: 0, Y: 1}, Down.Vec())
	assert.Equal(t, Up, Right.TurnLeft())
	assert.Equal(t, Down, Right.TurnRight())
	d := Left
	for i := 0; i < 4; i++ {
		d = d.TurnRight()
	}
	assert.Equal(t, Left, d)
}

func TestGridBounds(t *testing.T) {
	g := NewGrid(4, 3)
	assert.Equal(t, Wall, g.Get(Position{X: -1, Y: 0}).Kind)
	assert.Equal(t, Wall, g.Get(Position{X: 4, Y: 2}).Kind)
	g.Set(Position{X: 10, Y: 10}, GoalTile)
	assert.Empty(t, g.Find(Goal))

	g.WallRect(0, 0, 4, 3)
	g.Set(Position{X: 2, Y: 1}, GoalTile)
	assert.Len(t, g.Find(Wall), 10)
	assert.Equal(t, []Position{{X: 1, Y: 1}}, g.Find(Empty))
	assert.Equal(t, []Position{{X: 2, Y: 1}}, g.Find(Goal))
}

type posState struct{ p Position }

func (s posState) Hash() string            { return s.p.Hash() }
func (s posState) Actions() []types.Action { return nil }
func (s posState) Pos() Position           { return s.p }

type noop struct{}

func (noop) Hash() string { return "noop" }

func TestVisitAnalyzer(t *testing.T) {
	trace := types.NewTrace()
	trace.Append(0, posState{Position{1, 1}}, noop{}, posState{Position{2, 1}}, 0)
	trace.Append(1, posState{Position{2, 1}}, noop{}, posState{Position{2, 2}}, 0)

	v := NewVisitAnalyzer()
	v.Analyze(0, 0, "exp", trace)
	v.Analyze(0, 1, "exp", trace)
	ds := v.DataSet().(*GridDataSet)
	assert.Equal(t, 2, ds.Count(Position{1, 1}))
	assert.Equal(t, 2, ds.Count(Position{2, 2}))
	assert.Equal(t, 3, ds.Width)
	assert.Equal(t, 3, ds.Height)
	assert.Equal(t, 2.0, ds.Max())

	dir := t.TempDir()
	require.NoError(t, HeatMapComparator(dir)(0, []string{"exp"}, []types.DataSet{ds}))
	assert.FileExists(t, filepath.Join(dir, "0_exp_visits.json"))
	assert.FileExists(t, filepath.Join(dir, "0_exp_visits.png"))

	v.Reset()
	assert.Equal(t, 0, v.DataSet().(*GridDataSet).Count(Position{1, 1}))
}
