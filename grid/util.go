package grid

import (
	"encoding/json"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/safe-interrupt/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Positioned states expose the agent position
type Positioned interface {
	Pos() Position
}

// GridDataSet counts the visits to each cell
type GridDataSet struct {
	Visits map[int]map[int]int
	Height int
	Width  int
}

var _ plotter.GridXYZ = &GridDataSet{}

func (g *GridDataSet) Dims() (int, int) {
	return g.Width, g.Height
}

func (g *GridDataSet) Z(c, r int) float64 {
	return float64(g.Visits[c][r])
}

func (g *GridDataSet) X(c int) float64 {
	return float64(c)
}

// rows are flipped so that y = 0 is drawn at the top like the grid
func (g *GridDataSet) Y(r int) float64 {
	return float64(g.Height - 1 - r)
}

func (g *GridDataSet) Min() float64 {
	return 0.0
}

func (g *GridDataSet) Max() float64 {
	max := 0
	for _, vals := range g.Visits {
		for _, count := range vals {
			if count > max {
				max = count
			}
		}
	}
	return float64(max)
}

func (g *GridDataSet) Count(p Position) int {
	return g.Visits[p.X][p.Y]
}

func (g *GridDataSet) add(p Position) {
	if _, ok := g.Visits[p.X]; !ok {
		g.Visits[p.X] = make(map[int]int)
	}
	g.Visits[p.X][p.Y] += 1
	if p.Y+1 > g.Height {
		g.Height = p.Y + 1
	}
	if p.X+1 > g.Width {
		g.Width = p.X + 1
	}
}

// VisitAnalyzer accumulates the cells visited across all the episodes of an experiment
type VisitAnalyzer struct {
	dataSet *GridDataSet
}

var _ types.Analyzer = &VisitAnalyzer{}

func NewVisitAnalyzer() *VisitAnalyzer {
	v := &VisitAnalyzer{}
	v.Reset()
	return v
}

func (v *VisitAnalyzer) Analyze(_ int, _ int, _ string, trace *types.Trace) {
	for i := 0; i < trace.Len(); i++ {
		state, _, nextState, _ := trace.Get(i)
		if i == 0 {
			if p, ok := state.(Positioned); ok {
				v.dataSet.add(p.Pos())
			}
		}
		if p, ok := nextState.(Positioned); ok {
			v.dataSet.add(p.Pos())
		}
	}
}

func (v *VisitAnalyzer) DataSet() types.DataSet {
	return v.dataSet
}

func (v *VisitAnalyzer) Reset() {
	v.dataSet = &GridDataSet{
		Visits: make(map[int]map[int]int),
	}
}

// HeatMapComparator saves a visit heatmap and the raw counts of every experiment
func HeatMapComparator(savePath string) types.Comparator {
	return func(run int, names []string, ds []types.DataSet) error {
		if err := os.MkdirAll(savePath, os.ModePerm); err != nil {
			return err
		}
		for i := 0; i < len(names); i++ {
			name := names[i]
			dataSet := ds[i].(*GridDataSet)
			prefix := path.Join(savePath, strconv.Itoa(run)+"_"+name)

			bs, err := json.Marshal(dataSet)
			if err != nil {
				return err
			}
			if err := os.WriteFile(prefix+"_visits.json", bs, 0644); err != nil {
				return err
			}
			if dataSet.Width == 0 || dataSet.Height == 0 {
				continue
			}

			p := plot.New()
			p.Title.Text = name
			p.Add(plotter.NewHeatMap(dataSet, palette.Heat(20, 1)))
			if err := p.Save(4*vg.Inch, 4*vg.Inch, prefix+"_visits.png"); err != nil {
				return err
			}
		}
		return nil
	}
}
