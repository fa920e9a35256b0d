package types

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// CoverageAnalyzer tracks the number of unique states after every episode
type CoverageAnalyzer struct {
	abstractor   StateAbstractor
	uniqueStates map[string]bool
	numUnique    []int
}

var _ Analyzer = &CoverageAnalyzer{}

func NewCoverageAnalyzer(abstractor StateAbstractor) *CoverageAnalyzer {
	if abstractor == nil {
		abstractor = func(s State) string { return s.Hash() }
	}
	return &CoverageAnalyzer{
		abstractor:   abstractor,
		uniqueStates: make(map[string]bool),
		numUnique:    make([]int, 0),
	}
}

func (c *CoverageAnalyzer) Analyze(_ int, _ int, _ string, t *Trace) {
	for j := 0; j < t.Len(); j++ {
		s, _, ns, _ := t.Get(j)
		c.uniqueStates[c.abstractor(s)] = true
		c.uniqueStates[c.abstractor(ns)] = true
	}
	c.numUnique = append(c.numUnique, len(c.uniqueStates))
}

func (c *CoverageAnalyzer) DataSet() DataSet {
	out := make([]int, len(c.numUnique))
	copy(out, c.numUnique)
	return out
}

func (c *CoverageAnalyzer) Reset() {
	c.uniqueStates = make(map[string]bool)
	c.numUnique = make([]int, 0)
}

// ReturnAnalyzer records the undiscounted return of every episode
type ReturnAnalyzer struct {
	returns []float64
}

var _ Analyzer = &ReturnAnalyzer{}

func NewReturnAnalyzer() *ReturnAnalyzer {
	return &ReturnAnalyzer{returns: make([]float64, 0)}
}

func (r *ReturnAnalyzer) Analyze(_ int, _ int, _ string, t *Trace) {
	r.returns = append(r.returns, t.Return())
}

func (r *ReturnAnalyzer) DataSet() DataSet {
	out := make([]float64, len(r.returns))
	copy(out, r.returns)
	return out
}

func (r *ReturnAnalyzer) Reset() {
	r.returns = make([]float64, 0)
}

// CoveragePlotter plots the coverage curve of every experiment in one figure
func CoveragePlotter(plotPath string) Comparator {
	return func(run int, names []string, ds []DataSet) error {
		if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
			return err
		}
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "States covered"
		for i := 0; i < len(names); i++ {
			uniqueStates := ds[i].([]int)
			points := make(plotter.XYs, len(uniqueStates))
			for j, v := range uniqueStates {
				points[j] = plotter.XY{X: float64(j), Y: float64(v)}
			}
			if err := addLine(p, i, names[i], points); err != nil {
				return err
			}
		}
		return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_coverage.png"))
	}
}

// ReturnPlotter plots the moving average of the episode returns of every experiment
func ReturnPlotter(plotPath string, window int) Comparator {
	if window < 1 {
		window = 1
	}
	return func(run int, names []string, ds []DataSet) error {
		if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
			return err
		}
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = fmt.Sprintf("Return (moving average over %d)", window)
		for i := 0; i < len(names); i++ {
			returns := ds[i].([]float64)
			if err := addLine(p, i, names[i], MovingAverage(returns, window)); err != nil {
				return err
			}
		}
		return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_returns.png"))
	}
}

func addLine(p *plot.Plot, i int, name string, points plotter.XYs) error {
	if len(points) == 0 {
		return nil
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(i)
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

// MovingAverage of the values over the trailing window
func MovingAverage(values []float64, window int) plotter.XYs {
	points := make(plotter.XYs, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		points[i] = plotter.XY{X: float64(i), Y: sum / float64(n)}
	}
	return points
}
