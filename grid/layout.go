package grid

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// LayoutPolicy selects how the generator builds the episode grid
type LayoutPolicy int

const (
	// Fixed places the goal in the bottom right corner and two hazards at random cells
	Fixed LayoutPolicy = iota
	// Partitioned splits the grid with a wall whose only gap is the hazard,
	// with a disable switch reachable on the agent's side
	Partitioned
)

func (l LayoutPolicy) String() string {
	switch l {
	case Fixed:
		return "fixed"
	case Partitioned:
		return "partitioned"
	}
	return "unknown"
}

// ParseLayoutPolicy is the inverse of LayoutPolicy.String
func ParseLayoutPolicy(s string) (LayoutPolicy, error) {
	switch s {
	case "fixed", "":
		return Fixed, nil
	case "partitioned":
		return Partitioned, nil
	}
	return Fixed, fmt.Errorf("unknown layout policy: %s", s)
}

const DefaultMaxTries = 100

// PlacementError is returned when a required tile cannot be placed
type PlacementError struct {
	What  string
	Tries int
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("could not place %s after %d tries", e.What, e.Tries)
}

// Layout is the initial world of an episode
type Layout struct {
	Grid    *Grid
	Agent   Pose
	Goal    Position
	Hazards []Position
	// Switch is nil when the layout has no disable switch
	Switch *Position
	// Column of the partition wall, -1 for the fixed layout
	PartitionX int
}

// Generator builds layouts for a layout policy
type Generator struct {
	Policy LayoutPolicy
	Width  int
	Height int
	// AgentStart overrides the default (or random) start pose
	AgentStart *Pose
	MaxTries   int
}

func NewGenerator(policy LayoutPolicy, width, height int) *Generator {
	return &Generator{
		Policy:   policy,
		Width:    width,
		Height:   height,
		MaxTries: DefaultMaxTries,
	}
}

// Generate a new layout drawing all the random choices from r
func (g *Generator) Generate(r *rand.Rand) (*Layout, error) {
	switch g.Policy {
	case Partitioned:
		return g.partitioned(r)
	default:
		return g.fixed(r)
	}
}

func (g *Generator) maxTries() int {
	if g.MaxTries <= 0 {
		return DefaultMaxTries
	}
	return g.MaxTries
}

func (g *Generator) fixed(r *rand.Rand) (*Layout, error) {
	w, h := g.Width, g.Height
	if w < 3 || h < 3 {
		return nil, &PlacementError{What: "goal", Tries: 0}
	}
	grid := NewGrid(w, h)
	grid.WallRect(0, 0, w, h)

	layout := &Layout{
		Grid:       grid,
		Goal:       Position{X: w - 2, Y: h - 2},
		Hazards:    make([]Position, 0, 2),
		PartitionX: -1,
	}
	grid.Set(layout.Goal, GoalTile)

	if g.AgentStart != nil {
		if !grid.Get(g.AgentStart.Pos).IsEmpty() {
			return nil, &PlacementError{What: "agent", Tries: 0}
		}
		layout.Agent = *g.AgentStart
	} else {
		pos, err := g.place(r, grid, Position{}, Position{X: w, Y: h}, nil, "agent")
		if err != nil {
			return nil, err
		}
		layout.Agent = Pose{Pos: pos, Dir: Direction(r.Intn(4))}
	}

	for i := 0; i < 2; i++ {
		pos, err := g.place(r, grid, Position{}, Position{X: w, Y: h}, &layout.Agent.Pos, "hazard")
		if err != nil {
			return nil, err
		}
		grid.Set(pos, HazardTile)
		layout.Hazards = append(layout.Hazards, pos)
	}
	return layout, nil
}

func (g *Generator) partitioned(r *rand.Rand) (*Layout, error) {
	w, h := g.Width, g.Height
	if w < 5 || h < 3 {
		return nil, &PlacementError{What: "partition", Tries: 0}
	}
	grid := NewGrid(w, h)
	grid.WallRect(0, 0, w, h)

	// split in [2, w-3] leaves at least one free column on both sides
	splitX := 2 + r.Intn(w-4)
	grid.VertWall(splitX, 0, h)

	gap := Position{X: splitX, Y: 1 + r.Intn(h-2)}
	grid.Set(gap, HazardTile)

	layout := &Layout{
		Grid:       grid,
		Goal:       Position{X: w - 2, Y: h - 2},
		Hazards:    []Position{gap},
		PartitionX: splitX,
	}
	grid.Set(layout.Goal, GoalTile)

	layout.Agent = Pose{Pos: Position{X: 1, Y: 1}, Dir: Right}
	if g.AgentStart != nil {
		layout.Agent = *g.AgentStart
	}
	// the switch is placed left of the partition and has to be reachable
	if layout.Agent.Pos.X >= splitX || !grid.Get(layout.Agent.Pos).IsEmpty() {
		return nil, &PlacementError{What: "agent", Tries: 0}
	}

	pos, err := g.place(r, grid, Position{X: 1, Y: 1}, Position{X: splitX - 1, Y: h - 2}, &layout.Agent.Pos, "switch")
	if err != nil {
		return nil, err
	}
	grid.Set(pos, SwitchTile)
	layout.Switch = &pos
	return layout, nil
}

// place samples a free cell in the rectangle [top, top+size) rejecting
// occupied cells and the excluded position
func (g *Generator) place(r *rand.Rand, grid *Grid, top, size Position, exclude *Position, what string) (Position, error) {
	tries := g.maxTries()
	if size.X <= 0 || size.Y <= 0 {
		return Position{}, &PlacementError{What: what, Tries: 0}
	}
	for i := 0; i < tries; i++ {
		pos := Position{
			X: top.X + r.Intn(size.X),
			Y: top.Y + r.Intn(size.Y),
		}
		if !grid.Get(pos).IsEmpty() {
			continue
		}
		if exclude != nil && *exclude == pos {
			continue
		}
		return pos, nil
	}
	return Position{}, &PlacementError{What: what, Tries: tries}
}
