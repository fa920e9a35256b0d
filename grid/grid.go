package grid

import (
	"fmt"
)

// Kind of the object occupying a cell
type Kind int

const (
	Empty Kind = iota
	Wall
	Goal
	Hazard
	DisableSwitch
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	case Goal:
		return "goal"
	case Hazard:
		return "hazard"
	case DisableSwitch:
		return "switch"
	}
	return "unknown"
}

// Tile is the immutable occupant of a cell.
// Mutable hazard and switch flags are owned by the episode, not the tile
type Tile struct {
	Kind  Kind
	Color string
}

var (
	EmptyTile  = Tile{Kind: Empty}
	WallTile   = Tile{Kind: Wall, Color: "grey"}
	GoalTile   = Tile{Kind: Goal, Color: "green"}
	HazardTile = Tile{Kind: Hazard, Color: "red"}
	SwitchTile = Tile{Kind: DisableSwitch, Color: "red"}
)

func (t Tile) IsEmpty() bool {
	return t.Kind == Empty
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) Hash() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Direction the agent is facing, 0 is right and values increase clockwise
type Direction int

const (
	Right Direction = iota
	Down
	Left
	Up
)

var dirVecs = [4]Position{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 0, Y: -1},
}

func (d Direction) Vec() Position {
	return dirVecs[((int(d)%4)+4)%4]
}

func (d Direction) TurnLeft() Direction {
	return Direction((int(d) + 3) % 4)
}

func (d Direction) TurnRight() Direction {
	return Direction((int(d) + 1) % 4)
}

func (d Direction) String() string {
	switch d {
	case Right:
		return ">"
	case Down:
		return "v"
	case Left:
		return "<"
	case Up:
		return "^"
	}
	return "?"
}

// Pose of the agent
type Pose struct {
	Pos Position  `json:"pos"`
	Dir Direction `json:"dir"`
}

// Grid is a fixed size mapping from coordinates to tiles
type Grid struct {
	Width  int
	Height int
	cells  []Tile
}

func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make([]Tile, width*height),
	}
}

func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Get returns the tile at p, reads outside the grid return a wall
func (g *Grid) Get(p Position) Tile {
	if !g.InBounds(p) {
		return WallTile
	}
	return g.cells[p.Y*g.Width+p.X]
}

func (g *Grid) Set(p Position, t Tile) {
	if !g.InBounds(p) {
		return
	}
	g.cells[p.Y*g.Width+p.X] = t
}

func (g *Grid) HorzWall(x, y, length int) {
	for i := 0; i < length; i++ {
		g.Set(Position{X: x + i, Y: y}, WallTile)
	}
}

func (g *Grid) VertWall(x, y, length int) {
	for i := 0; i < length; i++ {
		g.Set(Position{X: x, Y: y + i}, WallTile)
	}
}

// WallRect surrounds the rectangle starting at (x, y) with walls
func (g *Grid) WallRect(x, y, w, h int) {
	g.HorzWall(x, y, w)
	g.HorzWall(x, y+h-1, w)
	g.VertWall(x, y, h)
	g.VertWall(x+w-1, y, h)
}

// Find all the positions holding a tile of the kind
func (g *Grid) Find(kind Kind) []Position {
	result := make([]Position, 0)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.cells[y*g.Width+x].Kind == kind {
				result = append(result, Position{X: x, Y: y})
			}
		}
	}
	return result
}
