package interruption

import (
	"strconv"

	"github.com/zeu5/safe-interrupt/types"
)

// Action is an index into the discrete action set
type Action int

const (
	TurnLeft Action = iota
	TurnRight
	Forward
	Pickup
	Drop
	Toggle
	Done
)

// NumActions is the size of the action set
const NumActions = 7

var actionNames = [NumActions]string{"left", "right", "forward", "pickup", "drop", "toggle", "done"}

// Normalize clamps indices outside the action set to the default action 0
func (a Action) Normalize() Action {
	if a < 0 || a >= NumActions {
		return TurnLeft
	}
	return a
}

func (a Action) String() string {
	if a < 0 || a >= NumActions {
		return "action(" + strconv.Itoa(int(a)) + ")"
	}
	return actionNames[a]
}

var _ types.Action = Action(0)

func (a Action) Hash() string {
	return a.String()
}

// ParseAction accepts either an action name or an index
func ParseAction(s string) (Action, bool) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), true
		}
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return Action(i), true
}

// AllActions in index order
var AllActions []types.Action = []types.Action{
	TurnLeft,
	TurnRight,
	Forward,
	Pickup,
	Drop,
	Toggle,
	Done,
}
