package policies

import (
	"github.com/zeu5/safe-interrupt/types"
	"golang.org/x/exp/rand"
)

// QLearningPolicy is epsilon greedy tabular Q-learning on the environment reward
type QLearningPolicy struct {
	qTable   *QTable
	alpha    float64
	discount float64
	epsilon  float64
	rand     *rand.Rand
}

var _ types.Policy = &QLearningPolicy{}
var _ types.Recorder = &QLearningPolicy{}

func NewQLearningPolicy(alpha, discount, epsilon float64, seed uint64) *QLearningPolicy {
	return &QLearningPolicy{
		qTable:   NewQTable(),
		alpha:    alpha,
		discount: discount,
		epsilon:  epsilon,
		rand:     rand.New(rand.NewSource(seed)),
	}
}

func (q *QLearningPolicy) QTable() *QTable {
	return q.qTable
}

func (q *QLearningPolicy) Record(path string) error {
	return q.qTable.Record(path)
}

func (q *QLearningPolicy) Reset() {
	q.qTable = NewQTable()
}

func (q *QLearningPolicy) NextAction(step int, state types.State, actions []types.Action) (types.Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	if q.rand.Float64() < q.epsilon {
		i := q.rand.Intn(len(actions))
		return actions[i], true
	}

	actionsMap := make(map[string]types.Action)
	actionKeys := make([]string, len(actions))
	for i, a := range actions {
		aKey := a.Hash()
		actionKeys[i] = aKey
		actionsMap[aKey] = a
	}
	// permute so that ties are broken at random
	permuted := make([]string, len(actionKeys))
	for i, val := range q.rand.Perm(len(actionKeys)) {
		permuted[i] = actionKeys[val]
	}
	maxAction, _ := q.qTable.MaxAmong(state.Hash(), permuted, 0)
	if maxAction == "" {
		return nil, false
	}
	return actionsMap[maxAction], true
}

func (q *QLearningPolicy) Update(sCtx *types.StepContext) {
	stateHash := sCtx.State.Hash()
	actionKey := sCtx.Action.Hash()
	t := sCtx.Transition

	nextVal := 0.0
	// terminal states have no future value
	if !t.Terminal {
		_, nextVal = q.qTable.Max(t.NextState.Hash(), 0)
	}
	curVal := q.qTable.Get(stateHash, actionKey, 0)
	newVal := (1-q.alpha)*curVal + q.alpha*(t.Reward+q.discount*nextVal)
	q.qTable.Set(stateHash, actionKey, newVal)
}

func (q *QLearningPolicy) UpdateIteration(_ int, _ *types.Trace) {

}
