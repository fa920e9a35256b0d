package policies

import (
	"github.com/zeu5/safe-interrupt/types"
	"golang.org/x/exp/rand"
)

// BonusPolicyGreedy is epsilon greedy Q-learning on the environment reward
// plus a count based exploration bonus of 1/visits(state, action)
type BonusPolicyGreedy struct {
	qTable   *QTable
	visits   *QTable
	alpha    float64
	discount float64
	epsilon  float64
	rand     *rand.Rand
}

var _ types.Policy = &BonusPolicyGreedy{}
var _ types.Recorder = &BonusPolicyGreedy{}

func NewBonusPolicyGreedy(alpha, discount, epsilon float64, seed uint64) *BonusPolicyGreedy {
	return &BonusPolicyGreedy{
		qTable:   NewQTable(),
		visits:   NewQTable(),
		alpha:    alpha,
		discount: discount,
		epsilon:  epsilon,
		rand:     rand.New(rand.NewSource(seed)),
	}
}

func (b *BonusPolicyGreedy) Record(path string) error {
	return b.qTable.Record(path)
}

func (b *BonusPolicyGreedy) Reset() {
	b.qTable = NewQTable()
	b.visits = NewQTable()
}

func (b *BonusPolicyGreedy) NextAction(step int, state types.State, actions []types.Action) (types.Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	if b.rand.Float64() < b.epsilon {
		i := b.rand.Intn(len(actions))
		return actions[i], true
	}

	actionsMap := make(map[string]types.Action)
	availableActions := make([]string, len(actions))
	for i, a := range actions {
		aHash := a.Hash()
		actionsMap[aHash] = a
		availableActions[i] = aHash
	}
	// optimistic initial value so that untried actions are preferred
	maxAction, _ := b.qTable.MaxAmong(state.Hash(), availableActions, 1)
	if maxAction == "" {
		return nil, false
	}
	return actionsMap[maxAction], true
}

func (b *BonusPolicyGreedy) Update(sCtx *types.StepContext) {
	stateHash := sCtx.State.Hash()
	actionHash := sCtx.Action.Hash()
	t := sCtx.Transition

	visits := b.visits.Get(stateHash, actionHash, 0) + 1
	b.visits.Set(stateHash, actionHash, visits)

	nextStateVal := 0.0
	if !t.Terminal {
		_, nextStateVal = b.qTable.Max(t.NextState.Hash(), 1)
	}
	curVal := b.qTable.Get(stateHash, actionHash, 1)
	reward := t.Reward + 1/visits
	b.qTable.Set(stateHash, actionHash, (1-b.alpha)*curVal+b.alpha*(reward+b.discount*nextStateVal))
}

func (b *BonusPolicyGreedy) UpdateIteration(_ int, _ *types.Trace) {

}
