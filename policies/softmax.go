package policies

import (
	"math"

	"github.com/zeu5/safe-interrupt/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SoftMaxPolicy samples actions from a Boltzmann distribution over the q values
// and learns them with the Q-learning update
type SoftMaxPolicy struct {
	qTable      *QTable
	alpha       float64
	discount    float64
	temperature float64
	src         rand.Source
}

var _ types.Policy = &SoftMaxPolicy{}
var _ types.Recorder = &SoftMaxPolicy{}

func NewSoftMaxPolicy(alpha, discount, temperature float64, seed uint64) *SoftMaxPolicy {
	if temperature <= 0 {
		temperature = 1
	}
	return &SoftMaxPolicy{
		qTable:      NewQTable(),
		alpha:       alpha,
		discount:    discount,
		temperature: temperature,
		src:         rand.NewSource(seed),
	}
}

func (s *SoftMaxPolicy) QTable() *QTable {
	return s.qTable
}

func (s *SoftMaxPolicy) Record(path string) error {
	return s.qTable.Record(path)
}

func (s *SoftMaxPolicy) Reset() {
	s.qTable = NewQTable()
}

func (s *SoftMaxPolicy) UpdateIteration(_ int, _ *types.Trace) {

}

func (s *SoftMaxPolicy) NextAction(step int, state types.State, actions []types.Action) (types.Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	stateHash := state.Hash()

	vals := make([]float64, len(actions))
	maxVal := math.Inf(-1)
	for i, action := range actions {
		vals[i] = s.qTable.Get(stateHash, action.Hash(), 0) / s.temperature
		if vals[i] > maxVal {
			maxVal = vals[i]
		}
	}
	// shifting by the max keeps the exponentials finite
	weights := make([]float64, len(actions))
	for i, v := range vals {
		weights[i] = math.Exp(v - maxVal)
	}

	i, ok := sampleuv.NewWeighted(weights, s.src).Take()
	if !ok {
		return nil, false
	}
	return actions[i], true
}

func (s *SoftMaxPolicy) Update(sCtx *types.StepContext) {
	stateHash := sCtx.State.Hash()
	actionKey := sCtx.Action.Hash()
	t := sCtx.Transition

	nextVal := 0.0
	if !t.Terminal {
		_, nextVal = s.qTable.Max(t.NextState.Hash(), 0)
	}
	curVal := s.qTable.Get(stateHash, actionKey, 0)
	s.qTable.Set(stateHash, actionKey, (1-s.alpha)*curVal+s.alpha*(t.Reward+s.discount*nextVal))
}
