package benchmarks

import (
	"fmt"

	"github.com/zeu5/safe-interrupt/config"
	"github.com/zeu5/safe-interrupt/policies"
	"github.com/zeu5/safe-interrupt/types"
)

// newPolicy builds the learner described by the policy config
func newPolicy(p config.PolicyConfig) (types.Policy, error) {
	switch p.Type {
	case "random":
		return types.NewRandomPolicy(p.Seed), nil
	case "qlearning":
		return policies.NewQLearningPolicy(p.Alpha, p.Gamma, p.Epsilon, p.Seed), nil
	case "softmax":
		return policies.NewSoftMaxPolicy(p.Alpha, p.Gamma, p.Temperature, p.Seed), nil
	case "bonus":
		return policies.NewBonusPolicyGreedy(p.Alpha, p.Gamma, p.Epsilon, p.Seed), nil
	}
	return nil, fmt.Errorf("unknown policy type %q", p.Type)
}
