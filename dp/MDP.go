// Package dp implements dynamic programming over small finite Markov
// decision processes with known dynamics: iterative policy evaluation,
// greedy policy improvement, policy iteration and value iteration.
//
// Values are stored as gonum vectors indexed by state, and policies as
// (states x actions) matrices of action probabilities.
package dp

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gotabular/environment"
)

// MDP is a finite Markov decision process with deterministic
// transitions
type MDP struct {
	spec     environment.ActionSpec
	states   int
	gamma    float64
	terminal []bool

	// transitions[a] is the (states x states) transition matrix of
	// action a
	transitions []*mat.Dense

	// rewards is the (states x actions) matrix of expected rewards
	rewards *mat.Dense
}

// NewMDP returns a new MDP in which taking action a in state s leads
// to next(s, a) with reward reward(s, a). Terminal states are absorbing
// and pay no reward.
func NewMDP(states int, spec environment.ActionSpec, gamma float64,
	next func(s int, a environment.Action) int,
	reward func(s int, a environment.Action) float64,
	terminal ...int) (*MDP, error) {
	if states <= 0 {
		return nil, fmt.Errorf("newMDP: need at least one state")
	}
	if gamma < 0 || gamma > 1 {
		return nil, fmt.Errorf("newMDP: discount %v not in [0, 1]", gamma)
	}

	m := &MDP{
		spec:        spec,
		states:      states,
		gamma:       gamma,
		terminal:    make([]bool, states),
		transitions: make([]*mat.Dense, spec.Len()),
		rewards:     mat.NewDense(states, spec.Len(), nil),
	}
	for _, t := range terminal {
		if t < 0 || t >= states {
			return nil, fmt.Errorf("newMDP: terminal state %d out of "+
				"range", t)
		}
		m.terminal[t] = true
	}

	for _, a := range spec.Actions() {
		p := mat.NewDense(states, states, nil)
		for s := 0; s < states; s++ {
			if m.terminal[s] {
				p.Set(s, s, 1)
				continue
			}
			s1 := next(s, a)
			if s1 < 0 || s1 >= states {
				return nil, fmt.Errorf("newMDP: transition from %d by %v "+
					"out of range: %d", s, spec.Name(a), s1)
			}
			p.Set(s, s1, 1)
			m.rewards.Set(s, int(a), reward(s, a))
		}
		m.transitions[a] = p
	}

	return m, nil
}

// States returns the number of states
func (m *MDP) States() int { return m.states }

// ActionSpec returns the actions of the MDP
func (m *MDP) ActionSpec() environment.ActionSpec { return m.spec }

// Terminal returns whether s is a terminal state
func (m *MDP) Terminal(s int) bool { return m.terminal[s] }

// Next returns the state reached by taking action a in state s
func (m *MDP) Next(s int, a environment.Action) int {
	row := m.transitions[a].RawRowView(s)
	return floats.MaxIdx(row)
}

// Reward returns the reward for taking action a in state s
func (m *MDP) Reward(s int, a environment.Action) float64 {
	return m.rewards.At(s, int(a))
}

// Uniform returns the uniform random policy
func (m *MDP) Uniform() *mat.Dense {
	n := m.spec.Len()
	pi := mat.NewDense(m.states, n, nil)
	pi.Apply(func(_, _ int, _ float64) float64 {
		return 1 / float64(n)
	}, pi)
	return pi
}

// Zeros returns an all zero value vector
func (m *MDP) Zeros() *mat.VecDense {
	return mat.NewVecDense(m.states, nil)
}

// ActionValues returns the (states x actions) matrix of one step
// lookahead values q(s, a) = r(s, a) + γ Σ p(s'|s, a) v(s')
func (m *MDP) ActionValues(v mat.Vector) *mat.Dense {
	q := mat.NewDense(m.states, m.spec.Len(), nil)
	var next mat.VecDense
	for a, p := range m.transitions {
		next.MulVec(p, v)
		for s := 0; s < m.states; s++ {
			q.Set(s, a, m.rewards.At(s, a)+m.gamma*next.AtVec(s))
		}
	}
	return q
}

// Evaluate performs one synchronous sweep of policy evaluation of pi,
// computing every new value from the values of the previous sweep
func (m *MDP) Evaluate(v mat.Vector, pi mat.Matrix) *mat.VecDense {
	q := m.ActionValues(v)
	q.MulElem(q, pi)

	next := m.Zeros()
	for s := 0; s < m.states; s++ {
		next.SetVec(s, floats.Sum(q.RawRowView(s)))
	}
	return next
}

// EvaluateN performs n sweeps of policy evaluation starting from v
func (m *MDP) EvaluateN(v mat.Vector, pi mat.Matrix, n int) *mat.VecDense {
	out := mat.VecDenseCopyOf(v)
	for i := 0; i < n; i++ {
		out = m.Evaluate(out, pi)
	}
	return out
}

// Improve returns the greedy policy with respect to v. Actions which
// tie for the maximal value share the probability equally.
func (m *MDP) Improve(v mat.Vector) *mat.Dense {
	q := m.ActionValues(v)
	pi := mat.NewDense(m.states, m.spec.Len(), nil)

	for s := 0; s < m.states; s++ {
		row := q.RawRowView(s)
		max := floats.Max(row)

		ties := 0
		for _, value := range row {
			if value == max {
				ties++
			}
		}
		for a, value := range row {
			if value == max {
				pi.Set(s, a, 1/float64(ties))
			}
		}
	}
	return pi
}

// PolicyIterate performs n iterations of policy iteration starting from
// the uniform random policy and zero values. Each iteration evaluates
// the current policy with evalN sweeps and then improves it greedily.
func (m *MDP) PolicyIterate(evalN, n int) (*mat.VecDense, *mat.Dense) {
	v := m.Zeros()
	pi := m.Improve(v)
	for i := 0; i < n; i++ {
		v = m.EvaluateN(v, pi, evalN)
		pi = m.Improve(v)
	}
	return v, pi
}

// ValueIterate performs n sweeps of value iteration starting from zero
// values
func (m *MDP) ValueIterate(n int) *mat.VecDense {
	v := m.Zeros()
	for i := 0; i < n; i++ {
		q := m.ActionValues(v)
		next := m.Zeros()
		for s := 0; s < m.states; s++ {
			next.SetVec(s, floats.Max(q.RawRowView(s)))
		}
		v = next
	}
	return v
}

// RenderValues formats v as a grid with the argument number of columns
func RenderValues(v mat.Vector, cols int) string {
	var b strings.Builder
	for s := 0; s < v.Len(); s++ {
		fmt.Fprintf(&b, "%6.2f ", v.AtVec(s))
		if (s+1)%cols == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderPolicy lists the actions with non-zero probability in every
// state
func (m *MDP) RenderPolicy(pi mat.Matrix) string {
	var b strings.Builder
	for s := 0; s < m.states; s++ {
		fmt.Fprintf(&b, "State %02d:", s)
		for _, a := range m.spec.Actions() {
			if p := pi.At(s, int(a)); p != 0 {
				fmt.Fprintf(&b, " %v (%.2f)", m.spec.Name(a), p)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
