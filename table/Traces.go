package table

import (
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/statekey"
)

// Traces is a sparse table of eligibility traces over the same key
// space as ActionValues. Pairs without a trace have an eligibility of
// 0.
type Traces struct {
	traces map[Key]float64
}

// NewTraces returns a new, empty table of traces
func NewTraces() *Traces {
	return &Traces{traces: make(map[Key]float64)}
}

// Get returns the trace of action a in state s
func (e *Traces) Get(s statekey.Key, a environment.Action) float64 {
	return e.traces[Key{s, a}]
}

// Accumulate adds 1 to the trace of action a in state s
func (e *Traces) Accumulate(s statekey.Key, a environment.Action) float64 {
	k := Key{s, a}
	e.traces[k]++
	return e.traces[k]
}

// Replace sets the trace of action a in state s to 1
func (e *Traces) Replace(s statekey.Key, a environment.Action) float64 {
	e.traces[Key{s, a}] = 1.0
	return 1.0
}

// Len returns the number of pairs with a trace
func (e *Traces) Len() int {
	return len(e.traces)
}

// Update applies a TD error to every traced pair and then decays the
// traces: Q(s, a) += scale * E(s, a), E(s, a) *= decay. Traces which
// decay to exactly 0 are dropped.
func (e *Traces) Update(q *ActionValues, scale, decay float64) {
	for k, trace := range e.traces {
		q.values[k] += scale * trace
		if decayed := trace * decay; decayed != 0 {
			e.traces[k] = decayed
		} else {
			delete(e.traces, k)
		}
	}
}

// Reset removes every trace
func (e *Traces) Reset() {
	e.traces = make(map[Key]float64)
}
