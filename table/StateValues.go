package table

import (
	"fmt"
	"sort"

	"github.com/samuelfneumann/gotabular/statekey"
)

// StateValues is a sparse table of state values with visit counts.
// Unseen states read as a value of 0.0 and a count of 0.
type StateValues struct {
	values map[statekey.Key]Entry
}

// NewStateValues returns a new, empty StateValues table
func NewStateValues() *StateValues {
	return &StateValues{values: make(map[statekey.Key]Entry)}
}

// Get returns the value of state s
func (v *StateValues) Get(s statekey.Key) float64 {
	return v.values[s].Value
}

// Count returns the number of times state s has been counted
func (v *StateValues) Count(s statekey.Key) int {
	return v.values[s].Count
}

// Increment increments the visit count of s and returns the new count
func (v *StateValues) Increment(s statekey.Key) int {
	e := v.values[s]
	e.Count++
	v.values[s] = e
	return e.Count
}

// Average moves the value of s towards sample by the incremental mean.
// Average panics if the count of s is zero.
func (v *StateValues) Average(s statekey.Key, sample float64) float64 {
	e := v.values[s]
	if e.Count <= 0 {
		panic(fmt.Sprintf("average: zero visit count for %v", s))
	}
	e.Value += (sample - e.Value) / float64(e.Count)
	v.values[s] = e
	return e.Value
}

// Len returns the number of states stored
func (v *StateValues) Len() int {
	return len(v.values)
}

// States returns every stored state in sorted order
func (v *StateValues) States() []statekey.Key {
	states := make([]statekey.Key, 0, len(v.values))
	for s := range v.values {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}

// Clear removes every stored state
func (v *StateValues) Clear() {
	v.values = make(map[statekey.Key]Entry)
}
