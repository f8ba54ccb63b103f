// Package table implements sparse tabular action-value functions.
//
// Tables are total functions over the (state, action) key space: any
// pair that has never been written reads as a value of 0.0 and a
// visit count of 0.
package table

import (
	"fmt"
	"sort"

	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/statekey"
)

// Key is the composite key of a table entry
type Key struct {
	State  statekey.Key
	Action environment.Action
}

func (k Key) String() string {
	return fmt.Sprintf("%v|%d", k.State, k.Action)
}

// Entry is the value estimate and visit count stored for a Key
type Entry struct {
	Value float64
	Count int
}

// ActionValues is a sparse table of action values with a parallel
// table of visit counts. An ActionValues is not safe for concurrent
// use; each learner owns its own table.
type ActionValues struct {
	values map[Key]float64
	counts map[Key]int
}

// NewActionValues returns a new, empty ActionValues table
func NewActionValues() *ActionValues {
	return &ActionValues{
		values: make(map[Key]float64),
		counts: make(map[Key]int),
	}
}

// Get returns the value of action a in state s
func (q *ActionValues) Get(s statekey.Key, a environment.Action) float64 {
	return q.values[Key{s, a}]
}

// Set sets the value of action a in state s
func (q *ActionValues) Set(s statekey.Key, a environment.Action, v float64) {
	q.values[Key{s, a}] = v
}

// Add adds delta to the value of action a in state s and returns the
// new value
func (q *ActionValues) Add(s statekey.Key, a environment.Action,
	delta float64) float64 {
	k := Key{s, a}
	q.values[k] += delta
	return q.values[k]
}

// Count returns the number of times action a has been counted in
// state s
func (q *ActionValues) Count(s statekey.Key, a environment.Action) int {
	return q.counts[Key{s, a}]
}

// Increment increments the visit count of action a in state s and
// returns the new count
func (q *ActionValues) Increment(s statekey.Key, a environment.Action) int {
	k := Key{s, a}
	q.counts[k]++
	return q.counts[k]
}

// Average moves the value of action a in state s towards sample by
// the incremental mean Q <- Q + (sample - Q) / n, where n is the
// current visit count. The count must have been incremented before
// calling Average; Average panics if the count is zero.
func (q *ActionValues) Average(s statekey.Key, a environment.Action,
	sample float64) float64 {
	k := Key{s, a}
	n := q.counts[k]
	if n <= 0 {
		panic(fmt.Sprintf("average: zero visit count for %v", k))
	}
	q.values[k] += (sample - q.values[k]) / float64(n)
	return q.values[k]
}

// Values returns the values of each action in state s, in the order
// of actions
func (q *ActionValues) Values(s statekey.Key,
	actions []environment.Action) []float64 {
	values := make([]float64, len(actions))
	for i, a := range actions {
		values[i] = q.values[Key{s, a}]
	}
	return values
}

// Clear removes all values and counts from the table
func (q *ActionValues) Clear() {
	q.values = make(map[Key]float64)
	q.counts = make(map[Key]int)
}

// Len returns the number of keys with a stored value or count
func (q *ActionValues) Len() int {
	return len(q.keySet())
}

// Keys returns every key with a stored value or count, sorted by
// state and then by action
func (q *ActionValues) Keys() []Key {
	set := q.keySet()
	keys := make([]Key, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// States returns the sorted set of states with at least one stored
// key
func (q *ActionValues) States() []statekey.Key {
	seen := make(map[statekey.Key]struct{})
	states := []statekey.Key{}
	for k := range q.keySet() {
		if _, ok := seen[k.State]; !ok {
			seen[k.State] = struct{}{}
			states = append(states, k.State)
		}
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}

// Range calls f on every stored entry in the order of Keys until f
// returns false
func (q *ActionValues) Range(f func(Key, Entry) bool) {
	for _, k := range q.Keys() {
		if !f(k, q.Entry(k)) {
			return
		}
	}
}

// Entry returns the value and count stored for a key
func (q *ActionValues) Entry(k Key) Entry {
	return Entry{Value: q.values[k], Count: q.counts[k]}
}

// Entries returns a copy of every stored entry
func (q *ActionValues) Entries() map[Key]Entry {
	entries := make(map[Key]Entry)
	for k := range q.keySet() {
		entries[k] = q.Entry(k)
	}
	return entries
}

// Load stores each of the argument entries, overwriting existing ones
func (q *ActionValues) Load(entries map[Key]Entry) {
	for k, e := range entries {
		q.values[k] = e.Value
		if e.Count != 0 {
			q.counts[k] = e.Count
		}
	}
}

// Clone returns a deep copy of the table
func (q *ActionValues) Clone() *ActionValues {
	clone := NewActionValues()
	for k, v := range q.values {
		clone.values[k] = v
	}
	for k, n := range q.counts {
		clone.counts[k] = n
	}
	return clone
}

// Equal returns whether two tables store exactly the same entries
func (q *ActionValues) Equal(other *ActionValues) bool {
	if q.Len() != other.Len() {
		return false
	}
	for k := range q.keySet() {
		if q.Entry(k) != other.Entry(k) {
			return false
		}
	}
	return true
}

func (q *ActionValues) keySet() map[Key]struct{} {
	set := make(map[Key]struct{}, len(q.values))
	for k := range q.values {
		set[k] = struct{}{}
	}
	for k := range q.counts {
		set[k] = struct{}{}
	}
	return set
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].State != keys[j].State {
			return keys[i].State < keys[j].State
		}
		return keys[i].Action < keys[j].Action
	})
}
