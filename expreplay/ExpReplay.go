// Package expreplay implements a bounded memory of an agent's recent
// experience. Transitions are kept in insertion order and grouped into
// episodes so that the most recent complete episode can be replayed.
package expreplay

import (
	"container/list"
	"errors"
	"fmt"

	"github.com/samuelfneumann/gotabular/environment"
)

// ErrInsufficientSamples is returned when sampling a batch larger than
// the number of stored transitions
var ErrInsufficientSamples = errors.New("insufficient samples in memory")

// Config implements a specific configuration of a Memory
type Config struct {
	SampleMethod SelectorType
	SampleSize   int
	MaxCapacity  int
}

// Create creates and returns the Memory with the specified Config
func (c Config) Create(seed uint64) (*Memory, error) {
	sampler, err := CreateSelector(c.SampleMethod, c.SampleSize, seed)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return New(sampler, c.MaxCapacity)
}

// Memory is a first-in-first-out memory of transitions. Once full, the
// oldest transition is forgotten whenever a new one is added.
type Memory struct {
	// transitions holds the stored transitions, oldest at the front
	transitions *list.List
	maxCapacity int
	sampler     Selector

	// current is the episode being recorded and last is the most
	// recently completed episode. Neither is affected by eviction.
	current  []environment.Transition
	last     []environment.Transition
	episodes int
}

// New creates and returns a new Memory which stores at most
// maxCapacity transitions and samples them with sampler
func New(sampler Selector, maxCapacity int) (*Memory, error) {
	if maxCapacity < 1 {
		return nil, fmt.Errorf("new: maxCapacity must be >= 1")
	}
	if maxCapacity < sampler.BatchSize() {
		return nil, fmt.Errorf("new: cannot have batch size (%v) > max "+
			"capacity (%v)", sampler.BatchSize(), maxCapacity)
	}

	return &Memory{
		transitions: list.New(),
		maxCapacity: maxCapacity,
		sampler:     sampler,
	}, nil
}

// Add adds a transition to the memory, evicting the oldest transition
// if the memory is full
func (m *Memory) Add(t environment.Transition) {
	if m.transitions.Len() == m.maxCapacity {
		m.transitions.Remove(m.transitions.Front())
	}
	m.transitions.PushBack(t)

	m.current = append(m.current, t)
	if t.Last {
		m.last = m.current
		m.current = nil
		m.episodes++
	}
}

// Sample samples a batch of transitions from the memory
func (m *Memory) Sample() ([]environment.Transition, error) {
	if m.Capacity() < m.sampler.BatchSize() {
		return nil, fmt.Errorf("sample: %w: have %d, need %d",
			ErrInsufficientSamples, m.Capacity(), m.sampler.BatchSize())
	}

	stored := m.items()
	indices := m.sampler.choose(len(stored))
	batch := make([]environment.Transition, len(indices))
	for i, index := range indices {
		batch[i] = stored[index]
	}
	return batch, nil
}

// items returns the stored transitions in insertion order
func (m *Memory) items() []environment.Transition {
	items := make([]environment.Transition, 0, m.transitions.Len())
	for e := m.transitions.Front(); e != nil; e = e.Next() {
		items = append(items, e.Value.(environment.Transition))
	}
	return items
}

// LastEpisode returns the transitions of the most recently completed
// episode
func (m *Memory) LastEpisode() []environment.Transition {
	return append([]environment.Transition(nil), m.last...)
}

// Episodes returns the number of completed episodes added
func (m *Memory) Episodes() int {
	return m.episodes
}

// Capacity returns the current number of transitions in the memory
func (m *Memory) Capacity() int {
	return m.transitions.Len()
}

// MaxCapacity returns the maximum number of transitions in the memory
func (m *Memory) MaxCapacity() int {
	return m.maxCapacity
}

// BatchSize returns the number of transitions returned by Sample
func (m *Memory) BatchSize() int {
	return m.sampler.BatchSize()
}

// Clear forgets every stored transition and episode
func (m *Memory) Clear() {
	m.transitions.Init()
	m.current = nil
	m.last = nil
	m.episodes = 0
}
