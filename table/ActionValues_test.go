package table

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/statekey"
)

func TestUnseenDefaults(t *testing.T) {
	q := NewActionValues()
	s := statekey.Make(10, 15, false)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, q.Get(s, 1))
		assert.Equal(t, 0, q.Count(s, 1))
	}
	assert.Equal(t, 0, q.Len())
}

func TestSetGetCount(t *testing.T) {
	q := NewActionValues()
	s := statekey.Make(0, 3)

	q.Set(s, 2, -1.5)
	assert.Equal(t, -1.5, q.Get(s, 2))
	assert.Equal(t, 0.0, q.Get(s, 1))

	assert.Equal(t, 1, q.Increment(s, 2))
	assert.Equal(t, 2, q.Increment(s, 2))
	assert.Equal(t, 2, q.Count(s, 2))

	assert.Equal(t, -0.5, q.Add(s, 2, 1.0))
	assert.Equal(t, []float64{0, 0, -0.5, 0},
		q.Values(s, []environment.Action{0, 1, 2, 3}))

	q.Clear()
	assert.Equal(t, 0.0, q.Get(s, 2))
	assert.Equal(t, 0, q.Count(s, 2))
	assert.Equal(t, 0, q.Len())
}

func TestAverageConstantSample(t *testing.T) {
	q := NewActionValues()
	s := statekey.Make("A", 21)

	for n := 1; n <= 25; n++ {
		q.Increment(s, 0)
		q.Average(s, 0, 1.0)
	}
	assert.Equal(t, 1.0, q.Get(s, 0))
	assert.Equal(t, 25, q.Count(s, 0))
}

func TestAverageZeroCountPanics(t *testing.T) {
	q := NewActionValues()
	assert.Panics(t, func() { q.Average(statekey.Make(1), 0, 1.0) })
}

func TestKeysSorted(t *testing.T) {
	q := NewActionValues()
	q.Set(statekey.Make(1), 1, 1)
	q.Set(statekey.Make(0), 3, 1)
	q.Increment(statekey.Make(0), 0)

	keys := q.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, Key{statekey.Make(0), 0}, keys[0])
	assert.Equal(t, Key{statekey.Make(0), 3}, keys[1])
	assert.Equal(t, Key{statekey.Make(1), 1}, keys[2])
	assert.Equal(t, []statekey.Key{"0", "1"}, q.States())
}

func TestCloneIsIndependent(t *testing.T) {
	q := NewActionValues()
	s := statekey.Make(2, 2)
	q.Set(s, 0, 3)
	q.Increment(s, 0)

	clone := q.Clone()
	assert.True(t, q.Equal(clone))

	clone.Set(s, 0, 4)
	assert.Equal(t, 3.0, q.Get(s, 0))
	assert.False(t, q.Equal(clone))
}

func TestTracesUpdate(t *testing.T) {
	q := NewActionValues()
	e := NewTraces()
	s0, s1 := statekey.Make(0), statekey.Make(1)

	e.Accumulate(s0, 0)
	e.Accumulate(s0, 0)
	e.Accumulate(s1, 1)
	assert.Equal(t, 2.0, e.Get(s0, 0))

	e.Update(q, 0.5, 0.5)
	assert.Equal(t, 1.0, q.Get(s0, 0))
	assert.Equal(t, 0.5, q.Get(s1, 1))
	assert.Equal(t, 1.0, e.Get(s0, 0))
	assert.Equal(t, 0.5, e.Get(s1, 1))

	e.Update(q, 1.0, 0)
	assert.Equal(t, 2.0, q.Get(s0, 0))
	assert.Equal(t, 1.0, q.Get(s1, 1))
	assert.Equal(t, 0, e.Len())

	e.Replace(s0, 1)
	e.Replace(s0, 1)
	assert.Equal(t, 1.0, e.Get(s0, 1))
	e.Reset()
	assert.Equal(t, 0.0, e.Get(s0, 1))
}

func TestMerge(t *testing.T) {
	s := statekey.Make(5)
	q1, q2 := NewActionValues(), NewActionValues()

	q1.Set(s, 0, 1)
	for i := 0; i < 3; i++ {
		q1.Increment(s, 0)
	}
	q2.Set(s, 0, 5)
	q2.Increment(s, 0)

	q2.Set(s, 1, 2)

	merged := Merge(q1, q2)
	assert.InDelta(t, 2.0, merged.Get(s, 0), 1e-12)
	assert.Equal(t, 4, merged.Count(s, 0))
	assert.Equal(t, 2.0, merged.Get(s, 1))
	assert.Equal(t, 0, merged.Count(s, 1))

	// Arguments are untouched
	assert.Equal(t, 1.0, q1.Get(s, 0))
	assert.Equal(t, 3, q1.Count(s, 0))
}

func TestSaveLoadFile(t *testing.T) {
	q := NewActionValues()
	q.Set(statekey.Make(3, 12, true), 1, 0.25)
	q.Increment(statekey.Make(3, 12, true), 1)
	q.Set(statekey.Make(7, 3), 2, -4)

	filename := filepath.Join(t.TempDir(), "q.bin")
	require.NoError(t, q.Save(filename))

	loaded, err := LoadFile(filename)
	require.NoError(t, err)
	assert.True(t, q.Equal(loaded))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

var errClose = errors.New("disk full")

// closer is a buffer whose Close fails with err
type closer struct {
	bytes.Buffer
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestSaveReportsCloseError(t *testing.T) {
	q := NewActionValues()
	q.Set(statekey.Make(1, 2), 0, 1.5)

	w := &closer{err: errClose}
	assert.ErrorIs(t, q.writeTo(w), errClose)
	assert.True(t, w.closed)

	w = &closer{}
	require.NoError(t, q.writeTo(w))
	assert.True(t, w.closed)
	assert.Greater(t, w.Len(), 0)
}
