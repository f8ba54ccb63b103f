package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/table"
)

func open(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "tables.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutGet(t *testing.T) {
	db := open(t)

	q := table.NewActionValues()
	s := statekey.Make(3, 4)
	q.Set(s, 1, -2.5)
	q.Increment(s, 1)

	require.NoError(t, db.Put("windy", q, Metadata{Agent: "Sarsa",
		Episodes: 10}))

	got, err := db.Get("windy")
	require.NoError(t, err)
	assert.True(t, q.Equal(got))

	meta, err := db.Metadata("windy")
	require.NoError(t, err)
	assert.Equal(t, "Sarsa", meta.Agent)
	assert.Equal(t, 10, meta.Episodes)
	assert.False(t, meta.Saved.IsZero())
}

func TestNamesDelete(t *testing.T) {
	db := open(t)
	q := table.NewActionValues()
	require.NoError(t, db.Put("b", q, Metadata{}))
	require.NoError(t, db.Put("a", q, Metadata{}))
	assert.Error(t, db.Put("", q, Metadata{}))

	names, err := db.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, db.Delete("a"))
	_, err = db.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.Delete("a"), ErrNotFound)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.db")
	db, err := Open(path)
	require.NoError(t, err)

	q := table.NewActionValues()
	q.Set(statekey.Make("s"), 0, 1)
	saver := db.Saver(q, func() Metadata {
		return Metadata{Environment: "CliffWalk"}
	})
	require.NoError(t, saver.Save("ckpt1"))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Get("ckpt1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Get(statekey.Make("s"), 0))
	meta, err := db.Metadata("ckpt1")
	require.NoError(t, err)
	assert.Equal(t, "CliffWalk", meta.Environment)
}
