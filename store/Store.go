// Package store persists learned action-value tables in a bbolt
// database, keyed by name.
package store

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/samuelfneumann/gotabular/table"
)

var log = logrus.WithField("component", "store")

// ErrNotFound is returned when no table is stored under a name
var ErrNotFound = errors.New("table not found")

// Bucket structure is
//
//	tables   > {name} > {gob encoded table.ActionValues}
//	metadata > {name} > {gob encoded Metadata}
var (
	tablesBucketName   = []byte("tables")
	metadataBucketName = []byte("metadata")
)

// Metadata describes how a stored table was learned
type Metadata struct {
	Agent       string
	Environment string
	Episodes    int
	Seed        uint64
	Saved       time.Time
}

// DB is a database of action-value tables
type DB struct {
	db       *bolt.DB
	filePath string
}

// Open opens, or creates, the database at filePath
func Open(filePath string) (*DB, error) {
	db, err := bolt.Open(filePath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open: unable to open database %q: %w",
			filePath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{tablesBucketName, metadataBucketName} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open: unable to create buckets: %w", err)
	}

	log.WithField("path", filePath).Debug("database opened")
	return &DB{db: db, filePath: filePath}, nil
}

// Close closes the database
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the path of the database file
func (d *DB) Path() string {
	return d.filePath
}

func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Put stores q and its metadata under name, replacing any table
// already stored under that name. If the metadata has no save time the
// current time is used.
func (d *DB) Put(name string, q *table.ActionValues, meta Metadata) error {
	if name == "" {
		return fmt.Errorf("put: empty table name")
	}
	if meta.Saved.IsZero() {
		meta.Saved = time.Now()
	}

	tableData, err := encode(q)
	if err != nil {
		return fmt.Errorf("put: unable to serialize table: %w", err)
	}
	metaData, err := encode(meta)
	if err != nil {
		return fmt.Errorf("put: unable to serialize metadata: %w", err)
	}

	err = d.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(tablesBucketName).Put([]byte(name),
			tableData); err != nil {
			return err
		}
		return tx.Bucket(metadataBucketName).Put([]byte(name), metaData)
	})
	if err != nil {
		return fmt.Errorf("put: %w", err)
	}

	log.WithFields(logrus.Fields{
		"name":    name,
		"entries": q.Len(),
	}).Debug("table stored")
	return nil
}

// Get returns the table stored under name
func (d *DB) Get(name string) (*table.ActionValues, error) {
	q := table.NewActionValues()
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(tablesBucketName).Get([]byte(name))
		if v == nil {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return gob.NewDecoder(bytes.NewReader(v)).Decode(q)
	})
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	return q, nil
}

// Metadata returns the metadata of the table stored under name
func (d *DB) Metadata(name string) (Metadata, error) {
	var meta Metadata
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(metadataBucketName).Get([]byte(name))
		if v == nil {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return gob.NewDecoder(bytes.NewReader(v)).Decode(&meta)
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("metadata: %w", err)
	}
	return meta, nil
}

// Names returns the names of every stored table in sorted order
func (d *DB) Names() ([]string, error) {
	var names []string
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(tablesBucketName).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("names: %w", err)
	}
	return names, nil
}

// Delete removes the table stored under name
func (d *DB) Delete(name string) error {
	err := d.db.Update(func(tx *bolt.Tx) error {
		tables := tx.Bucket(tablesBucketName)
		if tables.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		if err := tables.Delete([]byte(name)); err != nil {
			return err
		}
		return tx.Bucket(metadataBucketName).Delete([]byte(name))
	})
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// TableSaver saves a table under a name in a DB. It can be used to
// checkpoint a table while it is being learned.
type TableSaver struct {
	db   *DB
	q    *table.ActionValues
	meta func() Metadata
}

// Saver returns a TableSaver which saves q with the metadata returned
// by meta at the time of saving
func (d *DB) Saver(q *table.ActionValues, meta func() Metadata) *TableSaver {
	return &TableSaver{db: d, q: q, meta: meta}
}

// Save stores the table under name
func (t *TableSaver) Save(name string) error {
	var meta Metadata
	if t.meta != nil {
		meta = t.meta()
	}
	return t.db.Put(name, t.q, meta)
}
