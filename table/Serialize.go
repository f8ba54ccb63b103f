package table

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// record is the serialized form of a single table entry
type record struct {
	Key
	Entry
}

// GobEncode implements the gob.GobEncoder interface
func (q *ActionValues) GobEncode() ([]byte, error) {
	keys := q.Keys()
	records := make([]record, len(keys))
	for i, k := range keys {
		records[i] = record{k, q.Entry(k)}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(records); err != nil {
		return nil, fmt.Errorf("gobEncode: could not encode table: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (q *ActionValues) GobDecode(data []byte) error {
	var records []record
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&records); err != nil {
		return fmt.Errorf("gobDecode: could not decode table: %w", err)
	}

	q.Clear()
	for _, r := range records {
		q.values[r.Key] = r.Value
		if r.Count != 0 {
			q.counts[r.Key] = r.Count
		}
	}
	return nil
}

// Save saves the table to a file
func (q *ActionValues) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create file: %w", err)
	}
	return q.writeTo(file)
}

// writeTo encodes the table to w and closes it. An error closing w is
// returned if encoding succeeded.
func (q *ActionValues) writeTo(w io.WriteCloser) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("save: could not close file: %w", cerr)
		}
	}()

	if err := gob.NewEncoder(w).Encode(q); err != nil {
		return fmt.Errorf("save: could not encode table: %w", err)
	}
	return nil
}

// LoadFile loads a table saved with Save
func LoadFile(filename string) (*ActionValues, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadFile: could not open file: %w", err)
	}
	defer file.Close()

	q := NewActionValues()
	if err := gob.NewDecoder(file).Decode(q); err != nil {
		return nil, fmt.Errorf("loadFile: could not decode table: %w", err)
	}
	return q, nil
}
