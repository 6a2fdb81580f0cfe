// Package memorydb implements the in-memory mirror backing all reads of
// a FileKV store.
//
// The mirror partitions keys into numbered columns and accepts the same
// transactions the disk layer applies, so both representations can be
// kept in lockstep by a single write entry point.
package memorydb

import (
	"bytes"
	"fmt"
	"strings"
)

// DB is a column-partitioned in-memory key-value store.
//
// Columns are fixed at creation time. Lookups against a column index
// outside the configured range return an error rather than an absent
// result.
type DB struct {
	columns []map[string][]byte
}

// Create returns an empty DB with numCols columns.
func Create(numCols uint32) *DB {
	columns := make([]map[string][]byte, numCols)
	for i := range columns {
		columns[i] = make(map[string][]byte)
	}

	return &DB{columns: columns}
}

// NumColumns returns the number of columns the DB was created with.
func (db *DB) NumColumns() uint32 {
	return uint32(len(db.columns))
}

func (db *DB) column(col uint32) (map[string][]byte, error) {
	if col >= uint32(len(db.columns)) {
		return nil, fmt.Errorf("no such column: %d", col)
	}

	return db.columns[col], nil
}

// Get returns a copy of the value stored under key in the given column.
// The second return reports whether the key was present.
func (db *DB) Get(col uint32, key []byte) ([]byte, bool, error) {
	c, err := db.column(col)
	if err != nil {
		return nil, false, err
	}

	value, ok := c[string(key)]
	if !ok {
		return nil, false, nil
	}

	return bytes.Clone(value), true, nil
}

// GetByPrefix returns the value of the first entry whose key starts with
// prefix. Which entry is "first" is unspecified when several match.
func (db *DB) GetByPrefix(col uint32, prefix []byte) ([]byte, bool, error) {
	c, err := db.column(col)
	if err != nil {
		return nil, false, err
	}

	for k, v := range c {
		if strings.HasPrefix(k, string(prefix)) {
			return bytes.Clone(v), true, nil
		}
	}

	return nil, false, nil
}

// Write applies every operation of tx in order. The only error condition
// is an operation addressing a column outside the configured range;
// operations applied before such an error stay applied.
func (db *DB) Write(tx *Transaction) error {
	for _, op := range tx.Ops {
		c, err := db.column(op.Col)
		if err != nil {
			return err
		}

		switch op.Kind {
		case OpPut:
			c[string(op.Key)] = op.Value
		case OpDelete:
			delete(c, string(op.Key))
		case OpDeletePrefix:
			// The empty prefix matches every key, clearing the column.
			for k := range c {
				if strings.HasPrefix(k, string(op.Key)) {
					delete(c, k)
				}
			}
		}
	}

	return nil
}

// Iter returns a snapshot of every entry in the column. The snapshot is
// taken at call time; later writes do not affect it. No ordering is
// guaranteed.
func (db *DB) Iter(col uint32) ([]Entry, error) {
	c, err := db.column(col)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(c))
	for k, v := range c {
		entries = append(entries, Entry{Key: []byte(k), Value: bytes.Clone(v)})
	}

	return entries, nil
}

// IterWithPrefix is Iter restricted to entries whose keys start with prefix.
func (db *DB) IterWithPrefix(col uint32, prefix []byte) ([]Entry, error) {
	c, err := db.column(col)
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	for k, v := range c {
		if strings.HasPrefix(k, string(prefix)) {
			entries = append(entries, Entry{Key: []byte(k), Value: bytes.Clone(v)})
		}
	}

	return entries, nil
}
