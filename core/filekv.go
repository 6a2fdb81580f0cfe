package core

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/filekv/go-filekv/internal/memorydb"
)

// FileKV is a key-value store that persists every key as its own file
// on disk while mirroring the full data set in memory. Reads are served
// entirely from the mirror; writes hit disk first and the mirror second.
//
// It is intended for tests and development setups that want a durable,
// inspectable store without a real storage engine. The store does no
// locking of its own: concurrent writers against the same root path are
// not a supported configuration.
type FileKV struct {
	path     string
	numCols  uint32
	inMemory *memorydb.DB
}

// Transaction is an ordered batch of Put/Delete/DeletePrefix operations
// applied together to disk and mirror.
type Transaction = memorydb.Transaction

// Entry is one (key, value) pair produced by iteration.
type Entry = memorydb.Entry

// NewTransaction returns an empty transaction ready for staging.
func NewTransaction() *Transaction {
	return memorydb.NewTransaction()
}

// Open loads the store rooted at path with a fixed number of columns.
//
// Every column directory is created if absent, then scanned: each file
// whose name decodes to a key is read and staged into one batch, which
// is applied to a fresh mirror. File names that do not decode are
// skipped, as are directories found inside a column directory. Any
// directory creation, listing, or read failure aborts the open with the
// raw I/O error.
func Open(path string, numCols uint32) (*FileKV, error) {
	db := &FileKV{
		path:     path,
		numCols:  numCols,
		inMemory: memorydb.Create(numCols),
	}

	tx := NewTransaction()

	for col := uint32(0); col < numCols; col++ {
		colDir := db.colPath(col)

		if err := os.MkdirAll(colDir, DirPerm); err != nil {
			return nil, err
		}

		entries, err := os.ReadDir(colDir)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			file := filepath.Join(colDir, entry.Name())
			if !isRegularFile(file) {
				continue
			}

			key, ok := pathToKey(entry.Name())
			if !ok {
				continue
			}

			value, err := os.ReadFile(file)
			if err != nil {
				return nil, err
			}

			tx.Put(col, key, value)
		}
	}

	if err := db.inMemory.Write(tx); err != nil {
		return nil, err
	}

	return db, nil
}

// Path returns the root directory the store was opened at.
func (db *FileKV) Path() string {
	return db.path
}

// NumColumns returns the number of columns the store was opened with.
func (db *FileKV) NumColumns() uint32 {
	return db.numCols
}

// Write applies tx to disk one operation at a time, strictly in staging
// order, then hands the identical transaction to the in-memory mirror.
//
// There is no rollback. If a disk operation fails, the error is
// returned immediately: operations already applied stay applied and the
// mirror is never updated for the transaction, so disk and mirror may
// diverge. Callers should treat a failed Write as leaving the store in
// an unspecified state and reopen it to resynchronize.
func (db *FileKV) Write(tx *Transaction) error {
	for _, op := range tx.Ops {
		switch op.Kind {
		case memorydb.OpPut:
			file := db.keyToPath(op.Col, op.Key)
			if err := os.WriteFile(file, op.Value, FilePerm); err != nil {
				return err
			}

		case memorydb.OpDelete:
			file := db.keyToPath(op.Col, op.Key)
			if isRegularFile(file) {
				if err := os.Remove(file); err != nil {
					return err
				}
			}

		case memorydb.OpDeletePrefix:
			if err := db.deletePrefix(op.Col, op.Key); err != nil {
				return err
			}
		}
	}

	return db.inMemory.Write(tx)
}

// deletePrefix removes every key file in the column whose decoded key
// starts with prefix. The empty prefix removes every regular file in
// the column directory; otherwise files whose names do not decode are
// left untouched.
func (db *FileKV) deletePrefix(col uint32, prefix []byte) error {
	colDir := db.colPath(col)

	entries, err := os.ReadDir(colDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		file := filepath.Join(colDir, entry.Name())
		if !isRegularFile(file) {
			continue
		}

		if len(prefix) > 0 {
			key, ok := pathToKey(entry.Name())
			if !ok || !bytes.HasPrefix(key, prefix) {
				continue
			}
		}

		if err := os.Remove(file); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the value stored under key. The second return reports
// whether the key was present. A column index outside the configured
// range is an error, not an absent result.
func (db *FileKV) Get(col uint32, key []byte) ([]byte, bool, error) {
	return db.inMemory.Get(col, key)
}

// GetByPrefix returns the value of the first entry whose key starts
// with prefix. Which entry is "first" is unspecified when several match.
func (db *FileKV) GetByPrefix(col uint32, prefix []byte) ([]byte, bool, error) {
	return db.inMemory.GetByPrefix(col, prefix)
}

// Iter returns a snapshot of every entry in the column, taken at call
// time. Writing to the store afterwards does not affect the returned
// entries. No ordering is guaranteed.
func (db *FileKV) Iter(col uint32) ([]Entry, error) {
	return db.inMemory.Iter(col)
}

// IterWithPrefix is Iter restricted to entries whose keys start with prefix.
func (db *FileKV) IterWithPrefix(col uint32, prefix []byte) ([]Entry, error) {
	return db.inMemory.IterWithPrefix(col, prefix)
}

// isRegularFile follows symlinks, so a link to a directory does not count.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
