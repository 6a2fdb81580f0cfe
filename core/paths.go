package core

import (
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"
)

// colPath returns the directory holding a column's key files. Columns
// live in subdirectories of the store root named by their index.
func (db *FileKV) colPath(col uint32) string {
	return filepath.Join(db.path, strconv.FormatUint(uint64(col), 10))
}

// keyToPath returns the file path a key is stored at:
//
//	<root>/<column>/0x<hex(key)>
//
// The mapping is a bijection within a column, so decoding a file name
// always recovers the exact original key bytes.
func (db *FileKV) keyToPath(col uint32, key []byte) string {
	return filepath.Join(db.colPath(col), KeyFilePrefix+hex.EncodeToString(key))
}

// pathToKey recovers the key encoded in a file name produced by
// keyToPath. The second return is false when the name does not start
// with the key file prefix or its remainder is not valid hex; such
// names do not belong to the store and are ignored by callers.
func pathToKey(name string) ([]byte, bool) {
	name = filepath.Base(name)

	if !strings.HasPrefix(name, KeyFilePrefix) {
		return nil, false
	}

	key, err := hex.DecodeString(name[len(KeyFilePrefix):])
	if err != nil {
		return nil, false
	}

	return key, true
}
