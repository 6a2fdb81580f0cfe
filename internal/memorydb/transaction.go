package memorydb

import "bytes"

// OpKind identifies the kind of a transaction operation.
type OpKind uint8

const (
	OpPut OpKind = iota
	OpDelete
	OpDeletePrefix
)

// Op is a single operation inside a Transaction.
//
// For OpDeletePrefix, Key holds the prefix and Value is unused.
type Op struct {
	Kind  OpKind
	Col   uint32
	Key   []byte
	Value []byte
}

// Entry is one (key, value) pair produced by iteration.
type Entry struct {
	Key   []byte
	Value []byte
}

// Transaction is an ordered batch of operations. Operations are applied
// one at a time in the order they were staged.
type Transaction struct {
	Ops []Op
}

// NewTransaction returns an empty transaction ready for staging.
func NewTransaction() *Transaction {
	return &Transaction{}
}

// Put stages an insert of value under key. The byte slices are copied,
// so callers may reuse their buffers after staging.
func (tx *Transaction) Put(col uint32, key, value []byte) {
	tx.Ops = append(tx.Ops, Op{
		Kind:  OpPut,
		Col:   col,
		Key:   bytes.Clone(key),
		Value: bytes.Clone(value),
	})
}

// Delete stages the removal of key.
func (tx *Transaction) Delete(col uint32, key []byte) {
	tx.Ops = append(tx.Ops, Op{
		Kind: OpDelete,
		Col:  col,
		Key:  bytes.Clone(key),
	})
}

// DeletePrefix stages the removal of every key starting with prefix.
// The empty prefix removes every key in the column.
func (tx *Transaction) DeletePrefix(col uint32, prefix []byte) {
	tx.Ops = append(tx.Ops, Op{
		Kind: OpDeletePrefix,
		Col:  col,
		Key:  bytes.Clone(prefix),
	})
}
