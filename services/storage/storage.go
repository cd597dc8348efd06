package storage

import "errors"

// ErrNoKeyExists is returned by Get for a missing key.
var ErrNoKeyExists = errors.New("no key exists")

// ReadOperator provides the read operations of a store.
type ReadOperator interface {
	// Get retrieves a value.
	Get(key string) (*KeyValue, error)
	// Exists checks if a key exists.
	Exists(key string) (bool, error)
	// List returns all values whose key has the prefix, sorted by key.
	List(prefix string) ([]*KeyValue, error)
}

// WriteOperator provides the write operations of a store.
type WriteOperator interface {
	// Put stores a value.
	Put(key string, value []byte) error
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(key string) error
}

// ReadOnlyTx performs read operations in a single transaction.
type ReadOnlyTx interface {
	ReadOperator

	// Rollback ends the transaction, reverting any uncommitted change.
	// It must be called for every transaction.
	Rollback() error
}

// Tx performs read and write operations in a single transaction.
type Tx interface {
	ReadOnlyTx
	WriteOperator

	// Commit finalizes the transaction. A later Rollback has no effect.
	Commit() error
}

type TxOperator interface {
	// BeginReadOnlyTx starts a read only transaction, which must be rolled back.
	BeginReadOnlyTx() (ReadOnlyTx, error)
	// BeginTx starts a read write transaction, which must be committed or
	// rolled back. A goroutine holds at most one open transaction.
	BeginTx() (Tx, error)
}

// Interface is a namespaced key/value store.
type Interface interface {
	// View runs f in a read only transaction.
	View(f func(ReadOnlyTx) error) error

	// Update runs f in a read write transaction, committed when f returns
	// nil and rolled back otherwise.
	Update(f func(Tx) error) error
}

// DoView implements Interface.View for a TxOperator.
func DoView(o TxOperator, f func(ReadOnlyTx) error) error {
	tx, err := o.BeginReadOnlyTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return f(tx)
}

// DoUpdate implements Interface.Update for a TxOperator.
func DoUpdate(o TxOperator, f func(Tx) error) error {
	tx, err := o.BeginTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := f(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type KeyValue struct {
	Key   string
	Value []byte
}

// matchValues returns the values of list accepted by match, skipping the
// first offset matches and returning at most limit of them.
func matchValues(list []*KeyValue, match func(value []byte) bool, offset, limit int) []string {
	if limit <= 0 {
		return nil
	}
	var matches []string
	seen := 0
	for _, kv := range list {
		if !match(kv.Value) {
			continue
		}
		seen++
		if seen <= offset {
			continue
		}
		matches = append(matches, string(kv.Value))
		if len(matches) == limit {
			break
		}
	}
	return matches
}
