package storage

import (
	"bytes"
	"errors"

	bolt "go.etcd.io/bbolt"
)

// Bolt stores values in a nested bucket of a bolt database.
type Bolt struct {
	db     *bolt.DB
	bucket [][]byte
}

func NewBolt(db *bolt.DB, bucket ...string) *Bolt {
	b := &Bolt{db: db}
	for _, name := range bucket {
		b.bucket = append(b.bucket, []byte(name))
	}
	return b
}

// Bucket returns a store nested in a sub bucket of b.
func (b *Bolt) Bucket(name string) *Bolt {
	bucket := make([][]byte, len(b.bucket), len(b.bucket)+1)
	copy(bucket, b.bucket)
	return &Bolt{
		db:     b.db,
		bucket: append(bucket, []byte(name)),
	}
}

func (b *Bolt) View(f func(tx ReadOnlyTx) error) error {
	return DoView(b, f)
}

func (b *Bolt) Update(f func(tx Tx) error) error {
	return DoUpdate(b, f)
}

// lookup returns the bucket of the store, or nil if it does not exist yet.
func (b *Bolt) lookup(tx *bolt.Tx) *bolt.Bucket {
	if len(b.bucket) == 0 {
		return nil
	}
	bucket := tx.Bucket(b.bucket[0])
	for _, name := range b.bucket[1:] {
		if bucket == nil {
			return nil
		}
		bucket = bucket.Bucket(name)
	}
	return bucket
}

func (b *Bolt) create(tx *bolt.Tx) (*bolt.Bucket, error) {
	if len(b.bucket) == 0 {
		return nil, errors.New("bolt store has no bucket")
	}
	bucket, err := tx.CreateBucketIfNotExists(b.bucket[0])
	if err != nil {
		return nil, err
	}
	for _, name := range b.bucket[1:] {
		if bucket, err = bucket.CreateBucketIfNotExists(name); err != nil {
			return nil, err
		}
	}
	return bucket, nil
}

func (b *Bolt) put(tx *bolt.Tx, key string, value []byte) error {
	bucket, err := b.create(tx)
	if err != nil {
		return err
	}
	return bucket.Put([]byte(key), value)
}

func (b *Bolt) get(tx *bolt.Tx, key string) (*KeyValue, error) {
	bucket := b.lookup(tx)
	if bucket == nil {
		return nil, ErrNoKeyExists
	}
	val := bucket.Get([]byte(key))
	if val == nil {
		return nil, ErrNoKeyExists
	}
	// bolt values are only valid for the life of the transaction
	return &KeyValue{
		Key:   key,
		Value: append([]byte(nil), val...),
	}, nil
}

// delete removes a key, or the sub bucket of that name.
func (b *Bolt) delete(tx *bolt.Tx, key string) error {
	bucket := b.lookup(tx)
	if bucket == nil {
		return nil
	}
	bkey := []byte(key)
	if bucket.Bucket(bkey) != nil {
		return bucket.DeleteBucket(bkey)
	}
	return bucket.Delete(bkey)
}

func (b *Bolt) exists(tx *bolt.Tx, key string) (bool, error) {
	bucket := b.lookup(tx)
	if bucket == nil {
		return false, nil
	}
	return bucket.Get([]byte(key)) != nil, nil
}

func (b *Bolt) list(tx *bolt.Tx, prefixStr string) ([]*KeyValue, error) {
	bucket := b.lookup(tx)
	if bucket == nil {
		return nil, nil
	}
	var kvs []*KeyValue
	prefix := []byte(prefixStr)
	c := bucket.Cursor()
	for key, v := c.Seek(prefix); key != nil && bytes.HasPrefix(key, prefix); key, v = c.Next() {
		kvs = append(kvs, &KeyValue{
			Key:   string(key),
			Value: append([]byte(nil), v...),
		})
	}
	return kvs, nil
}

func (b *Bolt) BeginTx() (Tx, error) {
	return b.newTx(true)
}

func (b *Bolt) BeginReadOnlyTx() (ReadOnlyTx, error) {
	return b.newTx(false)
}

func (b *Bolt) newTx(write bool) (*boltTx, error) {
	tx, err := b.db.Begin(write)
	if err != nil {
		return nil, err
	}
	return &boltTx{b: b, tx: tx}, nil
}

// boltTx wraps a bolt.Tx to implement Tx.
type boltTx struct {
	b  *Bolt
	tx *bolt.Tx
}

func (t *boltTx) Get(key string) (*KeyValue, error) {
	return t.b.get(t.tx, key)
}

func (t *boltTx) Exists(key string) (bool, error) {
	return t.b.exists(t.tx, key)
}

func (t *boltTx) List(prefix string) ([]*KeyValue, error) {
	return t.b.list(t.tx, prefix)
}

func (t *boltTx) Put(key string, value []byte) error {
	return t.b.put(t.tx, key, value)
}

func (t *boltTx) Delete(key string) error {
	return t.b.delete(t.tx, key)
}

func (t *boltTx) Commit() error {
	return t.tx.Commit()
}

func (t *boltTx) Rollback() error {
	err := t.tx.Rollback()
	if err == bolt.ErrTxClosed {
		// already committed
		return nil
	}
	return err
}
