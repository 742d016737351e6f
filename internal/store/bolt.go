package store

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// Bolt is the embedded file backend. One bucket per namespace; bbolt gives
// us byte-ordered cursors and atomic write transactions for free.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the store file at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt %s", path)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(ns string, key []byte) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bk := tx.Bucket([]byte(ns))
		if bk == nil {
			return nil
		}
		if v := bk.Get(key); v != nil {
			out = make([]byte, len(v))
			copy(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "bolt get %s", ns)
	}
	return out, nil
}

func (b *Bolt) GetRange(ns string, begin, end []byte) ([]KV, error) {
	var out []KV
	err := b.db.View(func(tx *bolt.Tx) error {
		bk := tx.Bucket([]byte(ns))
		if bk == nil {
			return nil
		}
		c := bk.Cursor()
		for k, v := c.Seek(begin); k != nil && bytes.Compare(k, end) <= 0; k, v = c.Next() {
			kc := make([]byte, len(k))
			copy(kc, k)
			vc := make([]byte, len(v))
			copy(vc, v)
			out = append(out, KV{Key: kc, Value: vc})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "bolt scan %s", ns)
	}
	return out, nil
}

func (b *Bolt) BatchSet(ns string, entries []KV) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bk, err := tx.CreateBucketIfNotExists([]byte(ns))
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := bk.Put(e.Key, e.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "bolt batch set %s", ns)
	}
	return nil
}

func (b *Bolt) Close() error {
	return errors.Wrap(b.db.Close(), "bolt close")
}
