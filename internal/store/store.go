// Package store persists price-bar time series, replay cursors and the order
// journal. The Backend interface is the narrow key-value contract every
// engine runs on; the TimeSeries layer on top owns namespace naming, codecs
// and the read-write locking discipline.
package store

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrStorage marks any backend I/O or corruption failure. An absent
// namespace is never an error; reads of one return empty results.
var ErrStorage = errors.New("store: backend failure")

// KV is one key-value entry.
type KV struct {
	Key   []byte
	Value []byte
}

// Backend is a namespaced, range-scannable key-value store.
//
// Guarantees every implementation must uphold: GetRange returns entries in
// ascending raw-byte key order over the inclusive [begin, end] range;
// BatchSet is atomic (all entries land or none) and creates the namespace
// lazily on first write; reading a namespace that was never written yields
// empty results, not an error.
type Backend interface {
	Get(ns string, key []byte) ([]byte, error)
	GetRange(ns string, begin, end []byte) ([]KV, error)
	BatchSet(ns string, entries []KV) error
	Close() error
}

func wrapStorage(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, fmt.Sprintf(format, args...), err)
}
