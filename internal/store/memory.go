package store

import (
	"bytes"
	"sort"
	"sync"
)

// Memory is an in-process backend. It keeps every namespace in a plain map
// and sorts on scan; good enough for tests and throwaway sandbox runs.
type Memory struct {
	mu  sync.RWMutex
	nss map[string]map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{nss: make(map[string]map[string][]byte)}
}

func (m *Memory) Get(ns string, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, ok := m.nss[ns]
	if !ok {
		return nil, nil
	}
	v, ok := entries[string(key)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) GetRange(ns string, begin, end []byte) ([]KV, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, ok := m.nss[ns]
	if !ok {
		return nil, nil
	}
	var out []KV
	for k, v := range entries {
		kb := []byte(k)
		if bytes.Compare(kb, begin) < 0 || bytes.Compare(kb, end) > 0 {
			continue
		}
		vc := make([]byte, len(v))
		copy(vc, v)
		out = append(out, KV{Key: kb, Value: vc})
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].Key, out[j].Key) < 0 })
	return out, nil
}

func (m *Memory) BatchSet(ns string, batch []KV) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, ok := m.nss[ns]
	if !ok {
		entries = make(map[string][]byte, len(batch))
		m.nss[ns] = entries
	}
	for _, e := range batch {
		v := make([]byte, len(e.Value))
		copy(v, e.Value)
		entries[string(e.Key)] = v
	}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nss = make(map[string]map[string][]byte)
	return nil
}
