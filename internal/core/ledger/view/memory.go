package view

import (
	"bytes"
	"sort"
	"sync"

	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
)

// Memory is a map-backed LedgerView.
type Memory struct {
	mu      sync.RWMutex
	entries map[[32]byte][]byte
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[[32]byte][]byte)}
}

func (m *Memory) Read(k keylet.Keylet) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[k.Key], nil
}

func (m *Memory) Exists(k keylet.Keylet) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[k.Key]
	return ok, nil
}

func (m *Memory) Insert(k keylet.Keylet, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[k.Key]; ok {
		return ErrEntryExists
	}
	m.entries[k.Key] = data
	return nil
}

func (m *Memory) Update(k keylet.Keylet, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[k.Key]; !ok {
		return ErrEntryNotFound
	}
	m.entries[k.Key] = data
	return nil
}

func (m *Memory) Erase(k keylet.Keylet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[k.Key]; !ok {
		return ErrEntryNotFound
	}
	delete(m.entries, k.Key)
	return nil
}

func (m *Memory) ForEach(fn func(key [32]byte, data []byte) bool) error {
	m.mu.RLock()
	keys := make([][32]byte, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	snapshot := make(map[[32]byte][]byte, len(keys))
	for _, k := range keys {
		snapshot[k] = m.entries[k]
	}
	m.mu.RUnlock()

	sortKeys(keys)
	for _, k := range keys {
		if !fn(k, snapshot[k]) {
			break
		}
	}
	return nil
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func sortKeys(keys [][32]byte) {
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
}
