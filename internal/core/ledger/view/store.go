package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/storage/database"
	"github.com/LeJamon/pixpressd/internal/storage/database/compression"
	"github.com/hashicorp/golang-lru/v2"
)

// statePrefix namespaces ledger entries inside the database.
const statePrefix = 's'

// DefaultCacheSize is the number of decoded entries a Store keeps in memory.
const DefaultCacheSize = 4096

// StoreConfig configures a Store.
type StoreConfig struct {
	CacheSize   int
	Compression string
}

// Store is a LedgerView over a key/value database. Writes are buffered
// until Commit, which flushes them as a single batch.
type Store struct {
	mu      sync.RWMutex
	db      database.DB
	comp    compression.Compressor
	cache   *lru.Cache[[32]byte, []byte]
	pending map[[32]byte][]byte // nil value marks an erase
}

// NewStore wraps db.
func NewStore(db database.DB, cfg StoreConfig) (*Store, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.Compression == "" {
		cfg.Compression = "none"
	}

	comp, err := compression.Get(cfg.Compression)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[[32]byte, []byte](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:      db,
		comp:    comp,
		cache:   cache,
		pending: make(map[[32]byte][]byte),
	}, nil
}

func dbKey(key [32]byte) []byte {
	out := make([]byte, 33)
	out[0] = statePrefix
	copy(out[1:], key[:])
	return out
}

func (s *Store) Read(k keylet.Keylet) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(k.Key)
}

func (s *Store) read(key [32]byte) ([]byte, error) {
	if data, ok := s.pending[key]; ok {
		return data, nil
	}
	if data, ok := s.cache.Get(key); ok {
		return data, nil
	}

	raw, err := s.db.Read(context.Background(), dbKey(key))
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state entry: %w", err)
	}
	data, err := s.comp.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress state entry: %w", err)
	}
	s.cache.Add(key, data)
	return data, nil
}

func (s *Store) Exists(k keylet.Keylet) (bool, error) {
	data, err := s.Read(k)
	return data != nil, err
}

func (s *Store) Insert(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.read(k.Key)
	if err != nil {
		return err
	}
	if cur != nil {
		return ErrEntryExists
	}
	s.pending[k.Key] = data
	return nil
}

func (s *Store) Update(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.read(k.Key)
	if err != nil {
		return err
	}
	if cur == nil {
		return ErrEntryNotFound
	}
	s.pending[k.Key] = data
	return nil
}

func (s *Store) Erase(k keylet.Keylet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.read(k.Key)
	if err != nil {
		return err
	}
	if cur == nil {
		return ErrEntryNotFound
	}
	s.pending[k.Key] = nil
	return nil
}

// ForEach visits committed entries overlaid with pending writes, in key
// order.
func (s *Store) ForEach(fn func(key [32]byte, data []byte) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	merged := make(map[[32]byte][]byte)
	it, err := s.db.Iterator(context.Background(), []byte{statePrefix}, []byte{statePrefix + 1})
	if err != nil {
		return fmt.Errorf("failed to iterate state: %w", err)
	}
	for it.Next() {
		raw := it.Key()
		if len(raw) != 33 {
			continue
		}
		var key [32]byte
		copy(key[:], raw[1:])
		data, err := s.comp.Decompress(it.Value())
		if err != nil {
			it.Close()
			return fmt.Errorf("failed to decompress state entry: %w", err)
		}
		merged[key] = data
	}
	if err := it.Error(); err != nil {
		it.Close()
		return err
	}
	if err := it.Close(); err != nil {
		return err
	}

	for key, data := range s.pending {
		if data == nil {
			delete(merged, key)
		} else {
			merged[key] = data
		}
	}

	keys := make([][32]byte, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sortKeys(keys)
	for _, k := range keys {
		if !fn(k, merged[k]) {
			break
		}
	}
	return nil
}

// Commit writes every pending change in one batch and refreshes the cache.
// On error the pending set is kept so the caller may retry or Discard.
func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return nil
	}

	ops := make([]database.BatchOperation, 0, len(s.pending))
	for key, data := range s.pending {
		if data == nil {
			ops = append(ops, database.BatchOperation{Type: database.BatchDelete, Key: dbKey(key)})
			continue
		}
		packed, err := s.comp.Compress(data)
		if err != nil {
			return fmt.Errorf("failed to compress state entry: %w", err)
		}
		ops = append(ops, database.BatchOperation{Type: database.BatchPut, Key: dbKey(key), Value: packed})
	}

	if err := s.db.Batch(ctx, ops); err != nil {
		return fmt.Errorf("failed to commit state batch: %w", err)
	}

	for key, data := range s.pending {
		if data == nil {
			s.cache.Remove(key)
		} else {
			s.cache.Add(key, data)
		}
	}
	s.pending = make(map[[32]byte][]byte)
	return nil
}

// Discard drops every pending change.
func (s *Store) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[[32]byte][]byte)
}

// Pending returns the number of buffered changes.
func (s *Store) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}
