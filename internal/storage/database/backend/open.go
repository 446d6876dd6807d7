// Package backend opens a state database by configured backend name.
package backend

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/LeJamon/pixpressd/internal/storage/database"
	"github.com/LeJamon/pixpressd/internal/storage/database/leveldb"
	"github.com/LeJamon/pixpressd/internal/storage/database/memory"
	"github.com/LeJamon/pixpressd/internal/storage/database/pebble"
)

const (
	Pebble  = "pebble"
	LevelDB = "leveldb"
	Memory  = "memory"
)

// Names lists the supported backends.
var Names = []string{Pebble, LevelDB, Memory}

// Open opens the named backend. Disk backends keep their files in
// dir/<backend>.
func Open(name, dir string) (database.DB, error) {
	switch name {
	case Memory:
		return memory.New(), nil
	case Pebble, LevelDB:
	default:
		return nil, fmt.Errorf("%w: %q", database.ErrUnknownBackend, name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if name == Pebble {
		return pebble.Open(path)
	}
	return leveldb.Open(path)
}
