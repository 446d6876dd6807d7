package tx

import (
	"bytes"
	"encoding/hex"
	"sort"

	"github.com/LeJamon/pixpressd/internal/core/ledger/entry"
	"github.com/LeJamon/pixpressd/internal/core/ledger/keylet"
	"github.com/LeJamon/pixpressd/internal/core/ledger/view"
)

// Action represents the type of modification to a ledger entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

// TrackedEntry represents a ledger entry being tracked for changes
type TrackedEntry struct {
	Action   Action
	Original []byte // Original state (nil for inserts)
	Current  []byte // Current state (state before deletion for erases)
}

// ApplyStateTable wraps a LedgerView and buffers every modification made
// while applying one transaction. Nothing reaches the base view until Apply.
type ApplyStateTable struct {
	base  LedgerView
	items map[[32]byte]*TrackedEntry
}

// NewApplyStateTable creates a new ApplyStateTable wrapping the given base view
func NewApplyStateTable(base LedgerView) *ApplyStateTable {
	return &ApplyStateTable{
		base:  base,
		items: make(map[[32]byte]*TrackedEntry),
	}
}

// Read reads a ledger entry, tracking it as cached
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if e, exists := t.items[k.Key]; exists {
		if e.Action == ActionErase {
			return nil, nil
		}
		return e.Current, nil
	}

	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}

	// Only track entries that exist in the base
	if data != nil {
		t.items[k.Key] = &TrackedEntry{
			Action:   ActionCache,
			Original: data,
			Current:  data,
		}
	}

	return data, nil
}

// Exists checks if an entry exists
func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	if e, exists := t.items[k.Key]; exists {
		return e.Action != ActionErase, nil
	}
	return t.base.Exists(k)
}

// Insert adds a new entry
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	if e, exists := t.items[k.Key]; exists {
		if e.Action != ActionErase {
			return view.ErrEntryExists
		}
		// Re-inserting a deleted entry becomes a modify
		e.Action = ActionModify
		e.Current = data
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return view.ErrEntryExists
	}

	t.items[k.Key] = &TrackedEntry{
		Action:  ActionInsert,
		Current: data,
	}
	return nil
}

// Update modifies an existing entry
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	if e, exists := t.items[k.Key]; exists {
		if e.Action == ActionErase {
			return view.ErrEntryNotFound
		}
		if e.Action == ActionCache {
			e.Action = ActionModify
		}
		// For insert, keep it as insert with new data
		e.Current = data
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return view.ErrEntryNotFound
	}

	t.items[k.Key] = &TrackedEntry{
		Action:   ActionModify,
		Original: original,
		Current:  data,
	}
	return nil
}

// Erase removes an entry
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	if e, exists := t.items[k.Key]; exists {
		if e.Action == ActionErase {
			return view.ErrEntryNotFound
		}
		if e.Action == ActionInsert {
			// Inserting then deleting = no change
			delete(t.items, k.Key)
			return nil
		}
		e.Action = ActionErase
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return view.ErrEntryNotFound
	}

	t.items[k.Key] = &TrackedEntry{
		Action:   ActionErase,
		Original: original,
		Current:  original,
	}
	return nil
}

// ForEach iterates over the base view overlaid with the buffered changes.
func (t *ApplyStateTable) ForEach(fn func(key [32]byte, data []byte) bool) error {
	merged := make(map[[32]byte][]byte)
	if err := t.base.ForEach(func(key [32]byte, data []byte) bool {
		merged[key] = data
		return true
	}); err != nil {
		return err
	}
	for key, e := range t.items {
		switch e.Action {
		case ActionErase:
			delete(merged, key)
		case ActionInsert, ActionModify:
			merged[key] = e.Current
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

// Apply writes every buffered change to the base view in key order and
// returns the metadata describing them.
func (t *ApplyStateTable) Apply() (*Metadata, error) {
	keys := make([][32]byte, 0, len(t.items))
	for k := range t.items {
		keys = append(keys, k)
	}
	sortKeys(keys)

	meta := &Metadata{AffectedNodes: make([]AffectedNode, 0, len(keys))}
	for _, key := range keys {
		e := t.items[key]
		k := keylet.Keylet{Key: key}
		var err error
		switch e.Action {
		case ActionCache:
			continue
		case ActionInsert:
			meta.AffectedNodes = append(meta.AffectedNodes, newAffectedNode("CreatedNode", key, e.Current))
			err = t.base.Insert(k, e.Current)
		case ActionModify:
			if bytes.Equal(e.Original, e.Current) {
				continue
			}
			meta.AffectedNodes = append(meta.AffectedNodes, newAffectedNode("ModifiedNode", key, e.Current))
			err = t.base.Update(k, e.Current)
		case ActionErase:
			meta.AffectedNodes = append(meta.AffectedNodes, newAffectedNode("DeletedNode", key, e.Current))
			err = t.base.Erase(k)
		}
		if err != nil {
			return nil, err
		}
	}
	return meta, nil
}

// Changes returns the number of entries that Apply would write.
func (t *ApplyStateTable) Changes() int {
	n := 0
	for _, e := range t.items {
		if e.Action == ActionModify && bytes.Equal(e.Original, e.Current) {
			continue
		}
		if e.Action != ActionCache {
			n++
		}
	}
	return n
}

// AffectedNode describes one entry touched by a transaction.
type AffectedNode struct {
	NodeType        string `json:"NodeType"`
	LedgerEntryType string `json:"LedgerEntryType"`
	LedgerIndex     string `json:"LedgerIndex"`
}

// Metadata tracks changes made by a transaction
type Metadata struct {
	AffectedNodes     []AffectedNode `json:"AffectedNodes"`
	TransactionResult Result         `json:"TransactionResult"`
}

func newAffectedNode(nodeType string, key [32]byte, data []byte) AffectedNode {
	name := "Unknown"
	if typ, err := entry.TypeOf(data); err == nil {
		name = typ.String()
	}
	return AffectedNode{
		NodeType:        nodeType,
		LedgerEntryType: name,
		LedgerIndex:     hex.EncodeToString(key[:]),
	}
}

func sortKeys(keys [][32]byte) {
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
}
