package tx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownTransactionType is returned when a transaction type is unknown
var ErrUnknownTransactionType = errors.New("unknown transaction type")

// Factory creates an empty transaction of one type.
type Factory func() Transaction

var (
	registryMu sync.RWMutex
	registry   = make(map[Type]Factory)
)

// Register makes a transaction type available to NewFromType and FromJSON.
// Transaction packages call it from init(); registering a type twice panics.
func Register(t Type, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[t]; exists {
		panic(fmt.Sprintf("transaction type %s registered twice", t))
	}
	registry[t] = factory
}

// NewFromType creates a new transaction of the given type
func NewFromType(t Type) (Transaction, error) {
	registryMu.RLock()
	factory, ok := registry[t]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransactionType, t)
	}
	return factory(), nil
}

// RegisteredTypes returns every registered type in code order.
func RegisteredTypes() []Type {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Type, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FromJSON creates a Transaction from a JSON object
func FromJSON(data []byte) (Transaction, error) {
	// First, unmarshal to get the TransactionType
	var raw struct {
		TransactionType string `json:"TransactionType"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	txType, ok := TypeFromName(raw.TransactionType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransactionType, raw.TransactionType)
	}

	tx, err := NewFromType(txType)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(tx); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", txType, err)
	}

	return tx, nil
}
