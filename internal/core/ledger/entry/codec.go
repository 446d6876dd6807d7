package entry

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ugorji/go/codec"
)

var (
	// ErrShortEntry is returned when encoded data has no type prefix.
	ErrShortEntry = errors.New("entry data too short")
	// ErrTypeMismatch is returned when decoding into the wrong entry type.
	ErrTypeMismatch = errors.New("entry type mismatch")
)

var msgpack = newHandle()

func newHandle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.Canonical = true
	h.WriteExt = true
	return h
}

// Encode serializes an entry as a 2-byte big-endian type prefix followed by
// its msgpack body.
func Encode(e Entry) ([]byte, error) {
	var body []byte
	if err := codec.NewEncoderBytes(&body, msgpack).Encode(e); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", e.EntryType(), err)
	}
	out := make([]byte, 2+len(body))
	binary.BigEndian.PutUint16(out, uint16(e.EntryType()))
	copy(out[2:], body)
	return out, nil
}

// TypeOf returns the type prefix of encoded entry data.
func TypeOf(data []byte) (Type, error) {
	if len(data) < 2 {
		return 0, ErrShortEntry
	}
	return Type(binary.BigEndian.Uint16(data[:2])), nil
}

// Decode deserializes data into e, which must be a pointer to the entry type
// recorded in the prefix.
func Decode(data []byte, e Entry) error {
	t, err := TypeOf(data)
	if err != nil {
		return err
	}
	if t != e.EntryType() {
		return fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, t, e.EntryType())
	}
	if err := codec.NewDecoderBytes(data[2:], msgpack).Decode(e); err != nil {
		return fmt.Errorf("failed to decode %s: %w", t, err)
	}
	return nil
}
