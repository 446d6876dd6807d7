package compression

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4"
)

// Frame markers written in front of every lz4-compressed value.
const (
	frameRaw byte = 0
	frameLZ4 byte = 1
)

var ErrCorruptFrame = errors.New("corrupt compressed frame")

// NoCompressor stores values unchanged.
type NoCompressor struct{}

func (c *NoCompressor) Name() string { return "none" }

func (c *NoCompressor) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (c *NoCompressor) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

// LZ4Compressor compresses values as lz4 blocks. The output starts with a
// frame byte; compressed frames carry the uncompressed length as a uvarint
// so decompression allocates exactly once. Values lz4 cannot shrink are
// stored raw.
type LZ4Compressor struct{}

func (c *LZ4Compressor) Name() string { return "lz4" }

func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	var hashTable [1 << 16]int
	block := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, block, hashTable[:])
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if n == 0 || n >= len(data) {
		out := make([]byte, 1+len(data))
		out[0] = frameRaw
		copy(out[1:], data)
		return out, nil
	}

	out := make([]byte, 1+binary.MaxVarintLen64+n)
	out[0] = frameLZ4
	hdr := 1 + binary.PutUvarint(out[1:], uint64(len(data)))
	copy(out[hdr:], block[:n])
	return out[:hdr+n], nil
}

func (c *LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrCorruptFrame
	}
	switch data[0] {
	case frameRaw:
		return append([]byte(nil), data[1:]...), nil
	case frameLZ4:
		size, n := binary.Uvarint(data[1:])
		if n <= 0 {
			return nil, ErrCorruptFrame
		}
		out := make([]byte, size)
		got, err := lz4.UncompressBlock(data[1+n:], out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if uint64(got) != size {
			return nil, ErrCorruptFrame
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown frame %d", ErrCorruptFrame, data[0])
	}
}
