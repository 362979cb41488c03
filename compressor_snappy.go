package zstdbench

import (
	"errors"

	"github.com/golang/snappy"
)

func init() {
	RegisterCompressor("snappy", func() (Compressor, error) {
		return &SnappyCompressor{}, nil
	})
}

// SnappyCompressor compresses with snappy. It has a single level, 1.
type SnappyCompressor struct{}

// Name implements Compressor.
func (SnappyCompressor) Name() string {
	return "snappy"
}

// LevelRange implements Compressor.
func (SnappyCompressor) LevelRange() (int, int) {
	return 1, 1
}

// CompressBound implements Compressor.
//
// It returns -1 when srcSize is too large to be encoded.
func (SnappyCompressor) CompressBound(srcSize int) int {
	return snappy.MaxEncodedLen(srcSize)
}

// Compress implements Compressor.
func (sc SnappyCompressor) Compress(dst, src []byte, level int) (int, error) {
	if err := checkLevel(sc, level); err != nil {
		return 0, err
	}
	bound := sc.CompressBound(len(src))
	if bound < 0 {
		return 0, &LevelError{Level: level, Name: errNameGeneric, Err: errors.New("snappy: source too large")}
	}
	if len(dst) < bound {
		return 0, dstTooSmall(level, len(dst), bound)
	}
	return len(snappy.Encode(dst, src)), nil
}
