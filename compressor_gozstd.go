//go:build cgo && !libzstd

package zstdbench

import (
	"github.com/valyala/gozstd"
)

func init() {
	RegisterCompressor("gozstd", func() (Compressor, error) {
		return &GozstdCompressor{}, nil
	})
}

// minCLevel is ZSTD_minCLevel for the bundled libzstd.
const minCLevel = -(1 << 17)

// GozstdCompressor compresses with the C zstd library through gozstd.
//
// libzstd clamps out-of-range levels, so the range is checked here.
type GozstdCompressor struct{}

// Name implements Compressor.
func (GozstdCompressor) Name() string {
	return "gozstd"
}

// LevelRange implements Compressor.
func (GozstdCompressor) LevelRange() (int, int) {
	return minCLevel, MaxCLevel
}

// CompressBound implements Compressor.
func (GozstdCompressor) CompressBound(srcSize int) int {
	return zstdCompressBound(srcSize)
}

// Compress implements Compressor.
func (gc GozstdCompressor) Compress(dst, src []byte, level int) (int, error) {
	if err := checkLevel(gc, level); err != nil {
		return 0, err
	}
	bound := gc.CompressBound(len(src))
	if len(dst) < bound {
		return 0, dstTooSmall(level, len(dst), bound)
	}
	// gozstd appends to dst, using its spare capacity when it fits.
	out := gozstd.CompressLevel(dst[:0], src, level)
	if len(out) > len(dst) {
		return 0, dstTooSmall(level, len(dst), len(out))
	}
	return len(out), nil
}
