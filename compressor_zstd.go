package zstdbench

import (
	"fmt"
	"math/bits"

	"github.com/klauspost/compress/zstd"
)

func init() {
	RegisterCompressor("zstd", func() (Compressor, error) {
		return NewZstdCompressor(), nil
	})
}

// ZstdCompressor compresses with the pure Go zstd encoder.
//
// Every level gets its own encoder, built from the level's parameters.
// Like libzstd, the window shrinks to the smallest power of two holding
// the source. Encoders run single-threaded.
type ZstdCompressor struct {
	encoders map[encoderKey]*zstd.Encoder
}

type encoderKey struct {
	level     int
	windowLog int
}

// NewZstdCompressor returns a ZstdCompressor with no prepared levels.
func NewZstdCompressor() *ZstdCompressor {
	return &ZstdCompressor{
		encoders: make(map[encoderKey]*zstd.Encoder),
	}
}

// Name implements Compressor.
func (zc *ZstdCompressor) Name() string {
	return "zstd"
}

// LevelRange implements Compressor.
func (zc *ZstdCompressor) LevelRange() (int, int) {
	return 1, MaxCLevel
}

// CompressBound implements Compressor.
func (zc *ZstdCompressor) CompressBound(srcSize int) int {
	return zstdCompressBound(srcSize)
}

// Prepare builds the encoder for compressing srcSize bytes at level.
func (zc *ZstdCompressor) Prepare(level, srcSize int) error {
	_, err := zc.encoder(level, srcSize)
	return err
}

func (zc *ZstdCompressor) encoder(level, srcSize int) (*zstd.Encoder, error) {
	if err := checkLevel(zc, level); err != nil {
		return nil, err
	}
	cp, err := LevelParams(level)
	if err != nil {
		return nil, levelOutOfRange(level, 1, MaxCLevel)
	}
	key := encoderKey{
		level:     level,
		windowLog: adjustWindowLog(cp.WindowLog, srcSize),
	}
	if enc := zc.encoders[key]; enc != nil {
		return enc, nil
	}
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithWindowSize(1<<key.windowLog),
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderCRC(false),
	)
	if err != nil {
		return nil, &LevelError{
			Level: level,
			Name:  errNameParameterOutOfBound,
			Err:   fmt.Errorf("cannot create encoder: %w", err),
		}
	}
	zc.encoders[key] = enc
	return enc, nil
}

// adjustWindowLog shrinks windowLog to the smallest window holding
// srcSize bytes, within the encoder limits.
func adjustWindowLog(windowLog, srcSize int) int {
	const (
		minWindowLog = 10 // zstd.MinWindowSize
		maxWindowLog = 29 // zstd.MaxWindowSize
	)
	if srcSize > 0 {
		windowLog = min(windowLog, bits.Len(uint(srcSize-1)))
	}
	return max(minWindowLog, min(windowLog, maxWindowLog))
}

// Compress implements Compressor.
func (zc *ZstdCompressor) Compress(dst, src []byte, level int) (int, error) {
	enc, err := zc.encoder(level, len(src))
	if err != nil {
		return 0, err
	}
	bound := zc.CompressBound(len(src))
	if len(dst) < bound {
		return 0, dstTooSmall(level, len(dst), bound)
	}
	out := enc.EncodeAll(src, dst[:0])
	if len(out) > len(dst) {
		// EncodeAll had to grow past dst; the result is not in dst.
		return 0, dstTooSmall(level, len(dst), len(out))
	}
	return len(out), nil
}

// Close releases all the encoders.
func (zc *ZstdCompressor) Close() error {
	for key, enc := range zc.encoders {
		enc.Close()
		delete(zc.encoders, key)
	}
	return nil
}
