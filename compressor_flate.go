package zstdbench

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/flate"
)

func init() {
	RegisterCompressor("flate", func() (Compressor, error) {
		return NewFlateCompressor(), nil
	})
}

var errDstFull = errors.New("destination buffer is full")

// FlateCompressor compresses with DEFLATE at levels 1..9.
type FlateCompressor struct {
	writers map[int]*flate.Writer
	sw      sliceWriter
}

// NewFlateCompressor returns a FlateCompressor with no prepared levels.
func NewFlateCompressor() *FlateCompressor {
	return &FlateCompressor{
		writers: make(map[int]*flate.Writer),
	}
}

// Name implements Compressor.
func (fc *FlateCompressor) Name() string {
	return "flate"
}

// LevelRange implements Compressor.
func (fc *FlateCompressor) LevelRange() (int, int) {
	return flate.BestSpeed, flate.BestCompression
}

// CompressBound implements Compressor.
//
// Incompressible input is emitted as stored blocks with a 5 byte header
// each, plus the final empty block.
func (fc *FlateCompressor) CompressBound(srcSize int) int {
	return srcSize + 5*(srcSize/16383+1) + 64
}

// Prepare builds the writer for level.
func (fc *FlateCompressor) Prepare(level, srcSize int) error {
	_, err := fc.writer(level)
	return err
}

func (fc *FlateCompressor) writer(level int) (*flate.Writer, error) {
	if fw := fc.writers[level]; fw != nil {
		return fw, nil
	}
	if err := checkLevel(fc, level); err != nil {
		return nil, err
	}
	fw, err := flate.NewWriter(&fc.sw, level)
	if err != nil {
		return nil, &LevelError{
			Level: level,
			Name:  errNameParameterOutOfBound,
			Err:   err,
		}
	}
	fc.writers[level] = fw
	return fw, nil
}

// Compress implements Compressor.
func (fc *FlateCompressor) Compress(dst, src []byte, level int) (int, error) {
	fw, err := fc.writer(level)
	if err != nil {
		return 0, err
	}
	fc.sw.buf = dst
	fc.sw.n = 0
	fw.Reset(&fc.sw)
	if _, err := fw.Write(src); err != nil {
		return 0, fc.writeError(level, err)
	}
	if err := fw.Close(); err != nil {
		return 0, fc.writeError(level, err)
	}
	n := fc.sw.n
	fc.sw.buf = nil
	return n, nil
}

func (fc *FlateCompressor) writeError(level int, err error) error {
	fc.sw.buf = nil
	if errors.Is(err, errDstFull) {
		return &LevelError{Level: level, Name: errNameDstSizeTooSmall, Err: err}
	}
	return &LevelError{Level: level, Name: errNameGeneric, Err: fmt.Errorf("flate: %w", err)}
}

// sliceWriter writes into a fixed slice and fails instead of growing it.
type sliceWriter struct {
	buf []byte
	n   int
}

func (sw *sliceWriter) Write(p []byte) (int, error) {
	if len(p) > len(sw.buf)-sw.n {
		return 0, errDstFull
	}
	sw.n += copy(sw.buf[sw.n:], p)
	return len(p), nil
}
