package zstdbench

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// minPlausibleSize is the size of a canonical WAV header. Smaller inputs
// are flagged but still measured.
const minPlausibleSize = 44

func loadExternal(path string, log zerolog.Logger) (*Workload, error) {
	if path == "" {
		return nil, &IOError{Path: path, Err: errors.New("no input path given")}
	}
	log = log.With().Str("profile", ProfileExternal.String()).Str("path", path).Logger()
	log.Info().Msg("reading workload file")

	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	data, err := readExternal(f, fi.Size(), log)
	if err != nil {
		var ae *AllocationError
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, &IOError{Path: path, Err: err}
	}
	return &Workload{
		Profile: ProfileExternal,
		Data:    data,
		Source:  path,
	}, nil
}

// readExternal reads up to size bytes from r into a buffer of exactly
// size bytes. A short read is logged and the buffer is truncated to the
// bytes actually read.
func readExternal(r io.Reader, size int64, log zerolog.Logger) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("file is empty")
	}
	if size > MaxWorkloadSize {
		return nil, &AllocationError{What: "workload buffer", Size: size}
	}
	if size < minPlausibleSize {
		log.Warn().
			Int64("size", size).
			Int("minSize", minPlausibleSize).
			Msg("file is too small to be a valid WAV")
	}
	log.Info().Str("size", humanize.IBytes(uint64(size))).Msg("file size")

	buf := make([]byte, size)
	n, err := io.ReadFull(r, buf)
	switch {
	case err == nil:
		return buf, nil
	case errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF):
		if n == 0 {
			return nil, errors.New("file is empty")
		}
		log.Warn().
			Int("read", n).
			Int64("expected", size).
			Msg("read partial data")
		return buf[:n], nil
	default:
		return nil, fmt.Errorf("read failed after %d of %d bytes: %w", n, size, err)
	}
}
