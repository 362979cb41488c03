package zstdbench

import (
	"math/rand"

	"github.com/rs/zerolog"
)

const mixedPattern = "ZstdIsFastZstdIsFast"

// fillMixed fills buf with four regions, each aimed at a different stage
// of the compressor:
//
//	[0, chunk)             random bytes (entropy coder)
//	[chunk, 2*chunk)       short cyclic text (hash chain)
//	[2*chunk, size-chunk)  ramp with periodic 'A' runs (repcodes)
//	[size-chunk, size)     copy of the first region (window)
//
// The third region absorbs size%4 so the regions cover the whole buffer.
func fillMixed(buf []byte, rng *rand.Rand, log zerolog.Logger) {
	size := len(buf)
	chunk := size / 4

	log.Debug().Int("from", 0).Int("to", chunk).Msg("filling random region")
	rng.Read(buf[:chunk])

	log.Debug().Int("from", chunk).Int("to", 2*chunk).Msg("filling short pattern region")
	for i := chunk; i < 2*chunk; i++ {
		buf[i] = mixedPattern[i%len(mixedPattern)]
	}

	log.Debug().Int("from", 2*chunk).Int("to", size-chunk).Msg("filling run-biased region")
	for i := 2 * chunk; i < size-chunk; i++ {
		if i%100 < 10 {
			buf[i] = 'A'
		} else {
			buf[i] = byte(i % 255)
		}
	}

	log.Debug().Int("from", size-chunk).Int("to", size).Msg("copying random region for long-distance match")
	copy(buf[size-chunk:], buf[:chunk])
}

// mixedDuplicateOffset returns the offset of the copied random region in a
// mixed workload of the given size.
func mixedDuplicateOffset(size int) int {
	return size - size/4
}
