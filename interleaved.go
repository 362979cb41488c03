package zstdbench

import "math/rand"

const interleavedPattern = "RepeatPattern"

// fillInterleaved puts random bytes at even offsets and a repeating text
// at odd offsets. Half of the input stays incompressible while the other
// half keeps the match finder busy.
func fillInterleaved(buf []byte, rng *rand.Rand) {
	for i := range buf {
		if i%2 == 0 {
			buf[i] = byte(rng.Intn(256))
		} else {
			buf[i] = interleavedPattern[i%len(interleavedPattern)]
		}
	}
}
