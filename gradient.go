package zstdbench

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
)

// Defaults for GradientParams.
const (
	DefaultGradientUnit     = 1 << 20
	DefaultGradientCopyLen  = 50 << 10
	DefaultGradientAlphabet = 100

	// MaxGradientUnit keeps the far zone distance within MaxWorkloadSize.
	MaxGradientUnit = MaxWorkloadSize / 64
)

// GradientParams tunes the graduated-distance profile.
type GradientParams struct {
	// Unit is the distance scale. Zones copy from 1, 8 and 64 units back.
	Unit int `yaml:"unit" json:"unit"`

	// CopyLen is the length of each injected block. Must not exceed Unit.
	CopyLen int `yaml:"copyLen" json:"copyLen"`

	// Alphabet bounds the background bytes to [0, Alphabet).
	Alphabet int `yaml:"alphabet" json:"alphabet"`
}

func (gp GradientParams) withDefaults() (GradientParams, error) {
	if gp.Unit == 0 {
		gp.Unit = DefaultGradientUnit
	}
	if gp.CopyLen == 0 {
		gp.CopyLen = min(DefaultGradientCopyLen, gp.Unit)
	}
	if gp.Alphabet == 0 {
		gp.Alphabet = DefaultGradientAlphabet
	}
	if gp.Unit < 0 || gp.CopyLen < 0 {
		return gp, fmt.Errorf("gradient unit and copyLen must be positive; got unit=%d, copyLen=%d", gp.Unit, gp.CopyLen)
	}
	if gp.Unit > MaxGradientUnit {
		return gp, fmt.Errorf("gradient unit=%d cannot exceed %d", gp.Unit, MaxGradientUnit)
	}
	if gp.CopyLen > gp.Unit {
		return gp, fmt.Errorf("gradient copyLen=%d cannot exceed unit=%d", gp.CopyLen, gp.Unit)
	}
	if gp.Alphabet < 1 || gp.Alphabet > 256 {
		return gp, fmt.Errorf("gradient alphabet must be in [1, 256]; got %d", gp.Alphabet)
	}
	return gp, nil
}

// gradientZone is a span of the buffer receiving copies from a fixed distance.
type gradientZone struct {
	name     string
	start    int
	end      int
	first    int
	step     int
	distance int
}

func gradientZones(size int, gp GradientParams) []gradientZone {
	return []gradientZone{
		{
			name:     "near",
			start:    0,
			end:      size / 4,
			first:    gp.Unit + gp.CopyLen,
			step:     gp.Unit,
			distance: gp.Unit,
		},
		{
			name:     "medium",
			start:    size / 4,
			end:      size / 2,
			first:    size / 4,
			step:     8 * gp.Unit,
			distance: 8 * gp.Unit,
		},
		{
			name:     "far",
			start:    size / 2,
			end:      size,
			first:    size / 2,
			step:     64 * gp.Unit,
			distance: 64 * gp.Unit,
		},
	}
}

// gradientBlock is a single injected duplicate.
type gradientBlock struct {
	pos      int
	length   int
	distance int
}

// gradientBlocks lists the blocks injected into a buffer of the given size,
// in injection order. Blocks never cross their zone end and are skipped
// while pos < distance.
func gradientBlocks(size int, gp GradientParams) []gradientBlock {
	var blocks []gradientBlock
	for _, z := range gradientZones(size, gp) {
		for pos := z.first; pos < z.end; pos += z.step {
			if pos < z.distance {
				continue
			}
			n := min(gp.CopyLen, z.end-pos)
			if n <= 0 {
				continue
			}
			blocks = append(blocks, gradientBlock{
				pos:      pos,
				length:   n,
				distance: z.distance,
			})
		}
	}
	return blocks
}

// fillGradient fills buf with low-entropy noise, then injects duplicate
// blocks at growing distances. A block is only found by the compressor
// when its window covers the zone distance.
func fillGradient(buf []byte, rng *rand.Rand, gp GradientParams, log zerolog.Logger) {
	log.Debug().Int("alphabet", gp.Alphabet).Msg("filling background noise")
	for i := range buf {
		buf[i] = byte(rng.Intn(gp.Alphabet))
	}

	injected := make(map[int]int, 3)
	for _, b := range gradientBlocks(len(buf), gp) {
		src := b.pos - b.distance
		copy(buf[b.pos:b.pos+b.length], buf[src:src+b.length])
		injected[b.distance]++
	}
	for _, z := range gradientZones(len(buf), gp) {
		log.Debug().
			Str("zone", z.name).
			Int("distance", z.distance).
			Int("blocks", injected[z.distance]).
			Msg("injected duplicate blocks")
	}
}
