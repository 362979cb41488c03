package zstdbench

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradientParamsDefaults(t *testing.T) {
	gp, err := GradientParams{}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, DefaultGradientUnit, gp.Unit)
	assert.Equal(t, DefaultGradientCopyLen, gp.CopyLen)
	assert.Equal(t, DefaultGradientAlphabet, gp.Alphabet)

	gp, err = GradientParams{Unit: 1024}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, 1024, gp.CopyLen, "copyLen is capped by unit")
}

func TestGradientParamsInvalid(t *testing.T) {
	for _, gp := range []GradientParams{
		{Unit: 100, CopyLen: 101},
		{Unit: -1, CopyLen: 1},
		{Unit: 100, CopyLen: 10, Alphabet: 257},
		{Unit: MaxGradientUnit + 1, CopyLen: 1},
		{Unit: 1 << 58},
	} {
		_, err := gp.withDefaults()
		assert.Error(t, err, "%+v", gp)

		_, err = Generate(GenerateParams{Profile: ProfileGradient, Size: 1 << 16, Gradient: gp})
		assert.Error(t, err, "%+v", gp)
	}
}

func TestGradientSkipsInjectionsBeforeBufferStart(t *testing.T) {
	gp := GradientParams{Unit: 1000, CopyLen: 100, Alphabet: 100}

	// Medium and far zones start below their distances and get nothing.
	blocks := gradientBlocks(16000, gp)
	require.NotEmpty(t, blocks)
	for _, b := range blocks {
		assert.Equal(t, gp.Unit, b.distance)
		assert.GreaterOrEqual(t, b.pos, b.distance)
	}

	// Too small for any zone.
	assert.Empty(t, gradientBlocks(1000, gp))
}

func TestGradientBlocksStayInZone(t *testing.T) {
	gp := GradientParams{Unit: 64, CopyLen: 64, Alphabet: 100}
	size := 200 * gp.Unit
	distances := map[int]int{}
	for _, z := range gradientZones(size, gp) {
		for _, b := range gradientBlocks(size, gp) {
			if b.distance != z.distance {
				continue
			}
			distances[b.distance]++
			assert.GreaterOrEqual(t, b.pos, z.start)
			assert.LessOrEqual(t, b.pos+b.length, z.end)
		}
	}
	assert.Len(t, distances, 3, "all zones must receive blocks")
}

func TestProperty_GradientInjectedBlocks(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("injected blocks equal the bytes one distance back", prop.ForAll(
		func(unit, copyLen, units, alphabet int, seed int64) bool {
			copyLen = 1 + copyLen%unit
			gp := GradientParams{Unit: unit, CopyLen: copyLen, Alphabet: alphabet}
			size := units * unit
			w, err := Generate(GenerateParams{
				Profile:  ProfileGradient,
				Size:     size,
				Seed:     seed,
				Gradient: gp,
			})
			if err != nil {
				return false
			}
			for _, b := range gradientBlocks(size, gp) {
				src := b.pos - b.distance
				if src < 0 {
					return false
				}
				for k := 0; k < b.length; k++ {
					if w.Data[b.pos+k] != w.Data[src+k] {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 64),
		gen.IntRange(0, 63),
		gen.IntRange(4, 300),
		gen.IntRange(2, 256),
		gen.Int64(),
	))

	properties.Property("all bytes stay within the alphabet", prop.ForAll(
		func(alphabet int, seed int64) bool {
			gp := GradientParams{Unit: 32, CopyLen: 16, Alphabet: alphabet}
			w, err := Generate(GenerateParams{Profile: ProfileGradient, Size: 32 * 256, Seed: seed, Gradient: gp})
			if err != nil {
				return false
			}
			for _, c := range w.Data {
				if int(c) >= alphabet {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 256),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
