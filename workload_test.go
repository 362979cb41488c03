package zstdbench

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileParse(t *testing.T) {
	for _, p := range []Profile{ProfileMixed, ProfileGradient, ProfileExternal, ProfileInterleaved} {
		parsed, err := ParseProfile(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	_, err := ParseProfile("zeros")
	assert.Error(t, err)

	var p Profile
	require.NoError(t, p.UnmarshalText([]byte("gradient")))
	assert.Equal(t, ProfileGradient, p)
}

func TestGenerateInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		w, err := Generate(GenerateParams{Profile: ProfileMixed, Size: size})
		assert.ErrorIs(t, err, ErrInvalidSize)
		assert.Nil(t, w)
	}
}

func TestGenerateTooLarge(t *testing.T) {
	_, err := Generate(GenerateParams{Profile: ProfileMixed, Size: MaxWorkloadSize + 1})
	var ae *AllocationError
	require.ErrorAs(t, err, &ae)
	assert.EqualValues(t, MaxWorkloadSize+1, ae.Size)
}

func TestGenerateReproducible(t *testing.T) {
	for _, p := range []Profile{ProfileMixed, ProfileGradient, ProfileInterleaved} {
		t.Run(p.String(), func(t *testing.T) {
			params := GenerateParams{
				Profile:  p,
				Size:     64 << 10,
				Seed:     42,
				Gradient: GradientParams{Unit: 256, CopyLen: 128},
				Logger:   zerolog.Nop(),
			}
			w1, err := Generate(params)
			require.NoError(t, err)
			w2, err := Generate(params)
			require.NoError(t, err)
			assert.Equal(t, params.Size, w1.Size())
			assert.Equal(t, p, w1.Profile)
			assert.True(t, bytes.Equal(w1.Data, w2.Data), "same seed must give the same bytes")

			params.Seed = 43
			w3, err := Generate(params)
			require.NoError(t, err)
			assert.False(t, bytes.Equal(w1.Data, w3.Data), "different seeds must give different bytes")
		})
	}
}

func TestMixedRegions(t *testing.T) {
	const size = 4000
	w, err := Generate(GenerateParams{Profile: ProfileMixed, Size: size, Seed: 1})
	require.NoError(t, err)
	buf := w.Data
	chunk := size / 4

	for i := chunk; i < 2*chunk; i++ {
		require.Equalf(t, mixedPattern[i%len(mixedPattern)], buf[i], "pattern byte at %d", i)
	}
	for i := 2 * chunk; i < 3*chunk; i++ {
		if i%100 < 10 {
			require.Equalf(t, byte('A'), buf[i], "run byte at %d", i)
		} else {
			require.Equalf(t, byte(i%255), buf[i], "ramp byte at %d", i)
		}
	}
	assert.Equal(t, buf[:chunk], buf[3*chunk:])
}

func TestMixedOddSizeCoversBuffer(t *testing.T) {
	for _, size := range []int{1, 2, 3, 5, 7, 1001, 4099} {
		w, err := Generate(GenerateParams{Profile: ProfileMixed, Size: size, Seed: 9})
		require.NoError(t, err)
		require.Len(t, w.Data, size)
		off := mixedDuplicateOffset(size)
		assert.Equal(t, w.Data[:size/4], w.Data[off:], "size %d", size)
	}
}

func TestProperty_MixedDuplicateRegion(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("byte at 3S/4+k equals byte at k", prop.ForAll(
		func(quarter int, seed int64) bool {
			size := 4 * quarter
			w, err := Generate(GenerateParams{Profile: ProfileMixed, Size: size, Seed: seed})
			if err != nil {
				return false
			}
			for k := 0; k < size/4; k++ {
				if w.Data[3*size/4+k] != w.Data[k] {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 16<<10),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestInterleaved(t *testing.T) {
	w, err := Generate(GenerateParams{Profile: ProfileInterleaved, Size: 1000, Seed: 5})
	require.NoError(t, err)
	for i := 1; i < len(w.Data); i += 2 {
		require.Equal(t, interleavedPattern[i%len(interleavedPattern)], w.Data[i])
	}
}
