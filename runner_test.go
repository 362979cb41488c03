package zstdbench

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepMixedFastAndStrong(t *testing.T) {
	const size = 1 << 20
	w, err := Generate(GenerateParams{Profile: ProfileMixed, Size: size, Seed: 1})
	require.NoError(t, err)

	r := &Runner{Compressor: NewZstdCompressor()}
	records, err := r.Run(w, []int{1, 19})
	require.NoError(t, err)
	require.Len(t, records, 2)

	for i, level := range []int{1, 19} {
		rec := records[i]
		require.NoError(t, rec.Err, "level %d", level)
		assert.Equal(t, level, rec.Level)
		assert.Equal(t, size, rec.SourceSize)
		assert.Less(t, rec.CompressedSize, size)
		assert.Greater(t, rec.Ratio(), 1.0)
		assert.Greater(t, rec.Elapsed.Nanoseconds(), int64(0), "elapsed time must be strictly positive")
	}
}

func TestSweepOutOfRangeLevel(t *testing.T) {
	w, err := Generate(GenerateParams{Profile: ProfileMixed, Size: 64 << 10, Seed: 1})
	require.NoError(t, err)

	r := &Runner{Compressor: NewZstdCompressor()}
	records, err := r.Run(w, []int{1, 999})
	require.NoError(t, err, "a failing level must not abort the sweep")
	require.Len(t, records, 2)

	assert.False(t, records[0].Failed())
	assert.Equal(t, 1, records[0].Level)

	require.True(t, records[1].Failed())
	var le *LevelError
	require.ErrorAs(t, records[1].Err, &le)
	assert.Equal(t, 999, le.Level)
	assert.Equal(t, errNameParameterOutOfBound, records[1].ErrorName())
	assert.Zero(t, records[1].CompressedSize)
}

func TestSweepKeepsOrderAndDuplicates(t *testing.T) {
	c := &fakeCompressor{sizes: []int{10}, maxLevel: 19}
	r := &Runner{Compressor: c}
	levels := []int{5, 1, 20, 5}

	records, err := r.Run(newTestWorkload(100), levels)
	require.NoError(t, err)
	require.Len(t, records, len(levels))
	for i, level := range levels {
		assert.Equal(t, level, records[i].Level)
	}
	assert.True(t, records[2].Failed())
	assert.Equal(t, []int{5, 1, 5}, c.calls)
}

func TestSweepIsLazyAndSingleUse(t *testing.T) {
	c := &fakeCompressor{sizes: []int{10}, maxLevel: 19}
	r := &Runner{Compressor: c}
	s := r.Sweep(newTestWorkload(100), []int{1, 2})
	assert.NotEmpty(t, s.ID())
	assert.Empty(t, c.calls, "nothing runs before Next")

	require.True(t, s.Next())
	assert.Equal(t, 1, s.Record().Level)
	assert.Equal(t, []int{1}, c.calls)

	require.True(t, s.Next())
	assert.Equal(t, 2, s.Record().Level)

	assert.False(t, s.Next())
	assert.False(t, s.Next(), "a finished sweep cannot be restarted")
	assert.NoError(t, s.Err())
	assert.Len(t, c.calls, 2)
}

func TestSweepEmptyWorkload(t *testing.T) {
	c := &fakeCompressor{sizes: []int{10}, maxLevel: 19}
	r := &Runner{Compressor: c}
	records, err := r.Run(&Workload{}, []int{1})
	assert.ErrorIs(t, err, ErrInvalidSize)
	assert.Empty(t, records)
	assert.Empty(t, c.calls)
}

type hugeBoundCompressor struct {
	fakeCompressor
}

func (hugeBoundCompressor) CompressBound(int) int { return -1 }

func TestSweepBoundOverflow(t *testing.T) {
	r := &Runner{Compressor: &hugeBoundCompressor{}}
	_, err := r.Run(newTestWorkload(100), []int{1})
	var ae *AllocationError
	assert.ErrorAs(t, err, &ae)
}

func TestSweepDetectsNondeterminism(t *testing.T) {
	c := &fakeCompressor{sizes: []int{10, 11}, maxLevel: 19}
	r := &Runner{Compressor: c, CheckDeterminism: true}
	records, err := r.Run(newTestWorkload(100), []int{3})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, errors.Is(records[0].Err, ErrNondeterministic))
	assert.Equal(t, ErrNondeterministic.Error(), records[0].ErrorName())
}

func TestSweepDeterministicCompressedSize(t *testing.T) {
	for _, name := range Compressors() {
		t.Run(name, func(t *testing.T) {
			c, err := NewCompressor(name)
			require.NoError(t, err)
			lo, hi := c.LevelRange()
			levels := []int{max(lo, 1), min(hi, 9)}

			w, err := Generate(GenerateParams{
				Profile:  ProfileGradient,
				Size:     256 << 10,
				Seed:     1,
				Gradient: GradientParams{Unit: 1 << 10, CopyLen: 512},
			})
			require.NoError(t, err)

			r := &Runner{Compressor: c, CheckDeterminism: true}
			records, err := r.Run(w, levels)
			require.NoError(t, err)
			for _, rec := range records {
				assert.NoError(t, rec.Err, "level %d", rec.Level)
			}
		})
	}
}

func TestSweepRatioAtLeastOneForSyntheticProfiles(t *testing.T) {
	for _, p := range []Profile{ProfileMixed, ProfileGradient} {
		t.Run(p.String(), func(t *testing.T) {
			w, err := Generate(GenerateParams{
				Profile:  p,
				Size:     512 << 10,
				Seed:     11,
				Gradient: GradientParams{Unit: 4 << 10, CopyLen: 2 << 10},
			})
			require.NoError(t, err)

			r := &Runner{Compressor: NewZstdCompressor()}
			records, err := r.Run(w, []int{1, 3, 7})
			require.NoError(t, err)
			for _, rec := range records {
				require.NoError(t, rec.Err)
				assert.GreaterOrEqual(t, rec.Ratio(), 1.0, "level %d", rec.Level)
			}
		})
	}
}
