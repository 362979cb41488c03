package zstdbench

import (
	"fmt"
	"math/rand"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Profile describes how a workload is constructed.
type Profile int

const (
	// ProfileMixed splits the buffer into random, short-pattern,
	// run-biased and long-distance-copy regions.
	ProfileMixed Profile = iota

	// ProfileGradient injects duplicate blocks at near, medium and far
	// distances into low-entropy noise.
	ProfileGradient

	// ProfileExternal loads the buffer verbatim from a file.
	ProfileExternal

	// ProfileInterleaved alternates random bytes with a short repeating text.
	ProfileInterleaved
)

// String returns the string representation of Profile
func (p Profile) String() string {
	switch p {
	case ProfileMixed:
		return "mixed"
	case ProfileGradient:
		return "gradient"
	case ProfileExternal:
		return "external"
	case ProfileInterleaved:
		return "interleaved"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ParseProfile parses a string into Profile
func ParseProfile(s string) (Profile, error) {
	switch s {
	case "mixed":
		return ProfileMixed, nil
	case "gradient":
		return ProfileGradient, nil
	case "external":
		return ProfileExternal, nil
	case "interleaved":
		return ProfileInterleaved, nil
	default:
		return ProfileMixed, fmt.Errorf("invalid profile: %q (must be 'mixed', 'gradient', 'external' or 'interleaved')", s)
	}
}

// MarshalText implements encoding.TextMarshaler for Profile
func (p Profile) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for Profile
func (p *Profile) UnmarshalText(data []byte) error {
	parsed, err := ParseProfile(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MaxWorkloadSize is the largest workload Generate will allocate.
const MaxWorkloadSize = 16 << 30

// Workload is a fully initialized source buffer together with the
// profile it was built from.
//
// Data must not be modified once Generate returns it.
type Workload struct {
	Profile Profile
	Data    []byte

	// Seed used for synthetic filler. Zero for external workloads.
	Seed int64

	// Source is the file path for external workloads.
	Source string
}

// Size returns the number of meaningful bytes in w.
func (w *Workload) Size() int {
	return len(w.Data)
}

// GenerateParams configures Generate.
type GenerateParams struct {
	Profile Profile

	// Size is the target buffer size. Ignored for ProfileExternal.
	Size int

	// Seed for the pseudo-random filler of synthetic profiles.
	Seed int64

	// Source is the input path for ProfileExternal.
	Source string

	// Gradient tunes ProfileGradient. Zero fields take defaults.
	Gradient GradientParams

	// Logger receives progress and warnings. The zero value discards them.
	Logger zerolog.Logger
}

// Generate builds a workload according to p.
func Generate(p GenerateParams) (*Workload, error) {
	if p.Profile == ProfileExternal {
		return loadExternal(p.Source, p.Logger)
	}
	if p.Size <= 0 {
		return nil, ErrInvalidSize
	}
	if int64(p.Size) > MaxWorkloadSize {
		return nil, &AllocationError{What: "workload buffer", Size: int64(p.Size)}
	}

	log := p.Logger.With().Str("profile", p.Profile.String()).Logger()
	log.Info().
		Str("size", humanize.IBytes(uint64(p.Size))).
		Int64("seed", p.Seed).
		Msg("generating workload")

	buf := make([]byte, p.Size)
	rng := rand.New(rand.NewSource(p.Seed))
	switch p.Profile {
	case ProfileMixed:
		fillMixed(buf, rng, log)
	case ProfileGradient:
		gp, err := p.Gradient.withDefaults()
		if err != nil {
			return nil, err
		}
		fillGradient(buf, rng, gp, log)
	case ProfileInterleaved:
		fillInterleaved(buf, rng)
	default:
		return nil, fmt.Errorf("cannot generate workload for profile %s", p.Profile)
	}

	return &Workload{
		Profile: p.Profile,
		Data:    buf,
		Seed:    p.Seed,
	}, nil
}
