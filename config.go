package zstdbench

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Levels is an ordered list of levels to sweep. Duplicates are kept.
type Levels []int

// maxLevelRange bounds the number of levels a single range may expand to.
const maxLevelRange = 1 << 16

// ParseLevels parses comma-separated levels and inclusive ranges,
// e.g. "1-19", "1,3,5" or "1-3,10,-5".
func ParseLevels(s string) (Levels, error) {
	var levels Levels
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		// A leading '-' is the sign of a negative level, not a range.
		if i := strings.Index(item[1:], "-"); i >= 0 {
			lo, err := strconv.Atoi(strings.TrimSpace(item[:i+1]))
			if err != nil {
				return nil, fmt.Errorf("invalid level range %q: %w", item, err)
			}
			hi, err := strconv.Atoi(strings.TrimSpace(item[i+2:]))
			if err != nil {
				return nil, fmt.Errorf("invalid level range %q: %w", item, err)
			}
			if lo > hi {
				return nil, fmt.Errorf("invalid level range %q: start exceeds end", item)
			}
			if hi-lo >= maxLevelRange {
				return nil, fmt.Errorf("invalid level range %q: cannot span more than %d levels", item, maxLevelRange)
			}
			for l := lo; l <= hi; l++ {
				levels = append(levels, l)
			}
			continue
		}
		l, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid level %q: %w", item, err)
		}
		levels = append(levels, l)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no levels in %q", s)
	}
	return levels, nil
}

// String returns levels in a form accepted by ParseLevels.
func (ls Levels) String() string {
	items := make([]string, len(ls))
	for i, l := range ls {
		items[i] = strconv.Itoa(l)
	}
	return strings.Join(items, ",")
}

// UnmarshalYAML accepts either a sequence of ints or a ParseLevels string.
func (ls *Levels) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var levels []int
		if err := value.Decode(&levels); err != nil {
			return err
		}
		*ls = levels
		return nil
	}
	parsed, err := ParseLevels(value.Value)
	if err != nil {
		return err
	}
	*ls = parsed
	return nil
}

// ByteSize is a size in bytes. It accepts plain numbers and
// human-readable values such as "512MiB" or "10 MB".
type ByteSize int

// ParseByteSize parses s into a ByteSize.
func ParseByteSize(s string) (ByteSize, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > MaxWorkloadSize {
		return 0, fmt.Errorf("size %q exceeds %s", s, humanize.IBytes(MaxWorkloadSize))
	}
	return ByteSize(n), nil
}

// String returns the IEC representation of bs.
func (bs ByteSize) String() string {
	return humanize.IBytes(uint64(bs))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (bs *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseByteSize(value.Value)
	if err != nil {
		return err
	}
	*bs = parsed
	return nil
}

// Config holds everything needed to generate a workload and sweep it.
type Config struct {
	Preset           string         `yaml:"preset"`
	Profile          Profile        `yaml:"profile"`
	Size             ByteSize       `yaml:"size"`
	Levels           Levels         `yaml:"levels"`
	Seed             int64          `yaml:"seed"`
	Input            string         `yaml:"input"`
	Compressor       string         `yaml:"compressor"`
	Gradient         GradientParams `yaml:"gradient"`
	CheckDeterminism bool           `yaml:"checkDeterminism"`
	Format           Format         `yaml:"format"`
}

// DefaultPreset is used when no preset is configured.
const DefaultPreset = "stress"

var sparseLevels = Levels{1, 3, 5, 7, 10, 15, 19}

// presets reproduce the standalone benches the harness grew out of.
// Seed 1 matches the implicit seed of C rand().
var presets = map[string]Config{
	"stress": {
		Profile: ProfileMixed,
		Size:    1 << 30,
		Levels:  Levels{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19},
		Seed:    1,
	},
	"gradient": {
		Profile: ProfileGradient,
		Size:    512 << 20,
		Levels:  sparseLevels,
		Seed:    1,
	},
	"wav": {
		Profile: ProfileExternal,
		Input:   "File.wav",
		Levels:  sparseLevels,
	},
	"profiler": {
		Profile: ProfileInterleaved,
		Size:    10 << 20,
		Levels:  Levels{1, 19},
		Seed:    1,
	},
}

// Presets returns the sorted preset names.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetConfig returns a copy of the named preset. Presets check that
// every level compresses to the same size twice.
func PresetConfig(name string) (Config, error) {
	p, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown preset %q; available: %v", name, Presets())
	}
	cfg := p
	cfg.Preset = name
	cfg.Levels = append(Levels(nil), p.Levels...)
	cfg.Compressor = DefaultCompressor
	cfg.CheckDeterminism = true
	return cfg, nil
}

// LoadConfig reads a YAML config file. Fields missing from the file keep
// the values of the preset it names, or of DefaultPreset.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data the same way LoadConfig does.
func ParseConfig(data []byte) (Config, error) {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("cannot parse config: %w", err)
	}
	if head.Preset == "" {
		head.Preset = DefaultPreset
	}
	cfg, err := PresetConfig(head.Preset)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks that cfg can be run.
func (cfg *Config) Validate() error {
	if len(cfg.Levels) == 0 {
		return errors.New("invalid config: no levels to sweep")
	}
	switch cfg.Profile {
	case ProfileExternal:
		if cfg.Input == "" {
			return errors.New("invalid config: external profile requires an input path")
		}
	case ProfileMixed, ProfileGradient, ProfileInterleaved:
		if cfg.Size <= 0 {
			return fmt.Errorf("invalid config: size must be positive; got %d", cfg.Size)
		}
	default:
		return fmt.Errorf("invalid config: unknown profile %s", cfg.Profile)
	}
	if cfg.Profile == ProfileGradient {
		if _, err := cfg.Gradient.withDefaults(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}

// GenerateParams returns the generator parameters for cfg.
func (cfg *Config) GenerateParams(log zerolog.Logger) GenerateParams {
	return GenerateParams{
		Profile:  cfg.Profile,
		Size:     int(cfg.Size),
		Seed:     cfg.Seed,
		Source:   cfg.Input,
		Gradient: cfg.Gradient,
		Logger:   log,
	}
}
