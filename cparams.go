package zstdbench

import "fmt"

// Strategy is a zstd match-finding strategy. Only the order, from fast to
// strong, is meaningful.
type Strategy int

const (
	StrategyFast Strategy = iota + 1
	StrategyDFast
	StrategyGreedy
	StrategyLazy
	StrategyLazy2
	StrategyBtLazy2
	StrategyBtOpt
	StrategyBtUltra
	StrategyBtUltra2
)

// String returns the zstd name of s.
func (s Strategy) String() string {
	switch s {
	case StrategyFast:
		return "fast"
	case StrategyDFast:
		return "dfast"
	case StrategyGreedy:
		return "greedy"
	case StrategyLazy:
		return "lazy"
	case StrategyLazy2:
		return "lazy2"
	case StrategyBtLazy2:
		return "btlazy2"
	case StrategyBtOpt:
		return "btopt"
	case StrategyBtUltra:
		return "btultra"
	case StrategyBtUltra2:
		return "btultra2"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// CParams are the compression parameters zstd derives from a level.
type CParams struct {
	// Maximum back-reference distance, as a power of 2.
	WindowLog int

	// Size of the multi-probe search table, as a power of 2.
	ChainLog int

	// Size of the initial probe table, as a power of 2.
	HashLog int

	// Number of search attempts, as a power of 2.
	SearchLog int

	// Minimum size of searched matches.
	MinMatch int

	// Match length considered good enough to stop the search.
	TargetLength int

	Strategy Strategy
}

// WindowSize returns the window in bytes.
func (cp CParams) WindowSize() int {
	return 1 << cp.WindowLog
}

// MaxCLevel is the strongest zstd level.
const MaxCLevel = 22

// defaultCParams is libzstd's level table for inputs above 256 KiB.
// Index 0 is the base for negative levels.
var defaultCParams = [MaxCLevel + 1]CParams{
	{19, 12, 13, 1, 6, 1, StrategyFast},
	{19, 13, 14, 1, 7, 0, StrategyFast},
	{20, 15, 16, 1, 6, 0, StrategyFast},
	{21, 16, 17, 1, 5, 0, StrategyDFast},
	{21, 18, 18, 1, 5, 0, StrategyDFast},
	{21, 18, 19, 3, 5, 2, StrategyGreedy},
	{21, 18, 19, 3, 5, 4, StrategyLazy},
	{21, 19, 20, 4, 5, 8, StrategyLazy},
	{21, 19, 20, 4, 5, 16, StrategyLazy2},
	{22, 20, 21, 4, 5, 16, StrategyLazy2},
	{22, 21, 22, 5, 5, 16, StrategyLazy2},
	{22, 21, 22, 6, 5, 16, StrategyLazy2},
	{22, 22, 23, 6, 5, 32, StrategyLazy2},
	{22, 22, 22, 4, 5, 32, StrategyBtLazy2},
	{22, 22, 23, 5, 5, 32, StrategyBtLazy2},
	{22, 23, 23, 6, 5, 32, StrategyBtLazy2},
	{22, 22, 22, 5, 5, 48, StrategyBtOpt},
	{23, 23, 22, 5, 4, 64, StrategyBtOpt},
	{23, 23, 22, 6, 3, 64, StrategyBtUltra},
	{23, 24, 22, 7, 3, 256, StrategyBtUltra2},
	{25, 25, 23, 7, 3, 256, StrategyBtUltra2},
	{26, 26, 24, 7, 3, 512, StrategyBtUltra2},
	{27, 27, 25, 9, 3, 999, StrategyBtUltra2},
}

// LevelParams returns the parameters zstd uses for the given level on
// large inputs. Levels at or below zero use the negative-level base row.
func LevelParams(level int) (CParams, error) {
	if level > MaxCLevel {
		return CParams{}, fmt.Errorf("level %d exceeds max level %d", level, MaxCLevel)
	}
	if level < 0 {
		level = 0
	}
	return defaultCParams[level], nil
}
