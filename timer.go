package zstdbench

import "time"

// Clock is a monotonic time source used for timing compress calls.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now, which carries a monotonic reading
// unaffected by wall-clock adjustments.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

func elapsed(start, end time.Time) time.Duration {
	return end.Sub(start)
}
