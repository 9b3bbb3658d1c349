package engine

import "fmt"

const (
	MinHashMB  = 1
	MaxHashMB  = 1 << 16
	MinThreads = 1
	MaxThreads = 256
)

// Options configures an Engine. The zero value is invalid; start from DefaultOptions.
type Options struct {
	// HashMB is the transposition table budget in megabytes. The table uses the largest
	// power-of-two slot count that fits.
	HashMB int
	// Threads is the number of lazy SMP workers, including the reporting worker.
	Threads int
}

func DefaultOptions() Options {
	return Options{HashMB: 64, Threads: 1}
}

func (o Options) Validate() error {
	if o.HashMB < MinHashMB || o.HashMB > MaxHashMB {
		return fmt.Errorf("%w: hash %d MB not in [%d, %d]", ErrInvalidOptions, o.HashMB, MinHashMB, MaxHashMB)
	}
	if o.Threads < MinThreads || o.Threads > MaxThreads {
		return fmt.Errorf("%w: threads %d not in [%d, %d]", ErrInvalidOptions, o.Threads, MinThreads, MaxThreads)
	}
	return nil
}
