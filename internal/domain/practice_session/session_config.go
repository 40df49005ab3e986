package practicesession

import "fmt"

// Filter narrows the pool before mode-specific handling.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterWrong    Filter = "wrong"
	FilterFavorite Filter = "favorite"
)

// Mode decides topic narrowing, final ordering and resumability.
type Mode string

const (
	ModeSequential Mode = "order"
	ModeShuffle    Mode = "shuffle"
	ModeTopic      Mode = "topic"
)

// SessionConfig holds the selection inputs for a practice session.
type SessionConfig struct {
	Filter      Filter
	Mode        Mode
	Topic       string       // topic root, only read in ModeTopic
	SampleSize  *int         // nil = the whole narrowed set
	WrongIDs    map[int]bool // consulted for FilterWrong
	FavoriteIDs map[int]bool // consulted for FilterFavorite
}

// DefaultConfig returns a sequential session over every question.
func DefaultConfig() SessionConfig {
	return SessionConfig{
		Filter:     FilterAll,
		Mode:       ModeSequential,
		SampleSize: nil,
	}
}

// Validate rejects unknown filters and modes. An empty filter means all.
func (c SessionConfig) Validate() error {
	switch c.Filter {
	case "", FilterAll, FilterWrong, FilterFavorite:
	default:
		return fmt.Errorf("unknown filter %q", c.Filter)
	}
	switch c.Mode {
	case ModeSequential, ModeShuffle, ModeTopic:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	return nil
}

const (
	DefaultSampleSize = 5
	MaxSampleSize     = 200
)

// ClampSampleSize limits a requested sample to 1..MaxSampleSize; zero or
// negative requests get DefaultSampleSize.
func ClampSampleSize(n int) int {
	switch {
	case n <= 0:
		return DefaultSampleSize
	case n > MaxSampleSize:
		return MaxSampleSize
	}
	return n
}

// IDSet builds a membership set from a list of ids.
func IDSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
