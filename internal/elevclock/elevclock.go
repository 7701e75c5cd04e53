package elevclock

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var ErrConfiguration = errors.New("configuration error")

// Clock is the part of clockwork.Clock the simulation waits on. Production
// runs on the real clock, tests on clockwork's fake clock.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

func NewRealClock() Clock {
	return clockwork.NewRealClock()
}

// Timing is the pair of delays a car uses for one tick.
type Timing struct {
	Travel time.Duration
	Door   time.Duration
}

func (t Timing) Validate() error {
	if t.Travel <= 0 || t.Door <= 0 {
		return fmt.Errorf("%w: travel %v and door %v must be positive", ErrConfiguration, t.Travel, t.Door)
	}
	return nil
}

// Speed is the process-wide operation speed. Cars take a Timing snapshot at
// the start of each tick, so a change only affects the next tick.
type Speed struct {
	mu     sync.RWMutex
	timing Timing
}

func NewSpeed(timing Timing) (*Speed, error) {
	if err := timing.Validate(); err != nil {
		return nil, err
	}
	return &Speed{timing: timing}, nil
}

func (s *Speed) Set(timing Timing) error {
	if err := timing.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.timing = timing
	s.mu.Unlock()
	return nil
}

// SetMillis is Set for callers that think in milliseconds.
func (s *Speed) SetMillis(travelMs, doorMs int) error {
	return s.Set(Timing{
		Travel: time.Duration(travelMs) * time.Millisecond,
		Door:   time.Duration(doorMs) * time.Millisecond,
	})
}

func (s *Speed) Timing() Timing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timing
}

// Scale multiplies both delays by factor, keeping them at least a millisecond.
func (s *Speed) Scale(factor float64) Timing {
	s.mu.Lock()
	defer s.mu.Unlock()
	scale := func(d time.Duration) time.Duration {
		scaled := time.Duration(float64(d) * factor)
		if scaled < time.Millisecond {
			return time.Millisecond
		}
		return scaled
	}
	s.timing = Timing{Travel: scale(s.timing.Travel), Door: scale(s.timing.Door)}
	return s.timing
}
