package poller

import "time"

// Clock abstracts timer scheduling so the polling state machine can be
// tested without real delays.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// NewClock returns the wall clock.
func NewClock() Clock {
	return realClock{}
}
