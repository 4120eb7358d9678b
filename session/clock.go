package session

import "time"

// Timer is a cancellable pending callback. Stop reports false when the timer
// already fired; stopping a fired timer is a no-op.
type Timer interface {
	Stop() bool
}

// Clock abstracts time for the Manager so tests can fake the scheduled
// silent refresh instead of waiting on real timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type systemClock struct{}

// NewSystemClock returns the wall-clock Clock used outside of tests.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
