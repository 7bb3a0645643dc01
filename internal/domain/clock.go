package domain

import "time"

// Clock supplies the current time to the engine. Injected so lifecycle
// checks are deterministic in tests. All times are UTC.
type Clock interface {
	Now() time.Time
}

// UTCClock is the production Clock backed by the system time.
type UTCClock struct{}

func (UTCClock) Now() time.Time {
	return time.Now().UTC()
}
