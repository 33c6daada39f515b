package chronometer

import "time"

// Clock is the time source for local transitions.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
