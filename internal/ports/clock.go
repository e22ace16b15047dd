package ports

import "time"

// Clock abstracts the wall clock so services stay testable. The simulated
// clock is a domain concern; this one only feeds timestamps like
// Snapshot.LastUpdated and scenario start-time fallback.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
