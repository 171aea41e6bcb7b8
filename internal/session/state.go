package session

import "time"

// State is the phase of a practice round: NotStarted, InProgress or Completed.
type State interface {
	isState()
}

// NotStarted is a fresh round with nothing typed yet.
type NotStarted struct{}

// InProgress is a round whose timer is running.
type InProgress struct {
	StartedAt time.Time
}

// Completed is a round whose input matched the target. It is terminal until
// Restart.
type Completed struct {
	StartedAt time.Time
	Elapsed   time.Duration
	NewBest   bool
}

func (NotStarted) isState() {}
func (InProgress) isState() {}
func (Completed) isState()  {}

// roundElapsed rounds to hundredths of a second, the precision best times are
// kept at.
func roundElapsed(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d.Round(10 * time.Millisecond)
}
