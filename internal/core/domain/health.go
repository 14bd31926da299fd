package domain

import "time"

type HealthState int32

const (
	HealthOK HealthState = iota
	HealthDegraded
	HealthFailed
)

func (s HealthState) String() string {
	switch s {
	case HealthOK:
		return "ok"
	case HealthDegraded:
		return "degraded"
	case HealthFailed:
		return "failed"
	}
	return "unknown"
}

// PollCompleted is published on the event stream after every poll.
type PollCompleted struct {
	At       time.Time
	State    HealthState
	Failures int
	// Fresh holds only what this poll obtained.
	Fresh Dataset
	// Data is the last known value of every kind.
	Data Dataset
}

type ScreenShown struct {
	Name    string
	Backend string
	At      time.Time
}

type SleepStateChanged struct {
	Sleeping bool
	At       time.Time
}
