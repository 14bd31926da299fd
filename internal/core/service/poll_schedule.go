package service

import "time"

// PollSchedule keeps the next poll on a fixed grid of interval steps.
// The first poll is due immediately.
type PollSchedule struct {
	Interval time.Duration
	next     time.Time
}

func NewPollSchedule(interval time.Duration, now time.Time) *PollSchedule {
	return &PollSchedule{
		Interval: interval,
		next:     now,
	}
}

func (s *PollSchedule) Next() time.Time {
	return s.next
}

func (s *PollSchedule) Due(now time.Time) bool {
	return !now.Before(s.next)
}

// Until is the time left before the next poll, never negative.
func (s *PollSchedule) Until(now time.Time) time.Duration {
	return max(0, s.next.Sub(now))
}

// Advance moves the cursor one interval forward. When the cursor is already
// in the past it is moved to now+interval instead and true is returned.
func (s *PollSchedule) Advance(now time.Time) bool {
	s.next = s.next.Add(s.Interval)
	if s.next.Before(now) {
		s.next = now.Add(s.Interval)
		return true
	}
	return false
}

// Reset makes a poll due at now.
func (s *PollSchedule) Reset(now time.Time) {
	s.next = now
}
