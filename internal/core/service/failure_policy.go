package service

import "github.com/berfenger/solaredge2eink/internal/core/domain"

const DEFAULT_FAILURE_THRESHOLD = 3

// FailurePolicy counts consecutive polls without energy data.
type FailurePolicy struct {
	Threshold int
	failures  int
}

func NewFailurePolicy(threshold int) *FailurePolicy {
	if threshold < 1 {
		threshold = DEFAULT_FAILURE_THRESHOLD
	}
	return &FailurePolicy{Threshold: threshold}
}

func (p *FailurePolicy) RecordSuccess() domain.HealthState {
	p.failures = 0
	return p.State()
}

func (p *FailurePolicy) RecordFailure() domain.HealthState {
	p.failures++
	return p.State()
}

func (p *FailurePolicy) Failures() int {
	return p.failures
}

func (p *FailurePolicy) State() domain.HealthState {
	switch {
	case p.failures == 0:
		return domain.HealthOK
	case p.failures < p.Threshold:
		return domain.HealthDegraded
	default:
		return domain.HealthFailed
	}
}
