package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component failed.
	Degraded Status = "degraded"
	// Unhealthy indicates the document store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in a Report.
const (
	ComponentStore = "store"
	ComponentCache = "cache"
)

const checkTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	store Pinger
	cache Pinger
}

// New creates a Service. cache can be nil.
func New(store, cache Pinger) *Service {
	return &Service{store: store, cache: cache}
}

// Check pings every component. A store failure is Unhealthy since no
// request can be served; a cache failure only degrades.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	checks := map[string]CheckResult{ComponentStore: ping(ctx, s.store)}
	if s.cache != nil {
		checks[ComponentCache] = ping(ctx, s.cache)
	}

	status := Healthy
	switch {
	case checks[ComponentStore] == CheckError:
		status = Unhealthy
	case checks[ComponentCache] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func ping(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
