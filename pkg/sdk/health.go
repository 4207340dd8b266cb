package mediadex

import (
	"context"

	healthuc "github.com/kailas-cloud/mediadex/internal/usecase/health"
)

// HealthStatus is the aggregated state of the store and the optional cache.
type HealthStatus struct {
	Status string            // "ok", "degraded" or "error"
	Checks map[string]string // "store", "cache" → "ok" or "error"
}

// Serving reports whether searches can be answered. A degraded client
// (cache down) still serves from the store.
func (h HealthStatus) Serving() bool {
	return h.Status != string(healthuc.Unhealthy)
}

// Health pings the store and, when configured, the cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	out := HealthStatus{
		Status: string(report.Status),
		Checks: make(map[string]string, len(report.Checks)),
	}
	for name, res := range report.Checks {
		out.Checks[name] = string(res)
	}
	return out
}
