package ragdex

import (
	"context"
	"fmt"
	"sort"
	"strings"

	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
)

// HealthReport is the per-component health, as served by GET /health.
type HealthReport = healthuc.Report

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Health probes the database and the claims index.
func (c *Client) Health(ctx context.Context) HealthReport {
	return c.healthSvc.Check(ctx)
}

// Ready returns nil only when every component reports ok. The error names
// the failing components, e.g. "ragdex: degraded (index=missing)".
func (c *Client) Ready(ctx context.Context) error {
	r := c.healthSvc.Check(ctx)
	if r.Status == healthuc.Healthy {
		return nil
	}
	var bad []string
	for name, res := range r.Checks {
		if res != healthuc.CheckOK {
			bad = append(bad, name+"="+string(res))
		}
	}
	sort.Strings(bad)
	return fmt.Errorf("ragdex: %s (%s)", r.Status, strings.Join(bad, ", "))
}
