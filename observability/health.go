package observability

import (
	"context"
	"sync"
	"time"
)

// HealthStatus represents the health state of a component or service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes the health of an individual component.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth describes the overall health of a service and its components.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// HealthChecker is implemented by components that can report their health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// NewServiceHealth creates a ServiceHealth with status up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
}

// AddComponent adds a component result. A down component takes the service
// down; a degraded one degrades it unless it is already down.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)

	switch ch.Status {
	case HealthStatusDown:
		sh.Status = HealthStatusDown
	case HealthStatusDegraded:
		if sh.Status != HealthStatusDown {
			sh.Status = HealthStatusDegraded
		}
	}
}

// PlanTracker remembers the outcome of the last planning pass. A failed
// pass degrades the planner until the next success.
type PlanTracker struct {
	mu     sync.RWMutex
	planID string
	err    error
	at     time.Time
}

// Observe records the outcome of a pass.
func (t *PlanTracker) Observe(planID string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.planID = planID
	t.err = err
	t.at = time.Now().UTC()
}

// CheckHealth implements HealthChecker.
func (t *PlanTracker) CheckHealth(context.Context) Health {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h := Health{Name: "planner", Status: HealthStatusUp}
	if t.at.IsZero() {
		h.Message = "no plan computed yet"
		return h
	}
	h.Details = map[string]string{"checked_at": t.at.Format(time.RFC3339)}
	if t.err != nil {
		h.Status = HealthStatusDegraded
		h.Message = t.err.Error()
		return h
	}
	h.Details["plan_id"] = t.planID
	return h
}
