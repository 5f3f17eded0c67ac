// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"tally/internal/core/version"
	"tally/internal/modkit/httpkit"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	Pending     func() int
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/healthz", h.healthz)
	httpkit.Get(r, "/version", h.version)
}

// HealthCheck describes a single dependency check
type HealthCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// HealthResponse summarizes service health and dependency state
type HealthResponse struct {
	Status  string        `json:"status"  example:"ok"` // ok degraded fail
	Service string        `json:"service" example:"tally-api"`
	Started string        `json:"started" example:"2026-01-01T13:00:00Z"`
	Now     string        `json:"now"     example:"2026-01-01T13:05:00Z"`
	Pending int           `json:"pending_actions"`
	Checks  []HealthCheck `json:"checks"`
}

// swagger:route GET /meta/healthz Meta metaHealthz
// @Summary Health probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/healthz [get]
func (h *handlers) healthz(_ *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 2*time.Second)
	defer cancel()

	check := func(name string, c any) HealthCheck {
		if c == nil {
			return HealthCheck{Name: name, Status: "skipped"}
		}
		if p, ok := c.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return HealthCheck{Name: name, Status: "fail", Error: err.Error()}
			}
			return HealthCheck{Name: name, Status: "ok"}
		}
		return HealthCheck{Name: name, Status: "unknown"}
	}

	pg := check("pg", h.deps.PG)
	ch := check("ch", h.deps.CH)

	overall := "ok"
	if pg.Status == "fail" || ch.Status == "fail" {
		overall = "fail"
	}

	pending := 0
	if h.deps.Pending != nil {
		pending = h.deps.Pending()
	}

	return HealthResponse{
		Status:  overall,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
		Pending: pending,
		Checks:  []HealthCheck{pg, ch},
	}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}
