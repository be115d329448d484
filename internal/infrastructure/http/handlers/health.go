package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

const readinessTimeout = 3 * time.Second

// HealthHandler serves GET /health. The catalog process answering at all is
// the whole check.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Dependency is a backing service of the catalog: the record store driver or
// the Redis submission guard. An optional one is reported but never makes the
// catalog unready.
type Dependency struct {
	Name     string
	Pinger   ports.Pinger
	Optional bool
}

// HealthDependenciesHandler serves GET /health/ready.
type HealthDependenciesHandler struct {
	deps    []Dependency
	timeout time.Duration
}

// NewHealthDependenciesHandler checks deps in name order.
func NewHealthDependenciesHandler(deps ...Dependency) *HealthDependenciesHandler {
	sorted := append([]Dependency(nil), deps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &HealthDependenciesHandler{deps: sorted, timeout: readinessTimeout}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness pings every dependency under one shared deadline. The catalog is
// "degraded" (503) when the record store or any other required dependency
// fails.
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	resp := readinessResponse{Status: "ok", Dependencies: make(map[string]dependencyStatus, len(h.deps))}
	code := http.StatusOK
	for _, d := range h.deps {
		err := d.Pinger.Ping(ctx)
		if err == nil {
			resp.Dependencies[d.Name] = dependencyStatus{Status: "ok"}
			continue
		}
		resp.Dependencies[d.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		if !d.Optional {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	return c.JSON(code, resp)
}
