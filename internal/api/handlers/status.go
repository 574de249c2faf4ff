package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/ebay-watcher/internal/monitor"
)

// StatusHandler reports coordinator health across all accounts.
type StatusHandler struct {
	registry *monitor.Registry
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(reg *monitor.Registry) *StatusHandler {
	return &StatusHandler{registry: reg}
}

// StatusOutput is the response body for the status endpoint.
type StatusOutput struct {
	Body struct {
		Accounts     []string                    `json:"accounts" doc:"Registered account names"`
		Coordinators []monitor.CoordinatorStatus `json:"coordinators" doc:"Per-coordinator health, degraded ones keep their stale snapshot"`
		Degraded     int                         `json:"degraded" doc:"Number of coordinators in persistent failure"`
	}
}

// GetStatus returns every coordinator's health.
func (h *StatusHandler) GetStatus(_ context.Context, _ *struct{}) (*StatusOutput, error) {
	statuses := h.registry.Statuses()

	degraded := 0
	for _, st := range statuses {
		if st.Degraded {
			degraded++
		}
	}

	out := &StatusOutput{}
	out.Body.Accounts = h.registry.Accounts()
	out.Body.Coordinators = statuses
	out.Body.Degraded = degraded
	return out, nil
}

// RegisterStatusRoutes registers the status endpoint with the Huma API.
func RegisterStatusRoutes(api huma.API, h *StatusHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "Get coordinator status",
		Description: "Returns per-coordinator poll health: last success, consecutive failures, and degraded flags.",
		Tags:        []string{"status"},
	}, h.GetStatus)
}
