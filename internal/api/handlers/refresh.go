package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/ebay-watcher/internal/monitor"
)

// RefreshHandler exposes manual refresh triggers. Triggers are
// fire-and-continue: the response returns before the polls complete.
type RefreshHandler struct {
	registry *monitor.Registry
}

// NewRefreshHandler creates a new RefreshHandler.
func NewRefreshHandler(reg *monitor.Registry) *RefreshHandler {
	return &RefreshHandler{registry: reg}
}

// RefreshOutput is the response body for refresh endpoints.
type RefreshOutput struct {
	Body struct {
		Status string `json:"status" example:"triggered"`
	}
}

func triggered() *RefreshOutput {
	out := &RefreshOutput{}
	out.Body.Status = "triggered"
	return out
}

// RefreshAll triggers an immediate tick on every coordinator.
func (h *RefreshHandler) RefreshAll(_ context.Context, _ *struct{}) (*RefreshOutput, error) {
	h.registry.RefreshAll()
	return triggered(), nil
}

// RefreshAccountInput identifies the account.
type RefreshAccountInput struct {
	Account string `path:"account" doc:"Account name"`
}

// RefreshAccount triggers an immediate tick on every coordinator belonging
// to the account.
func (h *RefreshHandler) RefreshAccount(_ context.Context, input *RefreshAccountInput) (*RefreshOutput, error) {
	if err := h.registry.RefreshAccount(input.Account); err != nil {
		return nil, mapRegistryError(err)
	}
	return triggered(), nil
}

// RefreshSourceInput identifies one data source within the account.
type RefreshSourceInput struct {
	Account string `path:"account" doc:"Account name"`
	Source  string `path:"source" doc:"bids, watchlist, purchases, or search:<id>"`
}

// RefreshSource triggers an immediate tick on one coordinator.
func (h *RefreshHandler) RefreshSource(_ context.Context, input *RefreshSourceInput) (*RefreshOutput, error) {
	src, err := parseSource(input.Source)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	if err := h.registry.RefreshSource(input.Account, src.Kind, src.SearchID); err != nil {
		return nil, mapRegistryError(err)
	}
	return triggered(), nil
}

// RegisterRefreshRoutes registers refresh endpoints with the Huma API.
func RegisterRefreshRoutes(api huma.API, h *RefreshHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "refresh-all",
		Method:        http.MethodPost,
		Path:          "/api/v1/refresh",
		Summary:       "Refresh all accounts",
		Description:   "Triggers an immediate poll on every coordinator. Returns before the polls complete.",
		Tags:          []string{"refresh"},
		DefaultStatus: http.StatusAccepted,
	}, h.RefreshAll)

	huma.Register(api, huma.Operation{
		OperationID:   "refresh-account",
		Method:        http.MethodPost,
		Path:          "/api/v1/accounts/{account}/refresh",
		Summary:       "Refresh one account",
		Tags:          []string{"refresh"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusNotFound},
	}, h.RefreshAccount)

	huma.Register(api, huma.Operation{
		OperationID:   "refresh-source",
		Method:        http.MethodPost,
		Path:          "/api/v1/accounts/{account}/refresh/{source}",
		Summary:       "Refresh one data source",
		Tags:          []string{"refresh"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.RefreshSource)
}
