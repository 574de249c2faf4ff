package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ebay-watcher/internal/api/handlers"
	"github.com/donaldgifford/ebay-watcher/internal/monitor"
)

func TestGetStatus(t *testing.T) {
	t.Parallel()

	reg, _ := newTestRegistry(t)
	_, api := humatest.New(t)
	handlers.RegisterStatusRoutes(api, handlers.NewStatusHandler(reg))

	resp := api.Get("/api/v1/status")
	require.Equal(t, http.StatusOK, resp.Code)

	var out struct {
		Accounts     []string                    `json:"accounts"`
		Coordinators []monitor.CoordinatorStatus `json:"coordinators"`
		Degraded     int                         `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))

	assert.Equal(t, []string{"alice"}, out.Accounts)
	require.Len(t, out.Coordinators, 3)
	assert.Equal(t, 0, out.Degraded)

	// Fixed coordinators in kind order, all healthy.
	kinds := make([]string, 0, 3)
	for _, st := range out.Coordinators {
		assert.Equal(t, "alice", st.Account)
		assert.False(t, st.Degraded)
		kinds = append(kinds, st.Source.String())
	}
	assert.Equal(t, []string{"bids", "purchases", "watchlist"}, kinds)
}
