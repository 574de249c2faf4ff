package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/ebay-watcher/internal/monitor"
	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// SearchesHandler handles saved-search CRUD operations.
type SearchesHandler struct {
	registry *monitor.Registry
}

// NewSearchesHandler creates a new SearchesHandler.
func NewSearchesHandler(reg *monitor.Registry) *SearchesHandler {
	return &SearchesHandler{registry: reg}
}

// SearchBody is the user-settable portion of a search definition.
type SearchBody struct {
	SearchQuery    string   `json:"search_query" minLength:"1" doc:"Query text" example:"vintage camera"`
	Site           string   `json:"site,omitempty" doc:"eBay site code or global ID" example:"uk"`
	CategoryID     string   `json:"category_id,omitempty" doc:"eBay category ID" example:"625"`
	MinPrice       *float64 `json:"min_price,omitempty" doc:"Minimum price filter"`
	MaxPrice       *float64 `json:"max_price,omitempty" doc:"Maximum price filter"`
	ListingType    string   `json:"listing_type,omitempty" enum:"auction,buy_it_now,both" doc:"Listing format filter (default both)"`
	UpdateInterval int      `json:"update_interval,omitempty" minimum:"0" doc:"Poll interval in minutes (default 15)"`
}

func (b SearchBody) toDefinition() domain.SearchDefinition {
	return domain.SearchDefinition{
		SearchQuery:    b.SearchQuery,
		Site:           b.Site,
		CategoryID:     b.CategoryID,
		MinPrice:       b.MinPrice,
		MaxPrice:       b.MaxPrice,
		ListingType:    domain.ListingType(b.ListingType),
		UpdateInterval: b.UpdateInterval,
	}
}

// ListSearchesInput identifies the account.
type ListSearchesInput struct {
	Account string `path:"account" doc:"Account name"`
}

// ListSearchesOutput is the response body for the list endpoint.
type ListSearchesOutput struct {
	Body struct {
		Searches []domain.SearchDefinition `json:"searches" doc:"Persisted search definitions"`
		Total    int                       `json:"total" doc:"Number of searches"`
	}
}

// List returns the account's saved searches.
func (h *SearchesHandler) List(_ context.Context, input *ListSearchesInput) (*ListSearchesOutput, error) {
	defs, err := h.registry.ListSearches(input.Account)
	if err != nil {
		return nil, mapRegistryError(err)
	}
	if defs == nil {
		defs = []domain.SearchDefinition{}
	}

	out := &ListSearchesOutput{}
	out.Body.Searches = defs
	out.Body.Total = len(defs)
	return out, nil
}

// CreateSearchInput is the request for creating a search.
type CreateSearchInput struct {
	Account string `path:"account" doc:"Account name"`
	Body    SearchBody
}

// SearchOutput wraps one search definition.
type SearchOutput struct {
	Body domain.SearchDefinition
}

// Create validates and persists a new search, then starts its coordinator.
func (h *SearchesHandler) Create(ctx context.Context, input *CreateSearchInput) (*SearchOutput, error) {
	def, err := h.registry.CreateSearch(ctx, input.Account, input.Body.toDefinition())
	if err != nil {
		return nil, mapRegistryError(err)
	}
	return &SearchOutput{Body: def}, nil
}

// GetSearchInput identifies one search.
type GetSearchInput struct {
	Account  string `path:"account" doc:"Account name"`
	SearchID string `path:"search_id" doc:"Search UUID"`
}

// Get returns one search definition.
func (h *SearchesHandler) Get(_ context.Context, input *GetSearchInput) (*SearchOutput, error) {
	def, err := h.registry.GetSearch(input.Account, input.SearchID)
	if err != nil {
		return nil, mapRegistryError(err)
	}
	return &SearchOutput{Body: def}, nil
}

// UpdateSearchInput is the request for updating a search.
type UpdateSearchInput struct {
	Account  string `path:"account" doc:"Account name"`
	SearchID string `path:"search_id" doc:"Search UUID"`
	Body     SearchBody
}

// Update persists the change and restarts the coordinator.
func (h *SearchesHandler) Update(ctx context.Context, input *UpdateSearchInput) (*SearchOutput, error) {
	def, err := h.registry.UpdateSearch(ctx, input.Account, input.SearchID, input.Body.toDefinition())
	if err != nil {
		return nil, mapRegistryError(err)
	}
	return &SearchOutput{Body: def}, nil
}

// Delete stops the coordinator and removes the definition and snapshot.
func (h *SearchesHandler) Delete(ctx context.Context, input *GetSearchInput) (*struct{}, error) {
	if err := h.registry.DeleteSearch(ctx, input.Account, input.SearchID); err != nil {
		return nil, mapRegistryError(err)
	}
	return &struct{}{}, nil
}

// RegisterSearchesRoutes registers search CRUD endpoints with the Huma API.
func RegisterSearchesRoutes(api huma.API, h *SearchesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-searches",
		Method:      http.MethodGet,
		Path:        "/api/v1/accounts/{account}/searches",
		Summary:     "List saved searches",
		Tags:        []string{"searches"},
		Errors:      []int{http.StatusNotFound},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID:   "create-search",
		Method:        http.MethodPost,
		Path:          "/api/v1/accounts/{account}/searches",
		Summary:       "Create a saved search",
		Description:   "Validates the definition, persists it, and starts polling immediately.",
		Tags:          []string{"searches"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "get-search",
		Method:      http.MethodGet,
		Path:        "/api/v1/accounts/{account}/searches/{search_id}",
		Summary:     "Get a saved search",
		Tags:        []string{"searches"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "update-search",
		Method:      http.MethodPut,
		Path:        "/api/v1/accounts/{account}/searches/{search_id}",
		Summary:     "Update a saved search",
		Description: "Persists the change and restarts the coordinator. The snapshot is kept unless the query text changed.",
		Tags:        []string{"searches"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-search",
		Method:        http.MethodDelete,
		Path:          "/api/v1/accounts/{account}/searches/{search_id}",
		Summary:       "Delete a saved search",
		Tags:          []string{"searches"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.Delete)
}
