// Package handlers implements HTTP handlers for the ebay-watcher API.
package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/ebay-watcher/internal/monitor"
	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// mapRegistryError converts registry errors to HTTP status errors.
func mapRegistryError(err error) error {
	if ve, ok := monitor.AsValidationError(err); ok {
		return huma.Error400BadRequest(ve.Error())
	}
	if errors.Is(err, monitor.ErrAccountNotFound) || errors.Is(err, monitor.ErrSearchNotFound) {
		return huma.Error404NotFound(err.Error())
	}
	return huma.Error500InternalServerError(err.Error())
}

// parseSource resolves a source path parameter: one of the fixed category
// names, or "search:<id>".
func parseSource(s string) (domain.Source, error) {
	if id, ok := strings.CutPrefix(s, "search:"); ok {
		if id == "" {
			return domain.Source{}, fmt.Errorf("missing search id")
		}
		return domain.SearchSource(id), nil
	}
	kind := domain.SourceKind(s)
	for _, fixed := range domain.FixedSourceKinds {
		if kind == fixed {
			return domain.Source{Kind: kind}, nil
		}
	}
	return domain.Source{}, fmt.Errorf("unknown source %q", s)
}
