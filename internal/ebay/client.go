// Package ebay provides a narrow client for the eBay account and search
// APIs, abstracted behind an interface for testability.
package ebay

import (
	"context"
	"errors"

	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// Typed upstream errors. Callers branch on these with errors.Is.
var (
	// ErrUnavailable covers network failures, timeouts, throttling, and
	// server errors. Retryable with backoff.
	ErrUnavailable = errors.New("ebay API unavailable")

	// ErrRejected covers authentication and permission failures. Backoff
	// alone will not fix it; callers should surface a persistent warning.
	ErrRejected = errors.New("ebay API rejected credentials")
)

// Request describes a single upstream fetch: either one of the fixed buying
// categories, or a saved search when Kind is SourceSearch.
type Request struct {
	Kind   domain.SourceKind
	Search *domain.SearchDefinition
}

// Client defines the interface the poll coordinators fetch through.
type Client interface {
	Fetch(ctx context.Context, req Request) ([]domain.Item, error)
}

// TokenProvider defines the interface for obtaining API auth tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider returns a fixed pre-issued token. Token refresh flows
// live outside this package.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a TokenProvider returning token verbatim.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// Token implements TokenProvider.
func (p *StaticTokenProvider) Token(_ context.Context) (string, error) {
	return p.token, nil
}
