// Package searchstore persists saved-search definitions so search
// coordinators can be recreated across process restarts.
package searchstore

import (
	"context"

	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// Store is the durable key-value persistence for search definitions,
// addressed by account and search identifier.
type Store interface {
	// List returns every definition persisted for the account, ordered by
	// search ID.
	List(ctx context.Context, account string) ([]domain.SearchDefinition, error)

	// Put inserts or replaces one definition.
	Put(ctx context.Context, account string, def domain.SearchDefinition) error

	// Delete removes one definition. Deleting an absent definition is not
	// an error.
	Delete(ctx context.Context, account, searchID string) error

	// DeleteAccount removes every definition belonging to the account.
	DeleteAccount(ctx context.Context, account string) error
}
