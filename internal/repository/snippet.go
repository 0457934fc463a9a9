// Package repository defines snippet storage and its backends.
package repository

import (
	"context"
	"errors"

	"github.com/roguepikachu/snipshare/internal/domain"
	"github.com/roguepikachu/snipshare/internal/search"
)

// ErrNotFound is returned when a snippet id is unknown or the store is empty.
var ErrNotFound = errors.New("snippet not found")

// SnippetRepository is durable snippet storage.
type SnippetRepository interface {
	// Insert persists a fully formed snippet.
	Insert(ctx context.Context, s domain.Snippet) error
	// FindByID returns ErrNotFound for unknown ids.
	FindByID(ctx context.Context, id string) (domain.Snippet, error)
	// List returns every snippet matching f in no particular order.
	List(ctx context.Context, f search.Filter) ([]domain.Snippet, error)
	// Random returns a uniformly chosen snippet, or ErrNotFound when empty.
	Random(ctx context.Context) (domain.Snippet, error)
	// Upvote atomically adds one to the snippet's upvotes and returns the result.
	Upvote(ctx context.Context, id string) (domain.Snippet, error)
}
