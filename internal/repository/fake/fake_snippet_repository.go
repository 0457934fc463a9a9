// Package fake provides an in-memory SnippetRepository for tests.
package fake

import (
	"context"
	"sync"

	"github.com/roguepikachu/snipshare/internal/domain"
	"github.com/roguepikachu/snipshare/internal/repository"
	"github.com/roguepikachu/snipshare/internal/search"
)

// SnippetRepository keeps snippets in insertion order behind a mutex.
type SnippetRepository struct {
	mu    sync.Mutex
	order []string
	byID  map[string]domain.Snippet
	intn  search.Intn
}

// Option configures the fake repository.
type Option func(*SnippetRepository)

// WithIntn overrides the random source used by Random.
func WithIntn(f search.Intn) Option { return func(r *SnippetRepository) { r.intn = f } }

// WithItems seeds the repository.
func WithItems(items ...domain.Snippet) Option {
	return func(r *SnippetRepository) {
		for _, s := range items {
			r.put(s)
		}
	}
}

// NewSnippetRepository creates an empty fake.
func NewSnippetRepository(opts ...Option) *SnippetRepository {
	r := &SnippetRepository{byID: make(map[string]domain.Snippet)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SnippetRepository) put(s domain.Snippet) {
	if _, ok := r.byID[s.ID]; !ok {
		r.order = append(r.order, s.ID)
	}
	tags := make([]string, len(s.Tags))
	copy(tags, s.Tags)
	s.Tags = tags
	r.byID[s.ID] = s
}

func (r *SnippetRepository) snapshot() []domain.Snippet {
	items := make([]domain.Snippet, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, r.byID[id])
	}
	return items
}

func (r *SnippetRepository) Insert(_ context.Context, s domain.Snippet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(s)
	return nil
}

func (r *SnippetRepository) FindByID(_ context.Context, id string) (domain.Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		return s, nil
	}
	return domain.Snippet{}, repository.ErrNotFound
}

func (r *SnippetRepository) List(_ context.Context, f search.Filter) ([]domain.Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return search.Apply(r.snapshot(), f), nil
}

func (r *SnippetRepository) Random(_ context.Context) (domain.Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := search.Pick(r.snapshot(), r.intn)
	if !ok {
		return domain.Snippet{}, repository.ErrNotFound
	}
	return s, nil
}

func (r *SnippetRepository) Upvote(_ context.Context, id string) (domain.Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return domain.Snippet{}, repository.ErrNotFound
	}
	s.Upvotes++
	r.byID[id] = s
	return s, nil
}

// DeleteByID removes a snippet. Tests use it to prove a cache is serving reads.
func (r *SnippetRepository) DeleteByID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

var _ repository.SnippetRepository = (*SnippetRepository)(nil)
