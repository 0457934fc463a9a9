// Package service contains business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roguepikachu/snipshare/internal/domain"
	"github.com/roguepikachu/snipshare/internal/repository"
	"github.com/roguepikachu/snipshare/internal/search"
)

// Error variables
var (
	ErrSnippetNotFound = errors.New("snippet not found")
	ErrNoSnippets      = errors.New("no snippets available")
)

// Service provides snippet-related business logic.
type Service struct {
	repo  repository.SnippetRepository
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator overrides snippet id generation.
func WithIDGenerator(f func() string) Option { return func(s *Service) { s.newID = f } }

// NewService creates a Service over repo. Ids default to random UUIDs.
func NewService(repo repository.SnippetRepository, opts ...Option) *Service {
	s := &Service{repo: repo, newID: generateID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generateID returns a 128-bit random (v4) UUID.
func generateID() string {
	return uuid.NewString()
}

// CreateSnippet stores a new snippet with zero upvotes. Nil tags become empty.
func (s *Service) CreateSnippet(ctx context.Context, title, code, language string, tags []string) (domain.Snippet, error) {
	if tags == nil {
		tags = []string{}
	}
	snippet := domain.Snippet{
		ID:       s.newID(),
		Title:    title,
		Code:     code,
		Language: language,
		Tags:     tags,
		Upvotes:  0,
	}
	if err := s.repo.Insert(ctx, snippet); err != nil {
		return domain.Snippet{}, fmt.Errorf("insert: %w", err)
	}
	snippetsCreated.WithLabelValues(normalizeLanguage(language)).Inc()
	return snippet, nil
}

// GetSnippetByID fetches one snippet.
func (s *Service) GetSnippetByID(ctx context.Context, id string) (domain.Snippet, error) {
	snippet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Snippet{}, ErrSnippetNotFound
		}
		return domain.Snippet{}, fmt.Errorf("find by id: %w", err)
	}
	return snippet, nil
}

// SearchSnippets returns every snippet matching f; a zero filter lists everything.
func (s *Service) SearchSnippets(ctx context.Context, f search.Filter) ([]domain.Snippet, error) {
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	if items == nil {
		items = []domain.Snippet{}
	}
	return items, nil
}

// RandomSnippet returns a uniformly chosen snippet.
func (s *Service) RandomSnippet(ctx context.Context) (domain.Snippet, error) {
	snippet, err := s.repo.Random(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Snippet{}, ErrNoSnippets
		}
		return domain.Snippet{}, fmt.Errorf("random: %w", err)
	}
	return snippet, nil
}

// UpvoteSnippet adds one upvote and returns the updated snippet.
func (s *Service) UpvoteSnippet(ctx context.Context, id string) (domain.Snippet, error) {
	snippet, err := s.repo.Upvote(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Snippet{}, ErrSnippetNotFound
		}
		return domain.Snippet{}, fmt.Errorf("upvote: %w", err)
	}
	snippetUpvotes.Inc()
	return snippet, nil
}
