// Package cached provides a caching wrapper over a primary repository using Redis.
package cached

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/roguepikachu/snipshare/internal/domain"
	"github.com/roguepikachu/snipshare/internal/repository"
	"github.com/roguepikachu/snipshare/internal/search"
	"github.com/roguepikachu/snipshare/pkg/logger"
)

// keyGeneration is bumped on every write; list keys embed it, so a bump
// orphans all cached lists and the TTL reaps them.
const keyGeneration = "snippets:cache:gen"

func keySnippet(id string) string { return "snippets:cache:item:" + id }

func keyList(gen int64, f search.Filter) string {
	return fmt.Sprintf("snippets:cache:list:%d:%q:%q:%q",
		gen, strings.ToLower(f.Query), strings.ToLower(f.Language), strings.ToLower(f.Tag))
}

// SnippetRepository is a cache-aside repository combining Redis with a primary store.
// Cache failures are logged and fall through to the primary.
type SnippetRepository struct {
	primary repository.SnippetRepository
	redis   *redis.Client
	ttl     time.Duration
}

// NewSnippetRepository creates a new cached repository. A zero ttl caches without expiry.
func NewSnippetRepository(primary repository.SnippetRepository, redis *redis.Client, ttl time.Duration) *SnippetRepository {
	return &SnippetRepository{primary: primary, redis: redis, ttl: ttl}
}

// Insert writes through to primary and populates cache.
func (r *SnippetRepository) Insert(ctx context.Context, s domain.Snippet) error {
	if err := r.primary.Insert(ctx, s); err != nil {
		return err
	}
	r.bumpGeneration(ctx)
	r.store(ctx, s)
	return nil
}

// FindByID attempts Redis then falls back to primary.
func (r *SnippetRepository) FindByID(ctx context.Context, id string) (domain.Snippet, error) {
	if val, err := r.redis.Get(ctx, keySnippet(id)).Bytes(); err == nil {
		var s domain.Snippet
		if jsonErr := json.Unmarshal(val, &s); jsonErr == nil {
			return s, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn(ctx, "cache get %s: %v", id, err)
	}
	s, err := r.primary.FindByID(ctx, id)
	if err != nil {
		return domain.Snippet{}, err
	}
	r.store(ctx, s)
	return s, nil
}

// List caches results per normalized filter within the current generation.
func (r *SnippetRepository) List(ctx context.Context, f search.Filter) ([]domain.Snippet, error) {
	gen, err := r.redis.Get(ctx, keyGeneration).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Warn(ctx, "cache generation: %v", err)
		return r.primary.List(ctx, f)
	}
	k := keyList(gen, f)
	if val, err := r.redis.Get(ctx, k).Bytes(); err == nil {
		var items []domain.Snippet
		if jsonErr := json.Unmarshal(val, &items); jsonErr == nil {
			return items, nil
		}
	}
	items, err := r.primary.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Snippet{}
	}
	data, _ := json.Marshal(items)
	if err := r.redis.Set(ctx, k, data, r.ttl).Err(); err != nil {
		logger.Warn(ctx, "cache set list: %v", err)
	}
	return items, nil
}

// Random is never cached; a cached pick would not be random.
func (r *SnippetRepository) Random(ctx context.Context) (domain.Snippet, error) {
	return r.primary.Random(ctx)
}

// Upvote writes to the primary, then drops the cached item and lists. Dropping
// rather than overwriting keeps out-of-order concurrent upvotes from caching a lower count.
func (r *SnippetRepository) Upvote(ctx context.Context, id string) (domain.Snippet, error) {
	s, err := r.primary.Upvote(ctx, id)
	if err != nil {
		return domain.Snippet{}, err
	}
	if err := r.redis.Del(ctx, keySnippet(id)).Err(); err != nil {
		logger.Warn(ctx, "cache del %s: %v", id, err)
	}
	r.bumpGeneration(ctx)
	return s, nil
}

func (r *SnippetRepository) store(ctx context.Context, s domain.Snippet) {
	data, _ := json.Marshal(s)
	if err := r.redis.Set(ctx, keySnippet(s.ID), data, r.ttl).Err(); err != nil {
		logger.Warn(ctx, "cache set %s: %v", s.ID, err)
	}
}

func (r *SnippetRepository) bumpGeneration(ctx context.Context) {
	if err := r.redis.Incr(ctx, keyGeneration).Err(); err != nil {
		logger.Warn(ctx, "cache generation bump: %v", err)
	}
}

var _ repository.SnippetRepository = (*SnippetRepository)(nil)
