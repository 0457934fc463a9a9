// Package redis provides a Redis-backed implementation of the snippet repository.
//
// Layout: the record (without upvotes) as JSON at snippet:{id}, its counter at
// snippet:{id}:upvotes, and every id in the set snippets:ids.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/roguepikachu/snipshare/internal/domain"
	"github.com/roguepikachu/snipshare/internal/repository"
	"github.com/roguepikachu/snipshare/internal/search"
)

const keyIDs = "snippets:ids"

func keySnippet(id string) string { return "snippet:" + id }
func keyUpvotes(id string) string { return "snippet:" + id + ":upvotes" }

// record is the stored JSON; upvotes live in their own counter key.
type record struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Code     string   `json:"code"`
	Language string   `json:"language"`
	Tags     []string `json:"tags"`
}

// SnippetRepository implements repository.SnippetRepository using Redis as backend.
type SnippetRepository struct {
	client *redis.Client
}

// NewSnippetRepository creates a new Redis-backed snippet repository.
func NewSnippetRepository(client *redis.Client) *SnippetRepository {
	return &SnippetRepository{client: client}
}

// Insert stores the record, its counter and its index entry in one MULTI.
func (r *SnippetRepository) Insert(ctx context.Context, s domain.Snippet) error {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(record{ID: s.ID, Title: s.Title, Code: s.Code, Language: s.Language, Tags: tags})
	if err != nil {
		return fmt.Errorf("marshal snippet: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, keySnippet(s.ID), data, 0)
		p.Set(ctx, keyUpvotes(s.ID), s.Upvotes, 0)
		p.SAdd(ctx, keyIDs, s.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis insert: %w", err)
	}
	return nil
}

// FindByID retrieves a snippet by its ID from Redis.
func (r *SnippetRepository) FindByID(ctx context.Context, id string) (domain.Snippet, error) {
	vals, err := r.client.MGet(ctx, keySnippet(id), keyUpvotes(id)).Result()
	if err != nil {
		return domain.Snippet{}, fmt.Errorf("redis get: %w", err)
	}
	return decode(vals[0], vals[1])
}

// List loads every indexed snippet and applies the filter.
func (r *SnippetRepository) List(ctx context.Context, f search.Filter) ([]domain.Snippet, error) {
	ids, err := r.client.SMembers(ctx, keyIDs).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list ids: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Snippet{}, nil
	}
	keys := make([]string, 0, 2*len(ids))
	for _, id := range ids {
		keys = append(keys, keySnippet(id), keyUpvotes(id))
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	items := make([]domain.Snippet, 0, len(ids))
	for i := 0; i < len(vals); i += 2 {
		s, err := decode(vals[i], vals[i+1])
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return search.Apply(items, f), nil
}

// Random uses SRANDMEMBER, which is uniform over the id set.
func (r *SnippetRepository) Random(ctx context.Context) (domain.Snippet, error) {
	id, err := r.client.SRandMember(ctx, keyIDs).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Snippet{}, repository.ErrNotFound
	}
	if err != nil {
		return domain.Snippet{}, fmt.Errorf("redis random: %w", err)
	}
	return r.FindByID(ctx, id)
}

// Upvote relies on INCR for atomicity. Snippets are never deleted, so the
// existence check cannot go stale before the increment.
func (r *SnippetRepository) Upvote(ctx context.Context, id string) (domain.Snippet, error) {
	data, err := r.client.Get(ctx, keySnippet(id)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Snippet{}, repository.ErrNotFound
	}
	if err != nil {
		return domain.Snippet{}, fmt.Errorf("redis get: %w", err)
	}
	n, err := r.client.Incr(ctx, keyUpvotes(id)).Result()
	if err != nil {
		return domain.Snippet{}, fmt.Errorf("redis incr: %w", err)
	}
	s, err := decode(data, strconv.FormatInt(n, 10))
	if err != nil {
		return domain.Snippet{}, err
	}
	return s, nil
}

// decode builds a snippet from MGET values; a nil record means not found.
func decode(rec, upvotes any) (domain.Snippet, error) {
	raw, ok := rec.(string)
	if !ok {
		return domain.Snippet{}, repository.ErrNotFound
	}
	var rc record
	if err := json.Unmarshal([]byte(raw), &rc); err != nil {
		return domain.Snippet{}, fmt.Errorf("unmarshal: %w", err)
	}
	s := domain.Snippet{ID: rc.ID, Title: rc.Title, Code: rc.Code, Language: rc.Language, Tags: rc.Tags}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if v, ok := upvotes.(string); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return domain.Snippet{}, fmt.Errorf("parse upvotes: %w", err)
		}
		s.Upvotes = n
	}
	return s, nil
}

var _ repository.SnippetRepository = (*SnippetRepository)(nil)
