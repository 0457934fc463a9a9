// Package postgres provides a Postgres-backed implementation of the snippet repository.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roguepikachu/snipshare/internal/domain"
	"github.com/roguepikachu/snipshare/internal/repository"
	"github.com/roguepikachu/snipshare/internal/search"
	"github.com/roguepikachu/snipshare/pkg/logger"
)

const columns = `id, title, code, language, tags, upvotes`

// SnippetRepository implements repository.SnippetRepository using Postgres.
type SnippetRepository struct {
	pool *pgxpool.Pool
}

// NewSnippetRepository creates a new Postgres-backed snippet repository.
func NewSnippetRepository(pool *pgxpool.Pool) *SnippetRepository {
	return &SnippetRepository{pool: pool}
}

// EnsureSchema creates required tables if they don't exist.
func (r *SnippetRepository) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS snippets (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    code TEXT NOT NULL,
    language TEXT NOT NULL,
    tags JSONB NOT NULL DEFAULT '[]'::jsonb,
    upvotes BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_snippets_title ON snippets (title);
CREATE INDEX IF NOT EXISTS idx_snippets_language_lower ON snippets (lower(language));
`
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info(ctx, "postgres schema ensured")
	return nil
}

// Insert adds a new snippet to Postgres.
func (r *SnippetRepository) Insert(ctx context.Context, s domain.Snippet) error {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	const q = `
INSERT INTO snippets (id, title, code, language, tags, upvotes)
VALUES ($1, $2, $3, $4, $5::jsonb, $6)
`
	if _, err := r.pool.Exec(ctx, q, s.ID, s.Title, s.Code, s.Language, string(tagsJSON), s.Upvotes); err != nil {
		return fmt.Errorf("insert snippet: %w", err)
	}
	return nil
}

// FindByID retrieves a snippet by its ID from Postgres.
func (r *SnippetRepository) FindByID(ctx context.Context, id string) (domain.Snippet, error) {
	const q = `SELECT ` + columns + ` FROM snippets WHERE id = $1`
	return r.queryOne(ctx, q, id)
}

// List narrows candidates with ILIKE and lower(), then applies the filter in process.
func (r *SnippetRepository) List(ctx context.Context, f search.Filter) ([]domain.Snippet, error) {
	var (
		where []string
		args  []any
	)
	if f.Query != "" {
		args = append(args, search.LikePattern(f.Query))
		n := len(args)
		where = append(where, fmt.Sprintf(`(title ILIKE $%d ESCAPE '\' OR code ILIKE $%d ESCAPE '\')`, n, n))
	}
	if f.Language != "" {
		args = append(args, f.Language)
		where = append(where, fmt.Sprintf(`lower(language) = lower($%d)`, len(args)))
	}
	q := `SELECT ` + columns + ` FROM snippets`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list snippets: %w", err)
	}
	defer rows.Close()
	var res []domain.Snippet
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snippets: %w", err)
	}
	return search.Apply(res, f), nil
}

// Random picks one row uniformly.
func (r *SnippetRepository) Random(ctx context.Context) (domain.Snippet, error) {
	const q = `SELECT ` + columns + ` FROM snippets ORDER BY random() LIMIT 1`
	return r.queryOne(ctx, q)
}

// Upvote increments under the row lock taken by UPDATE, so concurrent callers serialize.
func (r *SnippetRepository) Upvote(ctx context.Context, id string) (domain.Snippet, error) {
	const q = `UPDATE snippets SET upvotes = upvotes + 1 WHERE id = $1 RETURNING ` + columns
	return r.queryOne(ctx, q, id)
}

func (r *SnippetRepository) queryOne(ctx context.Context, q string, args ...any) (domain.Snippet, error) {
	s, err := scan(r.pool.QueryRow(ctx, q, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Snippet{}, repository.ErrNotFound
	}
	return s, err
}

func scan(row pgx.Row) (domain.Snippet, error) {
	var (
		s       domain.Snippet
		tagsRaw []byte
	)
	if err := row.Scan(&s.ID, &s.Title, &s.Code, &s.Language, &tagsRaw, &s.Upvotes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Snippet{}, err
		}
		return domain.Snippet{}, fmt.Errorf("scan snippet: %w", err)
	}
	if err := json.Unmarshal(tagsRaw, &s.Tags); err != nil {
		return domain.Snippet{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	return s, nil
}

var _ repository.SnippetRepository = (*SnippetRepository)(nil)
