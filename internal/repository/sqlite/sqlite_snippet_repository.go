// Package sqlite provides a SQLite-backed implementation of the snippet repository.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/roguepikachu/snipshare/internal/domain"
	"github.com/roguepikachu/snipshare/internal/repository"
	"github.com/roguepikachu/snipshare/internal/search"
	"github.com/roguepikachu/snipshare/pkg/logger"
)

const columns = `id, title, code, language, tags, upvotes`

// SnippetRepository implements repository.SnippetRepository on database/sql with the modernc driver.
type SnippetRepository struct {
	db *sql.DB
}

// NewSnippetRepository wraps an open database. Call EnsureSchema before use.
func NewSnippetRepository(db *sql.DB) *SnippetRepository {
	return &SnippetRepository{db: db}
}

// EnsureSchema creates the snippets table and its indexes if missing.
func (r *SnippetRepository) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS snippets (
    id       TEXT PRIMARY KEY,
    title    TEXT NOT NULL,
    code     TEXT NOT NULL,
    language TEXT NOT NULL,
    tags     TEXT NOT NULL DEFAULT '[]',
    upvotes  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_snippets_title ON snippets (title);
CREATE INDEX IF NOT EXISTS idx_snippets_language ON snippets (language);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	logger.Debug(ctx, "sqlite schema ensured")
	return nil
}

// Insert adds a new snippet.
func (r *SnippetRepository) Insert(ctx context.Context, s domain.Snippet) error {
	tags, err := encodeTags(s.Tags)
	if err != nil {
		return err
	}
	const q = `INSERT INTO snippets (` + columns + `) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, s.ID, s.Title, s.Code, s.Language, tags, s.Upvotes); err != nil {
		return fmt.Errorf("insert snippet: %w", err)
	}
	return nil
}

// FindByID retrieves a snippet by its ID.
func (r *SnippetRepository) FindByID(ctx context.Context, id string) (domain.Snippet, error) {
	const q = `SELECT ` + columns + ` FROM snippets WHERE id = ?`
	return r.queryOne(ctx, q, id)
}

// List narrows candidates in SQL, then applies the filter for exact matching semantics.
// SQLite only folds ASCII case, so non-ASCII predicates are left to the filter.
func (r *SnippetRepository) List(ctx context.Context, f search.Filter) ([]domain.Snippet, error) {
	var (
		where []string
		args  []any
	)
	if f.Query != "" && isASCII(f.Query) {
		p := search.LikePattern(f.Query)
		where = append(where, `(title LIKE ? ESCAPE '\' OR code LIKE ? ESCAPE '\')`)
		args = append(args, p, p)
	}
	if f.Language != "" && isASCII(f.Language) {
		where = append(where, `lower(language) = lower(?)`)
		args = append(args, f.Language)
	}
	q := `SELECT ` + columns + ` FROM snippets`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
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
	const q = `SELECT ` + columns + ` FROM snippets ORDER BY RANDOM() LIMIT 1`
	return r.queryOne(ctx, q)
}

// Upvote increments in a single statement so concurrent callers cannot lose updates.
func (r *SnippetRepository) Upvote(ctx context.Context, id string) (domain.Snippet, error) {
	const q = `UPDATE snippets SET upvotes = upvotes + 1 WHERE id = ? RETURNING ` + columns
	return r.queryOne(ctx, q, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SnippetRepository) queryOne(ctx context.Context, q string, args ...any) (domain.Snippet, error) {
	s, err := scan(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snippet{}, repository.ErrNotFound
	}
	return s, err
}

func scan(row scanner) (domain.Snippet, error) {
	var (
		s    domain.Snippet
		tags string
	)
	if err := row.Scan(&s.ID, &s.Title, &s.Code, &s.Language, &tags, &s.Upvotes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Snippet{}, err
		}
		return domain.Snippet{}, fmt.Errorf("scan snippet: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
		return domain.Snippet{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	return s, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(b), nil
}

var _ repository.SnippetRepository = (*SnippetRepository)(nil)
