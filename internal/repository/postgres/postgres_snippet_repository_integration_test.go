//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/roguepikachu/snipshare/internal/repository"
	"github.com/roguepikachu/snipshare/internal/repository/repotest"
)

// startPostgres spins up a Postgres container using testcontainers.
func startPostgres(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	pg, err := tcpostgres.RunContainer(ctx,
		tcpostgres.WithUsername("snipshare"),
		tcpostgres.WithPassword("secret"),
		tcpostgres.WithDatabase("snipshare"),
	)
	if err != nil {
		t.Skipf("skipping: cannot start postgres container (is Docker running?): %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	host, _ := pg.Host(ctx)
	port, _ := pg.MappedPort(ctx, "5432")
	dsn := fmt.Sprintf("postgres://snipshare:secret@%s:%s/snipshare?sslmode=disable", host, port.Port())
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	t.Cleanup(pool.Close)

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	for {
		if err := pool.Ping(waitCtx); err == nil {
			break
		}
		select {
		case <-waitCtx.Done():
			t.Fatalf("timeout waiting for db ready: %v", waitCtx.Err())
		case <-time.After(250 * time.Millisecond):
		}
	}
	return pool
}

func TestPostgresRepository_Contract(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(ctx, t)

	repo := NewSnippetRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	repotest.Run(t, func(t *testing.T) repository.SnippetRepository {
		if _, err := pool.Exec(ctx, `TRUNCATE snippets`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return repo
	})
}
