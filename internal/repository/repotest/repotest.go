// Package repotest holds behavior checks shared by every SnippetRepository backend.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/roguepikachu/snipshare/internal/domain"
	"github.com/roguepikachu/snipshare/internal/repository"
	"github.com/roguepikachu/snipshare/internal/search"
)

// Factory returns an empty repository. Cleanup is the factory's business.
type Factory func(t *testing.T) repository.SnippetRepository

// Run exercises repo behavior against fresh repositories from newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()
	t.Run("FindAfterInsert", func(t *testing.T) { testFindAfterInsert(t, newRepo(t)) })
	t.Run("UnknownID", func(t *testing.T) { testUnknownID(t, newRepo(t)) })
	t.Run("SequentialUpvotes", func(t *testing.T) { testSequentialUpvotes(t, newRepo(t)) })
	t.Run("ConcurrentUpvotes", func(t *testing.T) { testConcurrentUpvotes(t, newRepo(t)) })
	t.Run("ListFilters", func(t *testing.T) { testListFilters(t, newRepo(t)) })
	t.Run("ListAll", func(t *testing.T) { testListAll(t, newRepo(t)) })
	t.Run("ListEscapesWildcards", func(t *testing.T) { testListEscapesWildcards(t, newRepo(t)) })
	t.Run("RandomEmpty", func(t *testing.T) { testRandomEmpty(t, newRepo(t)) })
	t.Run("RandomReachesEverySnippet", func(t *testing.T) { testRandomReachesEverySnippet(t, newRepo(t)) })
}

// Snippet builds a snippet with upvotes 0.
func Snippet(id, title, language string, tags ...string) domain.Snippet {
	if tags == nil {
		tags = []string{}
	}
	return domain.Snippet{ID: id, Title: title, Code: "// " + title, Language: language, Tags: tags}
}

func mustInsert(t *testing.T, repo repository.SnippetRepository, items ...domain.Snippet) {
	t.Helper()
	for _, s := range items {
		if err := repo.Insert(context.Background(), s); err != nil {
			t.Fatalf("insert %s: %v", s.ID, err)
		}
	}
}

func sortedIDs(items []domain.Snippet) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, s.ID)
	}
	sort.Strings(out)
	return out
}

func testFindAfterInsert(t *testing.T, repo repository.SnippetRepository) {
	s := domain.Snippet{
		ID:       "f6b1c7d2-0000-4000-8000-000000000001",
		Title:    "Binary Search",
		Code:     "func search(xs []int, x int) int {\n\t// 100% \"quoted\"\n}",
		Language: "Go",
		Tags:     []string{"Search", "algorithms", "LOG-N"},
	}
	mustInsert(t, repo, s)
	got, err := repo.FindByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", s, got)
	}
}

func testUnknownID(t *testing.T, repo repository.SnippetRepository) {
	ctx := context.Background()
	mustInsert(t, repo, Snippet("known", "Known", "go"))
	if _, err := repo.FindByID(ctx, "never-issued"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("find: want ErrNotFound, got %v", err)
	}
	if _, err := repo.Upvote(ctx, "never-issued"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("upvote: want ErrNotFound, got %v", err)
	}
}

func testSequentialUpvotes(t *testing.T, repo repository.SnippetRepository) {
	ctx := context.Background()
	s := Snippet("up", "Upvoted", "go", "x")
	mustInsert(t, repo, s)
	const n = 5
	for i := 1; i <= n; i++ {
		got, err := repo.Upvote(ctx, s.ID)
		if err != nil {
			t.Fatalf("upvote %d: %v", i, err)
		}
		if got.Upvotes != int64(i) {
			t.Fatalf("after %d upvotes got %d", i, got.Upvotes)
		}
		if got.Title != s.Title || !reflect.DeepEqual(got.Tags, s.Tags) {
			t.Fatalf("upvote changed other fields: %+v", got)
		}
	}
	got, err := repo.FindByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Upvotes != n {
		t.Fatalf("want %d upvotes persisted, got %d", n, got.Upvotes)
	}
}

func testConcurrentUpvotes(t *testing.T, repo repository.SnippetRepository) {
	ctx := context.Background()
	s := Snippet("race", "Racy", "go")
	mustInsert(t, repo, s)
	const workers = 8
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, err := repo.Upvote(ctx, s.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent upvote: %v", err)
	}
	got, err := repo.FindByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Upvotes != workers {
		t.Fatalf("lost update: want %d, got %d", workers, got.Upvotes)
	}
}

func testListFilters(t *testing.T, repo repository.SnippetRepository) {
	ctx := context.Background()
	mustInsert(t, repo,
		Snippet("A", "Quick Sort", "python", "sorting"),
		Snippet("B", "Hash Map", "go", "data-structures"),
	)
	cases := []struct {
		f    search.Filter
		want []string
	}{
		{search.Filter{Query: "sort"}, []string{"A"}},
		{search.Filter{Query: "HASH"}, []string{"B"}},
		{search.Filter{Language: "PYTHON"}, []string{"A"}},
		{search.Filter{Tag: "sorting"}, []string{"A"}},
		{search.Filter{Tag: "SORTING"}, []string{"A"}},
		{search.Filter{Language: "go", Tag: "sorting"}, []string{}},
		{search.Filter{Query: "map", Language: "go", Tag: "data-structures"}, []string{"B"}},
	}
	for _, c := range cases {
		got, err := repo.List(ctx, c.f)
		if err != nil {
			t.Fatalf("list %+v: %v", c.f, err)
		}
		if ids := sortedIDs(got); !reflect.DeepEqual(ids, c.want) {
			t.Fatalf("list %+v: want %v, got %v", c.f, c.want, ids)
		}
	}
}

func testListAll(t *testing.T, repo repository.SnippetRepository) {
	ctx := context.Background()
	got, err := repo.List(ctx, search.Filter{})
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty store, got %d", len(got))
	}
	want := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("s%d", i)
		want = append(want, id)
		mustInsert(t, repo, Snippet(id, "Title "+id, "lang"))
	}
	got, err = repo.List(ctx, search.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if ids := sortedIDs(got); !reflect.DeepEqual(ids, want) {
		t.Fatalf("want %v, got %v", want, ids)
	}
}

func testListEscapesWildcards(t *testing.T, repo repository.SnippetRepository) {
	ctx := context.Background()
	mustInsert(t, repo,
		Snippet("pct", "100% coverage", "go"),
		Snippet("plain", "1000 coverage", "go"),
	)
	got, err := repo.List(ctx, search.Filter{Query: "100%"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if ids := sortedIDs(got); !reflect.DeepEqual(ids, []string{"pct"}) {
		t.Fatalf("want [pct], got %v", ids)
	}
}

func testRandomEmpty(t *testing.T, repo repository.SnippetRepository) {
	if _, err := repo.Random(context.Background()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func testRandomReachesEverySnippet(t *testing.T, repo repository.SnippetRepository) {
	ctx := context.Background()
	mustInsert(t, repo, Snippet("r1", "One", "go"), Snippet("r2", "Two", "go"), Snippet("r3", "Three", "go"))
	seen := map[string]bool{}
	for i := 0; i < 300 && len(seen) < 3; i++ {
		s, err := repo.Random(ctx)
		if err != nil {
			t.Fatalf("random: %v", err)
		}
		seen[s.ID] = true
	}
	if len(seen) != 3 {
		t.Fatalf("not every snippet was picked: %v", seen)
	}
}
