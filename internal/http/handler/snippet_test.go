package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/snipshare/internal/domain"
	"github.com/roguepikachu/snipshare/internal/repository/fake"
	"github.com/roguepikachu/snipshare/internal/search"
	"github.com/roguepikachu/snipshare/internal/service"
)

// errSvc returns err from every call.
type errSvc struct{ err error }

func (e errSvc) CreateSnippet(context.Context, string, string, string, []string) (domain.Snippet, error) {
	return domain.Snippet{}, e.err
}
func (e errSvc) GetSnippetByID(context.Context, string) (domain.Snippet, error) {
	return domain.Snippet{}, e.err
}
func (e errSvc) SearchSnippets(context.Context, search.Filter) ([]domain.Snippet, error) {
	return nil, e.err
}
func (e errSvc) RandomSnippet(context.Context) (domain.Snippet, error) {
	return domain.Snippet{}, e.err
}
func (e errSvc) UpvoteSnippet(context.Context, string) (domain.Snippet, error) {
	return domain.Snippet{}, e.err
}

func newTestEngine(svc SnippetService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.POST("/snippets", h.Create)
	r.GET("/snippets", h.List)
	r.GET("/snippets/random", h.Random)
	r.GET("/snippets/:id", h.Get)
	r.POST("/snippets/:id/upvote", h.Upvote)
	return r
}

func seeded(items ...domain.Snippet) *gin.Engine {
	return newTestEngine(service.NewService(fake.NewSnippetRepository(fake.WithItems(items...))))
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeSnippet(t *testing.T, w *httptest.ResponseRecorder) domain.SnippetResponseDTO {
	t.Helper()
	var out domain.SnippetResponseDTO
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []domain.SnippetResponseDTO {
	t.Helper()
	var out []domain.SnippetResponseDTO
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestSnippetCreate_OK(t *testing.T) {
	r := seeded()
	w := do(r, http.MethodPost, "/snippets", `{"title":"Quick Sort","code":"qs()","language":"python","tags":["sorting","Algo"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", w.Code, w.Body.String())
	}
	got := decodeSnippet(t, w)
	if got.ID == "" || got.Upvotes != 0 {
		t.Fatalf("unexpected snippet: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "sorting" || got.Tags[1] != "Algo" {
		t.Fatalf("tags not preserved: %v", got.Tags)
	}

	w = do(r, http.MethodGet, "/snippets/"+got.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get after create: want 200, got %d", w.Code)
	}
	if again := decodeSnippet(t, w); again.Title != "Quick Sort" || again.Language != "python" {
		t.Fatalf("get mismatch: %+v", again)
	}
}

func TestSnippetCreate_TagsDefaultToEmptyArray(t *testing.T) {
	w := do(seeded(), http.MethodPost, "/snippets", `{"title":"t","code":"c","language":"go"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"tags":[]`)) {
		t.Fatalf("want empty tags array, got %s", w.Body.String())
	}
}

func TestSnippetCreate_EmptyStringsAccepted(t *testing.T) {
	w := do(seeded(), http.MethodPost, "/snippets", `{"title":"","code":"","language":""}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSnippetCreate_BadRequest(t *testing.T) {
	r := seeded()
	cases := map[string]string{
		"empty body":      "",
		"missing code":    `{"title":"t","language":"go"}`,
		"wrong tags type": `{"title":"t","code":"c","language":"go","tags":"x"}`,
		"not json":        `title=t`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/snippets", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d", w.Code)
			}
		})
	}
}

func TestSnippetCreate_InternalError(t *testing.T) {
	w := do(newTestEngine(errSvc{err: errors.New("boom")}), http.MethodPost, "/snippets", `{"title":"t","code":"c","language":"go"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("boom")) {
		t.Fatalf("internal error leaked: %s", w.Body.String())
	}
}

func TestSnippetList_Filters(t *testing.T) {
	r := seeded(
		domain.Snippet{ID: "A", Title: "Quick Sort", Language: "python", Tags: []string{"sorting"}},
		domain.Snippet{ID: "B", Title: "Hash Map", Language: "go", Tags: []string{"data-structures"}},
	)
	cases := []struct {
		target string
		want   []string
	}{
		{"/snippets", []string{"A", "B"}},
		{"/snippets?query=sort", []string{"A"}},
		{"/snippets?language=PYTHON", []string{"A"}},
		{"/snippets?tag=sorting", []string{"A"}},
		{"/snippets?language=go&tag=sorting", []string{}},
		{"/snippets?query=&language=&tag=", []string{"A", "B"}},
	}
	for _, c := range cases {
		w := do(r, http.MethodGet, c.target, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: want 200, got %d", c.target, w.Code)
		}
		got := decodeList(t, w)
		if len(got) != len(c.want) {
			t.Fatalf("%s: want %v, got %+v", c.target, c.want, got)
		}
		for i := range c.want {
			if got[i].ID != c.want[i] {
				t.Fatalf("%s: want %v, got %+v", c.target, c.want, got)
			}
		}
	}
}

func TestSnippetList_EmptyIsArray(t *testing.T) {
	w := do(seeded(), http.MethodGet, "/snippets", "")
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("want 200 [], got %d %s", w.Code, w.Body.String())
	}
}

func TestSnippetList_InternalError(t *testing.T) {
	w := do(newTestEngine(errSvc{err: errors.New("boom")}), http.MethodGet, "/snippets", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", w.Code)
	}
}

func TestSnippetRandom(t *testing.T) {
	w := do(seeded(), http.MethodGet, "/snippets/random", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("empty store: want 404, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("no snippets available")) {
		t.Fatalf("want human readable message, got %s", w.Body.String())
	}

	w = do(seeded(domain.Snippet{ID: "only"}), http.MethodGet, "/snippets/random", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if got := decodeSnippet(t, w); got.ID != "only" {
		t.Fatalf("want only, got %s", got.ID)
	}
}

func TestSnippetGet_NotFound(t *testing.T) {
	w := do(seeded(), http.MethodGet, "/snippets/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", w.Code)
	}
}

func TestSnippetUpvote(t *testing.T) {
	r := seeded(domain.Snippet{ID: "u", Title: "Up"})
	for i := 1; i <= 3; i++ {
		w := do(r, http.MethodPost, "/snippets/u/upvote", "")
		if w.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", w.Code)
		}
		if got := decodeSnippet(t, w); got.Upvotes != int64(i) {
			t.Fatalf("want %d upvotes, got %d", i, got.Upvotes)
		}
	}
}

func TestSnippetUpvote_NotFound(t *testing.T) {
	w := do(seeded(), http.MethodPost, "/snippets/missing/upvote", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("snippet not found")) {
		t.Fatalf("want human readable message, got %s", w.Body.String())
	}
}

func TestSnippetUpvote_InternalError(t *testing.T) {
	w := do(newTestEngine(errSvc{err: errors.New("db gone")}), http.MethodPost, "/snippets/x/upvote", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", w.Code)
	}
}
