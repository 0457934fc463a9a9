package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roguepikachu/snipshare/pkg/ctxutil"
)

func idEngine(seen func(requestID, clientID string)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		if seen != nil {
			seen(ctxutil.RequestID(c.Request.Context()), ctxutil.ClientID(c.Request.Context()))
		}
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestRequestIDMiddleware_GeneratesUUIDs(t *testing.T) {
	r := idEngine(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	for _, h := range []string{headerRequestID, headerClientID} {
		if _, err := uuid.Parse(w.Header().Get(h)); err != nil {
			t.Fatalf("%s: want generated uuid, got %q", h, w.Header().Get(h))
		}
	}
}

func TestRequestIDMiddleware_PropagatesProvided(t *testing.T) {
	var gotReq, gotClient string
	r := idEngine(func(rid, cid string) { gotReq, gotClient = rid, cid })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "rid-xyz")
	req.Header.Set("X-Client-ID", "cid-xyz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get(headerRequestID) != "rid-xyz" || w.Header().Get(headerClientID) != "cid-xyz" {
		t.Fatalf("headers not echoed: %v", w.Header())
	}
	if gotReq != "rid-xyz" || gotClient != "cid-xyz" {
		t.Fatalf("context not populated: %q %q", gotReq, gotClient)
	}
}

func TestRequestIDMiddleware_BlankHeaderIsReplaced(t *testing.T) {
	r := idEngine(nil)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "   ")
	req.Header.Set("X-Client-ID", "cid-kept")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if _, err := uuid.Parse(w.Header().Get(headerRequestID)); err != nil {
		t.Fatalf("blank request id not replaced: %q", w.Header().Get(headerRequestID))
	}
	if w.Header().Get(headerClientID) != "cid-kept" {
		t.Fatalf("client id lost: %q", w.Header().Get(headerClientID))
	}
}

func TestRequestIDMiddleware_ConcurrentRequestsGetDistinctIDs(t *testing.T) {
	r := idEngine(nil)
	const n = 50
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		ids = make(map[string]bool, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
			mu.Lock()
			ids[w.Header().Get(headerRequestID)] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(ids) != n {
		t.Fatalf("want %d distinct ids, got %d", n, len(ids))
	}
}
