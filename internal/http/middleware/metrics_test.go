package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.POST("/snippets/:id/upvote", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := httpRequests.WithLabelValues(http.MethodPost, "/snippets/:id/upvote", "200")
	before := testutil.ToFloat64(counter)
	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/snippets/"+id+"/upvote", nil))
	}
	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Fatalf("want 3 requests counted under the template, got %v", got)
	}
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())

	counter := httpRequests.WithLabelValues(http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(counter)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/random/path/1", nil))
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Fatalf("want 1 unmatched request, got %v", got)
	}
}
