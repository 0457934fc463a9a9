// Package router sets up the HTTP routes for the SnipShare server.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roguepikachu/snipshare/internal/http/handler"
	"github.com/roguepikachu/snipshare/internal/http/middleware"
	"github.com/roguepikachu/snipshare/pkg"
)

// NewRouter builds the engine with middleware, pages, probes and the snippet API.
func NewRouter(h *handler.Handler, hh *handler.HealthHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.RequestLogger(), middleware.Metrics(), middleware.Recovery())

	r.GET(pkg.IndexPagePath, handler.IndexPage)
	r.GET(pkg.DevPagePath, handler.DevPage)

	r.GET(pkg.HealthPath, handler.Health)
	r.GET(pkg.LivenessPath, hh.Liveness)
	r.GET(pkg.ReadinessPath, hh.Readiness)
	r.GET(pkg.MetricsPath, gin.WrapH(promhttp.Handler()))

	snippets := r.Group(pkg.SnippetsPath)
	snippets.POST("", h.Create)
	snippets.GET("", h.List)
	snippets.GET("/random", h.Random)
	snippets.GET("/:id", h.Get)
	snippets.POST("/:id/upvote", h.Upvote)
	return r
}
