// Package middleware provides HTTP middleware functions.
package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/snipshare/pkg/logger"
)

// RequestLogger logs one line per request. Level follows the status class.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}

		fields := map[string]any{
			"method":     c.Request.Method,
			"path":       path,
			"route":      routeLabel(c),
			"status":     status,
			"latency_ms": latency.Milliseconds(),
			"bytes":      size,
			"ip":         c.ClientIP(),
			"ua":         c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			msgs := make([]string, 0, len(c.Errors))
			for _, e := range c.Errors {
				msgs = append(msgs, e.Error())
			}
			fields["errors"] = strings.Join(msgs, "; ")
		}

		entry := logger.With(c.Request.Context(), fields)
		switch {
		case status >= 500:
			entry.Error("request completed")
		case status >= 400:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

// routeLabel is the matched route template, or "unmatched" for 404/405.
func routeLabel(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}
