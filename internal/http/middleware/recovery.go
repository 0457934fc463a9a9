package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/snipshare/pkg"
	"github.com/roguepikachu/snipshare/pkg/logger"
)

// Recovery turns a handler panic into a logged 500 with the standard error body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				// stack goes to the log only
				logger.With(c.Request.Context(), map[string]any{
					"panic": r,
					"route": c.FullPath(),
					"stack": string(debug.Stack()),
				}).Error("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.NewError("internal_error", "internal server error", ""))
			}
		}()
		c.Next()
	}
}
