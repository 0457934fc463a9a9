package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/snipshare/web"
)

// IndexPage serves the search and share UI.
func IndexPage(c *gin.Context) { servePage(c, web.IndexPage) }

// DevPage serves the developer overlay.
func DevPage(c *gin.Context) { servePage(c, web.DevPage) }

func servePage(c *gin.Context, name string) {
	body, err := web.Page(name)
	if err != nil {
		c.String(http.StatusInternalServerError, "page unavailable")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
