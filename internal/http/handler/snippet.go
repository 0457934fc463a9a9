package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/snipshare/internal/domain"
	"github.com/roguepikachu/snipshare/internal/search"
	"github.com/roguepikachu/snipshare/internal/service"
	"github.com/roguepikachu/snipshare/pkg"
	"github.com/roguepikachu/snipshare/pkg/logger"
)

// SnippetService defines the handler's dependency contract.
type SnippetService interface {
	CreateSnippet(ctx context.Context, title, code, language string, tags []string) (domain.Snippet, error)
	GetSnippetByID(ctx context.Context, id string) (domain.Snippet, error)
	SearchSnippets(ctx context.Context, f search.Filter) ([]domain.Snippet, error)
	RandomSnippet(ctx context.Context) (domain.Snippet, error)
	UpvoteSnippet(ctx context.Context, id string) (domain.Snippet, error)
}

// Handler handles HTTP requests for snippets.
type Handler struct {
	svc SnippetService
}

// NewHandler constructs a Handler with the given SnippetService.
func NewHandler(svc SnippetService) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /snippets.
func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	var req domain.CreateSnippetRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn(ctx, "failed to bind JSON: %s", err.Error())
		c.JSON(http.StatusBadRequest, pkg.NewError("bad_request", "invalid request", err.Error()))
		return
	}

	snippet, err := h.svc.CreateSnippet(ctx, *req.Title, *req.Code, *req.Language, req.Tags)
	if err != nil {
		h.internalError(c, "failed to create snippet", err)
		return
	}
	logger.With(ctx, map[string]any{"id": snippet.ID, "language": snippet.Language, "tags": snippet.Tags}).Info("snippet created")
	c.JSON(http.StatusCreated, domain.NewSnippetResponse(snippet))
}

// List handles GET /snippets with optional query, language and tag filters.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	var q domain.SearchQueryDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Warn(ctx, "invalid query params: %s", err.Error())
		c.JSON(http.StatusBadRequest, pkg.NewError("bad_request", "invalid query parameters", err.Error()))
		return
	}
	f := search.Filter{Query: q.Query, Language: q.Language, Tag: q.Tag}
	items, err := h.svc.SearchSnippets(ctx, f)
	if err != nil {
		h.internalError(c, "failed to search snippets", err)
		return
	}
	logger.With(ctx, map[string]any{"count": len(items), "query": q.Query, "language": q.Language, "tag": q.Tag}).Debug("snippets searched")
	c.JSON(http.StatusOK, domain.NewSnippetListResponse(items))
}

// Random handles GET /snippets/random.
func (h *Handler) Random(c *gin.Context) {
	snippet, err := h.svc.RandomSnippet(c.Request.Context())
	if err != nil {
		h.writeError(c, "failed to pick random snippet", err)
		return
	}
	c.JSON(http.StatusOK, domain.NewSnippetResponse(snippet))
}

// Get handles GET /snippets/:id.
func (h *Handler) Get(c *gin.Context) {
	snippet, err := h.svc.GetSnippetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "failed to get snippet", err)
		return
	}
	c.JSON(http.StatusOK, domain.NewSnippetResponse(snippet))
}

// Upvote handles POST /snippets/:id/upvote.
func (h *Handler) Upvote(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	snippet, err := h.svc.UpvoteSnippet(ctx, id)
	if err != nil {
		h.writeError(c, "failed to upvote snippet", err)
		return
	}
	logger.With(ctx, map[string]any{"id": id, "upvotes": snippet.Upvotes}).Debug("snippet upvoted")
	c.JSON(http.StatusOK, domain.NewSnippetResponse(snippet))
}

// writeError maps service errors to status codes.
func (h *Handler) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrSnippetNotFound):
		c.JSON(http.StatusNotFound, pkg.NewError("not_found", "snippet not found", ""))
	case errors.Is(err, service.ErrNoSnippets):
		c.JSON(http.StatusNotFound, pkg.NewError("not_found", "no snippets available", ""))
	default:
		h.internalError(c, msg, err)
	}
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	logger.Error(c.Request.Context(), "%s: %s", msg, err.Error())
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, pkg.NewError("internal_error", "internal server error", ""))
}
