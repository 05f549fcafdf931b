package api

import (
	"net/http"
	"strings"

	"link-graph/backend/internal/graph"
	"link-graph/backend/internal/services"
	apperrors "link-graph/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

func (h *Handler) globalSearch(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, apperrors.NewInvalidArgument(`Search query parameter "q" is required`))
		return
	}
	opts, err := listOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.svc.Search.Global(c.Request.Context(), q, opts)
	if err != nil {
		fail(c, err)
		return
	}
	results(c, page)
}

func (h *Handler) filteredSearch(c *gin.Context) {
	opts, err := listOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	filter := services.SearchFilter{
		Type:       strings.TrimSpace(c.Query("type")),
		Place:      strings.TrimSpace(c.Query("place")),
		EntityType: strings.TrimSpace(c.Query("entityType")),
		Search:     strings.TrimSpace(c.Query("search")),
	}
	page, err := h.svc.Search.Filtered(c.Request.Context(), filter, opts)
	if err != nil {
		fail(c, err)
		return
	}
	results(c, page)
}

func results(c *gin.Context, page graph.Page[services.SearchResult]) {
	c.JSON(http.StatusOK, searchEnvelope{Success: true, Results: page.Items, Pagination: page.Pagination})
}
