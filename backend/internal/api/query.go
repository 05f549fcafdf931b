package api

import (
	"strconv"
	"strings"

	"link-graph/backend/internal/graph"
	apperrors "link-graph/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// listOptions reads page, limit, sort and order. Range and whitelist checks
// happen in the services; only the number format is checked here.
func listOptions(c *gin.Context) (graph.ListOptions, error) {
	var opts graph.ListOptions
	var err error

	if opts.Page, err = intParam(c, "page"); err != nil {
		return opts, err
	}
	if opts.Limit, err = intParam(c, "limit"); err != nil {
		return opts, err
	}
	opts.Sort = strings.TrimSpace(c.Query("sort"))
	opts.Order = graph.SortOrder(strings.TrimSpace(c.Query("order")))
	return opts, nil
}

func intParam(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperrors.NewInvalidArgument(name + " must be a positive integer")
	}
	return n, nil
}
