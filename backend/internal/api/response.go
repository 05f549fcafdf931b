package api

import (
	"net/http"

	"link-graph/backend/internal/graph"
	apperrors "link-graph/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// envelope is the body of every JSON response
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details []string    `json:"details,omitempty"`
}

type pageEnvelope struct {
	Success    bool             `json:"success"`
	Data       interface{}      `json:"data"`
	Pagination graph.Pagination `json:"pagination"`
}

type searchEnvelope struct {
	Success    bool             `json:"success"`
	Results    interface{}      `json:"results"`
	Pagination graph.Pagination `json:"pagination"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func created(c *gin.Context, data interface{}, resource string) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data, Message: resource + " created successfully"})
}

func updated(c *gin.Context, data interface{}, resource string) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Message: resource + " updated successfully"})
}

func deleted(c *gin.Context, resource string) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: resource + " deleted successfully"})
}

func paged[T any](c *gin.Context, page graph.Page[T]) {
	c.JSON(http.StatusOK, pageEnvelope{Success: true, Data: page.Items, Pagination: page.Pagination})
}

// fail writes err as an error envelope. Internal failures are logged and
// answered without the wrapped cause.
func fail(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	body := envelope{Success: false, Error: apperrors.PublicMessage(err)}
	if base, found := apperrors.AsBaseError(err); found {
		body.Details = base.Details
	}
	if status >= http.StatusInternalServerError {
		requestLogger(c).Error("Request failed", zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
