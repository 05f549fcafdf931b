package api

import (
	"net/http"

	apperrors "link-graph/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

type verifyTokenBody struct {
	Token Field[string] `json:"token"`
}

// profile returns the account behind the bearer token
func (h *Handler) profile(c *gin.Context) {
	id, found := identity(c)
	if !found {
		fail(c, apperrors.NewUnauthorized("Authorization token is required", nil))
		return
	}
	user, err := h.svc.Auth.Profile(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user)
}

// verifyToken checks a token sent in the body or the Authorization header
func (h *Handler) verifyToken(c *gin.Context) {
	var body verifyTokenBody
	if err := bindBody(c, &body); err != nil {
		fail(c, err)
		return
	}
	token := body.Token.OrZero()
	if token == "" {
		token = bearerToken(c)
	}
	if token == "" {
		fail(c, apperrors.NewInvalidArgument("Token is required"))
		return
	}
	id, err := h.svc.Auth.Verify(c.Request.Context(), token)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Data: id, Message: "Token is valid"})
}
