package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/server/internal/apperr"
	"github.com/hostelhub/server/internal/helpers"
)

// respondError maps a workflow error onto the taxonomy status and the
// standard envelope. Machine codes ride along when present so operators can
// alert on them.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	message := apperr.MessageOf(err)

	if code := apperr.CodeOf(err); code != "" {
		c.JSON(status, helpers.ErrorResponseWithCode(message, code))
		return
	}
	c.JSON(status, helpers.ErrorResponse(message))
}

// principal pulls the authenticated claims set by the auth middleware.
func principal(c *gin.Context) (*helpers.Claims, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, helpers.ErrorResponse("unauthorized"))
		return nil, false
	}

	claims, ok := userClaims.(*helpers.Claims)
	if !ok {
		c.JSON(http.StatusInternalServerError, helpers.ErrorResponse("invalid user claims"))
		return nil, false
	}

	return claims, true
}

// pagination parses limit/offset query params with the usual defaults.
func pagination(c *gin.Context) (offset, limit int, ok bool) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid limit parameter"))
		return 0, 0, false
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid offset parameter"))
		return 0, 0, false
	}
	return offset, limit, true
}
