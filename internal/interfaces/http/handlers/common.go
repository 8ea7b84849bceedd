// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartlex/lexml/pkg/errors"
	"github.com/smartlex/lexml/pkg/types/common"
)

// requestIDKey is the gin context key holding the request ID.
const requestIDKey = "request_id"

// RequestID returns the request ID for c, generating one when the
// middleware has not set it.
func RequestID(c *gin.Context) string {
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}

// SetRequestID stores the request ID on the context.
func SetRequestID(c *gin.Context, id string) {
	c.Set(requestIDKey, id)
}

// respondOK writes a success envelope.
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, common.NewSuccessResponse(data, RequestID(c)))
}

// respondError maps err to its HTTP status and writes a failure envelope.
// Internal details never reach the client; the full error is expected to be
// logged by the middleware.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()

	message := "internal server error"
	detail := ""
	var ae *errors.AppError
	if errors.As(err, &ae) && status < http.StatusInternalServerError {
		message = ae.Message
		detail = ae.Detail
	}

	c.AbortWithStatusJSON(status, common.NewErrorResponse(code.String(), message, detail, RequestID(c)))
}
