package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/findata/internal/domain/dto"
	"github.com/guttosm/findata/internal/logger"
)

// ErrorHandler is a Gin middleware that converts errors attached to the
// context (via c.Error) into the API's standard 500 response, unless a
// handler already wrote a response body.
//
// Handlers that want a specific status should use AbortWithError instead;
// this middleware is the catch-all for errors that bubble up unmapped.
var ErrorHandler gin.HandlerFunc = func(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	rid, _ := c.Get(RequestIDKey)
	logger.L().Error().
		Str("request_id", toString(rid)).
		Err(c.Errors.Last().Err).
		Msg("unhandled request error")

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal Server Error"))
}

// AbortWithError logs the underlying cause and aborts the request with the
// given status and a public message in the standard error envelope. The
// cause never reaches the client.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	logger.L().Error().
		Int("status", status).
		Str("message", message).
		Err(err).
		Msg("request aborted")

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message))
}
