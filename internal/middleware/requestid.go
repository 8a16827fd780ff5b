package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key under which the request identifier is stored.
const RequestIDKey = "request_id"

// requestIDHeader is the wire header carrying the identifier.
const requestIDHeader = "X-Request-ID"

// RequestID is a Gin middleware that tags every request with an identifier
// for correlation across logs and clients.
//
// Behavior:
//   - Reuses an X-Request-ID supplied by the caller (gateways and retries
//     keep their correlation ID), otherwise generates a UUID v4.
//   - Stores the ID in the Gin context under RequestIDKey.
//   - Echoes it back in the response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)

		c.Next()
	}
}
