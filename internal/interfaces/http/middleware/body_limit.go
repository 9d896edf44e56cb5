package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"activation-service.backend/internal/interfaces/http/response"
)

// MsgBodyTooLarge is returned with 413
const MsgBodyTooLarge = "request body too large"

// BodyLimit caps request bodies at maxBytes. A declared length over the cap is
// refused up front; a body that grows past it fails on read, which handlers
// detect with IsBodyTooLarge.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.Fail(c, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// IsBodyTooLarge reports whether err came from reading past the body limit
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
