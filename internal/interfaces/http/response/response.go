package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainerrors "activation-service.backend/internal/domain/errors"
)

// MsgNotFound is the message of the unmatched route envelope
const MsgNotFound = "not found"

// Envelope is the body of every API response
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

var now = time.Now

// Success sends a successful envelope
func Success(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: now().UTC(),
	})
}

// Fail sends an unsuccessful envelope with the given status
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{
		Success:   false,
		Message:   message,
		Timestamp: now().UTC(),
	})
}

// Error maps err to an envelope. AppErrors keep their status and message;
// anything else becomes a generic 500 so internal detail never leaks.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = domainerrors.InternalError(err)
	}
	if err != nil {
		_ = c.Error(err)
	}
	Fail(c, appErr.Status, appErr.Message)
}

// AbortWithError writes the envelope for err and stops the handler chain
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// NotFound sends the unmatched route envelope
func NotFound(c *gin.Context) {
	Fail(c, http.StatusNotFound, MsgNotFound)
}
