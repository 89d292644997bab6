package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/eboard-api/pkg/errors"
)

// ErrorBody is the error contract consumed by the notice board front end.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody acknowledges a mutation.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON sends data as-is; the board front end reads bare payloads.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Message responds with HTTP 200 and a {message} body.
func Message(c *gin.Context, message string) {
	JSON(c, http.StatusOK, MessageBody{Message: message})
}

// Error converts err to the common structure. Server-side failures are
// attached to the gin context for the request logger and never leak
// their cause to the client.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	message := appErr.Message
	if appErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		message = appErrors.ErrInternal.Message
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.AbortWithStatusJSON(appErr.Status, ErrorBody{Error: message})
}
