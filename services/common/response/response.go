package response

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "swn-microservices/services/common/errors"
)

// Envelope is the uniform success body every handler returns.
type Envelope struct {
	Message string      `json:"message"`
	Body    interface{} `json:"body,omitempty"`
}

// ErrorEnvelope is the uniform failure body.
type ErrorEnvelope struct {
	Message    string `json:"message"`
	ErrorMsg   string `json:"errorMsg"`
	ErrorStack string `json:"errorStack,omitempty"`
}

// OK writes a 200 with the success envelope.
func OK(c *gin.Context, message string, body interface{}) {
	c.JSON(http.StatusOK, Envelope{Message: message, Body: body})
}

// Fail writes the failure envelope. Application errors keep their own status
// code; anything else collapses to 500 with a stack for the server log
// contract. Validation and not-found failures carry no stack.
func Fail(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.Error); ok {
		env := ErrorEnvelope{
			Message:  "Failed to perform operation.",
			ErrorMsg: appErr.Error(),
		}
		if appErr.Code >= http.StatusInternalServerError {
			env.ErrorStack = string(debug.Stack())
		}
		c.JSON(appErr.Code, env)
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorEnvelope{
		Message:    "Failed to perform operation.",
		ErrorMsg:   err.Error(),
		ErrorStack: string(debug.Stack()),
	})
}
