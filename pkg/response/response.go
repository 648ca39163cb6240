package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message is the body of every single-message failure: {"msg": "..."}.
type Message struct {
	Msg string `json:"msg"`
}

// ErrorItem mirrors one validation failure.
type ErrorItem struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// ErrorList is the body of a 400 validation failure: {"errors": [...]}.
type ErrorList struct {
	Errors []ErrorItem `json:"errors"`
}

const serverError = "Server Error"

// OK writes data as JSON with status (200 when zero).
func OK[T any](c *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, data)
}

// Msg writes {"msg": msg} and aborts the chain.
func Msg(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Message{Msg: msg})
}

// Errors writes {"errors": items} with status 400 and aborts the chain.
func Errors(c *gin.Context, items ...ErrorItem) {
	if items == nil {
		items = []ErrorItem{}
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorList{Errors: items})
}

// ServerError writes the plain-text 500 body and aborts the chain.
func ServerError(c *gin.Context) {
	c.Abort()
	c.String(http.StatusInternalServerError, serverError)
}
