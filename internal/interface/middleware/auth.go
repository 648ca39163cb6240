package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/devconnector-api/pkg/response"
)

const CtxUserIDKey = "userID"

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// TokenValidator resolves a bearer token to the subject id it carries.
type TokenValidator interface {
	Validate(token string) (string, error)
}

type subjectKey struct{}

// WithSubject returns ctx carrying the authenticated user id.
func WithSubject(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, subjectKey{}, userID)
}

// SubjectFromContext returns the user id bound by Auth, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(subjectKey{}).(string)
	return id, ok && id != ""
}

// Auth reads the bearer token from header and validates it. It never touches
// a store. Missing and invalid tokens both answer 401; expired and malformed
// tokens are indistinguishable to the caller.
func Auth(header string, v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(header))
		if token == "" {
			response.Msg(c, http.StatusUnauthorized, msgNoToken)
			return
		}
		userID, err := v.Validate(token)
		if err != nil {
			response.Msg(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Request = c.Request.WithContext(WithSubject(c.Request.Context(), userID))
		c.Next()
	}
}

// UserID returns the id bound by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
