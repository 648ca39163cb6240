package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector-api/internal/application"
	"github.com/oksasatya/devconnector-api/internal/interface/middleware"
	"github.com/oksasatya/devconnector-api/pkg/helpers"
	"github.com/oksasatya/devconnector-api/pkg/response"
	"github.com/oksasatya/devconnector-api/pkg/validation"
)

var notFoundMsgs = map[error]string{
	application.ErrUserNotFound:    "User not found",
	application.ErrProfileNotFound: "Profile not found",
	application.ErrPostNotFound:    "Post not found",
	application.ErrCommentNotFound: "Comment does not exist",
	application.ErrEntryNotFound:   "Entry not found",
	application.ErrNoGitHubProfile: "No Github profile found",
}

// bind decodes the JSON body into req and answers 400 on failure.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Errors(c, validation.ToErrors(err, req)...)
		return false
	}
	return true
}

// writeError maps a service error onto the wire. Anything unrecognized is
// logged and answered with the plain-text 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var ve *application.ValidationError
	if errors.As(err, &ve) {
		response.Errors(c, response.ErrorItem{Msg: ve.Msg, Param: ve.Field, Location: "body"})
		return
	}
	for target, msg := range notFoundMsgs {
		if errors.Is(err, target) {
			response.Msg(c, http.StatusNotFound, msg)
			return
		}
	}

	switch {
	case errors.Is(err, application.ErrUserExists):
		response.Errors(c, response.ErrorItem{Msg: "User already exists"})
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Errors(c, response.ErrorItem{Msg: "Invalid Credentials"})
	case errors.Is(err, application.ErrForbidden):
		response.Msg(c, http.StatusUnauthorized, "User not authorized")
	case errors.Is(err, application.ErrAlreadyLiked):
		response.Msg(c, http.StatusBadRequest, "Post already liked")
	case errors.Is(err, application.ErrNotLiked):
		response.Msg(c, http.StatusBadRequest, "Post has not yet been liked")
	case errors.Is(err, application.ErrUploadUnavailable):
		response.Msg(c, http.StatusServiceUnavailable, "Avatar upload is not configured")
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString(middleware.CtxRequestIDKey),
			"path":       c.FullPath(),
		})
		response.ServerError(c)
	}
}
