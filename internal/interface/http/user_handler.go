package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector-api/internal/application"
	"github.com/oksasatya/devconnector-api/internal/interface/middleware"
	"github.com/oksasatya/devconnector-api/pkg/response"
)

// MaxAvatarBytes caps avatar uploads.
const MaxAvatarBytes = 2 << 20

type UserHandler struct {
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

// UploadAvatar handles PUT /api/users/avatar with a multipart "avatar" file.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Errors(c, response.ErrorItem{Msg: "Avatar file is required", Param: "avatar", Location: "body"})
		return
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		response.Errors(c, response.ErrorItem{Msg: "Avatar must be an image", Param: "avatar", Location: "body"})
		return
	}
	if fh.Size > MaxAvatarBytes {
		response.Errors(c, response.ErrorItem{Msg: "Avatar must be at most 2MB", Param: "avatar", Location: "body"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer f.Close()

	url, err := h.Users.UploadAvatar(c.Request.Context(), middleware.UserID(c), f, fh.Filename, ct)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"avatar": url})
}
