package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector-api/internal/application"
	"github.com/oksasatya/devconnector-api/internal/interface/middleware"
	"github.com/oksasatya/devconnector-api/pkg/response"
)

type PostHandler struct {
	Posts  *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(posts *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Posts: posts, Logger: logger}
}

type textRequest struct {
	Text string `json:"text" binding:"notblank" msg:"Text is required"`
}

func (h *PostHandler) Create(c *gin.Context) {
	var req textRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.Posts.Create(c.Request.Context(), middleware.UserID(c), req.Text)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, p)
}

func (h *PostHandler) List(c *gin.Context) {
	ps, err := h.Posts.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, ps)
}

func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.Posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, p)
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.Posts.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, response.Message{Msg: "Post removed"})
}

// Like answers with the post's likes after the change.
func (h *PostHandler) Like(c *gin.Context) {
	likes, err := h.Posts.Like(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, likes)
}

func (h *PostHandler) Unlike(c *gin.Context) {
	likes, err := h.Posts.Unlike(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, likes)
}

// Comment answers with the post's comments after the change.
func (h *PostHandler) Comment(c *gin.Context) {
	var req textRequest
	if !bind(c, &req) {
		return
	}
	comments, err := h.Posts.Comment(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Text)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, comments)
}

func (h *PostHandler) Uncomment(c *gin.Context) {
	comments, err := h.Posts.Uncomment(c.Request.Context(), c.Param("id"), c.Param("comment_id"), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, comments)
}
