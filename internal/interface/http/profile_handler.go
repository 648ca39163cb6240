package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector-api/internal/application"
	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	"github.com/oksasatya/devconnector-api/internal/interface/middleware"
	"github.com/oksasatya/devconnector-api/pkg/response"
)

type ProfileHandler struct {
	Profiles *application.ProfileService
	Users    *application.UserService
	Logger   *logrus.Logger
}

func NewProfileHandler(profiles *application.ProfileService, users *application.UserService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Users: users, Logger: logger}
}

type profileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status" binding:"notblank" msg:"Status is required"`
	Bio            string `json:"bio"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills" binding:"notblank" msg:"Skills is required"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

func (r profileRequest) input() application.ProfileInput {
	return application.ProfileInput{
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Status:         r.Status,
		Bio:            r.Bio,
		GitHubUsername: r.GitHubUsername,
		Skills:         r.Skills,
		Social: map[string]string{
			"youtube":   r.YouTube,
			"twitter":   r.Twitter,
			"facebook":  r.Facebook,
			"linkedin":  r.LinkedIn,
			"instagram": r.Instagram,
		},
	}
}

type experienceRequest struct {
	Title       string `json:"title" binding:"notblank" msg:"Title is required"`
	Company     string `json:"company" binding:"notblank" msg:"Company is required"`
	Location    string `json:"location"`
	From        string `json:"from" binding:"notblank" msg:"From date is required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type educationRequest struct {
	School       string `json:"school" binding:"notblank" msg:"School is required"`
	Degree       string `json:"degree" binding:"notblank" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldofstudy" binding:"notblank" msg:"Field of study is required"`
	From         string `json:"from" binding:"notblank" msg:"From date is required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// Me handles GET /api/profile/me.
func (h *ProfileHandler) Me(c *gin.Context) {
	p, err := h.Profiles.Mine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, p)
}

// Upsert handles POST /api/profile.
func (h *ProfileHandler) Upsert(c *gin.Context) {
	var req profileRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.Profiles.Upsert(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, p)
}

// List handles GET /api/profile.
func (h *ProfileHandler) List(c *gin.Context) {
	ps, err := h.Profiles.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, ps)
}

// ByUser handles GET /api/profile/user/:user_id.
func (h *ProfileHandler) ByUser(c *gin.Context) {
	p, err := h.Profiles.ByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, p)
}

// Delete handles DELETE /api/profile: posts, profile and user go together.
func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.Users.DeleteAccount(c.Request.Context(), middleware.UserID(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, response.Message{Msg: "User deleted"})
}

// AddExperience handles PUT /api/profile/experience.
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	var req experienceRequest
	if !bind(c, &req) {
		return
	}
	from, to, err := parsePeriod(req.From, req.To)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	p, err := h.Profiles.AddExperience(c.Request.Context(), middleware.UserID(c), entity.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, p)
}

// RemoveExperience handles DELETE /api/profile/experience/:exp_id.
func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	p, err := h.Profiles.RemoveExperience(c.Request.Context(), middleware.UserID(c), c.Param("exp_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, p)
}

// AddEducation handles PUT /api/profile/education.
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var req educationRequest
	if !bind(c, &req) {
		return
	}
	from, to, err := parsePeriod(req.From, req.To)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	p, err := h.Profiles.AddEducation(c.Request.Context(), middleware.UserID(c), entity.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, p)
}

// RemoveEducation handles DELETE /api/profile/education/:edu_id.
func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	p, err := h.Profiles.RemoveEducation(c.Request.Context(), middleware.UserID(c), c.Param("edu_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, p)
}

// GitHub handles GET /api/profile/github/:username.
func (h *ProfileHandler) GitHub(c *gin.Context) {
	repos, err := h.Profiles.GitHubRepos(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, repos)
}

// Search handles GET /api/profile/search?q=&size=.
func (h *ProfileHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Profiles.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, hits)
}
