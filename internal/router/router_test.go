package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector-api/config"
	"github.com/oksasatya/devconnector-api/internal/container"
	"github.com/oksasatya/devconnector-api/pkg/validation"
)

type api struct {
	t *testing.T
	h http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{
		Env:         "test",
		StoreDriver: config.StoreDriverMemory,
		JWTSecret:   "test-secret",
		JWTTTL:      time.Hour,
		AuthHeader:  "x-auth-token",
	}
	return &api{t: t, h: NewEngine(container.NewInMemory(cfg, logger))}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// register creates an account and returns its token and user id.
func (a *api) register(name, email string) (string, string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/users", "", map[string]string{"name": name, "email": email, "password": "secret"})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	tok := decode[map[string]string](a.t, rec)["token"]
	require.NotEmpty(a.t, tok)

	rec = a.do(http.MethodGet, "/api/auth", tok, nil)
	require.Equal(a.t, http.StatusOK, rec.Code)
	me := decode[map[string]any](a.t, rec)
	assert.NotContains(a.t, me, "password")
	return tok, me["_id"].(string)
}

type errorsBody struct {
	Errors []struct {
		Msg   string `json:"msg"`
		Param string `json:"param"`
	} `json:"errors"`
}

type msgBody struct {
	Msg string `json:"msg"`
}

func TestRegisterThenProfileSkillsAreSplit(t *testing.T) {
	a := newAPI(t)
	tok, id := a.register("Ann", "a@x.com")

	rec := a.do(http.MethodPost, "/api/profile", tok, map[string]string{
		"status":  "Developer",
		"skills":  "Go, Rust",
		"twitter": "https://twitter.com/ann",
		"myspace": "https://myspace.com/ann",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	type profile struct {
		Skills []string          `json:"skills"`
		Social map[string]string `json:"social"`
		User   struct {
			ID   string `json:"_id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	rec = a.do(http.MethodGet, "/api/profile/me", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[profile](t, rec)
	assert.Equal(t, []string{"Go", "Rust"}, p.Skills)
	assert.Equal(t, map[string]string{"twitter": "https://twitter.com/ann"}, p.Social)
	assert.Equal(t, "Ann", p.User.Name)

	rec = a.do(http.MethodGet, "/api/profile/user/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decode[profile](t, rec).User.ID)

	rec = a.do(http.MethodGet, "/api/profile", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]profile](t, rec), 1)

	rec = a.do(http.MethodGet, "/api/profile/search?q=rust", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestAccessGuard(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/api/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token, authorization denied", decode[msgBody](t, rec).Msg)

	rec = a.do(http.MethodGet, "/api/posts", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token is not valid", decode[msgBody](t, rec).Msg)
}

func TestRegisterAndLoginValidation(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/users", "", map[string]string{"email": "bad", "password": "123"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var msgs []string
	for _, e := range decode[errorsBody](t, rec).Errors {
		msgs = append(msgs, e.Msg)
	}
	assert.Equal(t, []string{
		"Name is required",
		"Please include a valid email",
		"Please enter a password with 6 or more characters",
	}, msgs)

	a.register("Ann", "ann@x.com")
	rec = a.do(http.MethodPost, "/api/users", "", map[string]string{"name": "Ann", "email": "ANN@x.com", "password": "secret"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decode[errorsBody](t, rec).Errors[0].Msg)

	rec = a.do(http.MethodPost, "/api/auth", "", map[string]string{"email": "ann@x.com", "password": "wrong!"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid Credentials", decode[errorsBody](t, rec).Errors[0].Msg)

	rec = a.do(http.MethodPost, "/api/auth", "", map[string]string{"email": "ann@x.com", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[map[string]string](t, rec)["token"])
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/users", "", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": strings.Repeat("a", 73),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decode[errorsBody](t, rec).Errors
	require.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].Param)

	// the rejected registration left no account behind
	rec = a.do(http.MethodPost, "/api/users", "", map[string]string{"name": "Ann", "email": "ann@x.com", "password": "secret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

type post struct {
	ID    string `json:"_id"`
	User  string `json:"user"`
	Name  string `json:"name"`
	Likes []struct {
		User string `json:"user"`
	} `json:"likes"`
	Comments []struct {
		ID   string `json:"_id"`
		User string `json:"user"`
	} `json:"comments"`
}

func TestOnlyAuthorDeletesPost(t *testing.T) {
	a := newAPI(t)
	tokA, idA := a.register("Ann", "a@x.com")
	tokB, _ := a.register("Bob", "b@x.com")

	rec := a.do(http.MethodPost, "/api/posts", tokA, map[string]string{"text": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[post](t, rec)
	assert.Equal(t, idA, p.User)
	assert.Equal(t, "Ann", p.Name)

	rec = a.do(http.MethodDelete, "/api/posts/"+p.ID, tokB, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not authorized", decode[msgBody](t, rec).Msg)

	rec = a.do(http.MethodGet, "/api/posts/"+p.ID, tokB, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodDelete, "/api/posts/"+p.ID, tokA, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post removed", decode[msgBody](t, rec).Msg)

	rec = a.do(http.MethodGet, "/api/posts", tokA, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]post](t, rec))

	rec = a.do(http.MethodGet, "/api/posts/"+p.ID, tokA, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", decode[msgBody](t, rec).Msg)
}

func TestLikeToggle(t *testing.T) {
	a := newAPI(t)
	tok, id := a.register("Ann", "a@x.com")
	rec := a.do(http.MethodPost, "/api/posts", tok, map[string]string{"text": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[post](t, rec)

	rec = a.do(http.MethodPut, "/api/posts/like/"+p.ID, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	likes := decode[[]map[string]any](t, rec)
	require.Len(t, likes, 1)
	assert.Equal(t, id, likes[0]["user"])

	rec = a.do(http.MethodPut, "/api/posts/like/"+p.ID, tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Post already liked", decode[msgBody](t, rec).Msg)

	rec = a.do(http.MethodGet, "/api/posts/"+p.ID, tok, nil)
	assert.Len(t, decode[post](t, rec).Likes, 1)

	rec = a.do(http.MethodPut, "/api/posts/unlike/"+p.ID, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = a.do(http.MethodPut, "/api/posts/unlike/"+p.ID, tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Post has not yet been liked", decode[msgBody](t, rec).Msg)

	rec = a.do(http.MethodPut, "/api/posts/like/missing", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentsBelongToTheirAuthor(t *testing.T) {
	a := newAPI(t)
	tokA, _ := a.register("Ann", "a@x.com")
	tokB, idB := a.register("Bob", "b@x.com")

	rec := a.do(http.MethodPost, "/api/posts", tokA, map[string]string{"text": "hello"})
	p := decode[post](t, rec)

	rec = a.do(http.MethodPost, "/api/posts/comment/"+p.ID, tokB, map[string]string{"text": "hi Ann"})
	require.Equal(t, http.StatusOK, rec.Code)
	comments := decode[[]map[string]any](t, rec)
	require.Len(t, comments, 1)
	assert.Equal(t, idB, comments[0]["user"])
	cid := comments[0]["_id"].(string)

	rec = a.do(http.MethodPost, "/api/posts/comment/"+p.ID, tokB, map[string]string{"text": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Text is required", decode[errorsBody](t, rec).Errors[0].Msg)

	// the post's author does not own the comment
	rec = a.do(http.MethodDelete, "/api/posts/comment/"+p.ID+"/"+cid, tokA, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodDelete, "/api/posts/comment/"+p.ID+"/nope", tokB, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Comment does not exist", decode[msgBody](t, rec).Msg)

	rec = a.do(http.MethodDelete, "/api/posts/comment/"+p.ID+"/"+cid, tokB, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestExperienceAndEducation(t *testing.T) {
	a := newAPI(t)
	tok, _ := a.register("Ann", "a@x.com")

	rec := a.do(http.MethodPut, "/api/profile/experience", tok, map[string]any{"title": "Dev", "company": "Acme", "from": "2020-01-01"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Profile not found", decode[msgBody](t, rec).Msg)

	rec = a.do(http.MethodPost, "/api/profile", tok, map[string]string{"status": "Developer", "skills": "Go"})
	require.Equal(t, http.StatusOK, rec.Code)

	type entry struct {
		ID    string `json:"_id"`
		Title string `json:"title"`
	}
	type profile struct {
		Experience []entry `json:"experience"`
		Education  []struct {
			ID string `json:"_id"`
		} `json:"education"`
	}

	rec = a.do(http.MethodPut, "/api/profile/experience", tok, map[string]any{"title": "Junior", "company": "Acme", "from": "2018-01-01", "to": "2019-12-31"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPut, "/api/profile/experience", tok, map[string]any{"title": "Senior", "company": "Acme", "from": "2020-01-01", "current": true})
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[profile](t, rec)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "Senior", p.Experience[0].Title)
	assert.Equal(t, "Junior", p.Experience[1].Title)

	rec = a.do(http.MethodPut, "/api/profile/experience", tok, map[string]any{"title": "X", "company": "Y", "from": "2020-01-01", "to": "2019-01-01"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPut, "/api/profile/experience", tok, map[string]any{"title": "X", "company": "Y", "from": "yesterday"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodDelete, "/api/profile/experience/unknown", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodDelete, "/api/profile/experience/"+p.Experience[1].ID, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p = decode[profile](t, rec)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Senior", p.Experience[0].Title)

	rec = a.do(http.MethodPut, "/api/profile/education", tok, map[string]any{"school": "MIT", "degree": "BSc", "fieldofstudy": "CS", "from": "2014-09-01T00:00:00Z"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p = decode[profile](t, rec)
	require.Len(t, p.Education, 1)

	rec = a.do(http.MethodDelete, "/api/profile/education/"+p.Education[0].ID, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[profile](t, rec).Education)
}

func TestDeleteAccount(t *testing.T) {
	a := newAPI(t)
	tok, id := a.register("Ann", "a@x.com")
	a.do(http.MethodPost, "/api/profile", tok, map[string]string{"status": "Developer", "skills": "Go"})
	a.do(http.MethodPost, "/api/posts", tok, map[string]string{"text": "bye"})

	rec := a.do(http.MethodDelete, "/api/profile", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted", decode[msgBody](t, rec).Msg)

	rec = a.do(http.MethodGet, "/api/auth", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodGet, "/api/profile/user/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGitHubWithoutLookupConfigured(t *testing.T) {
	a := newAPI(t)
	rec := a.do(http.MethodGet, "/api/profile/github/octocat", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No Github profile found", decode[msgBody](t, rec).Msg)
}

func TestUnknownRoute(t *testing.T) {
	a := newAPI(t)
	rec := a.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegistryMountsEveryModuleOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c := container.NewInMemory(&config.Config{AuthHeader: "x-auth-token", JWTSecret: "s", JWTTTL: time.Hour}, logger)

	reg := NewRegistry(gin.New(), "/api")
	InitModules(reg, c)
	reg.RegisterAll()
	reg.RegisterAll()

	routes := reg.Routes()
	assert.Contains(t, routes, "POST /api/users")
	assert.Contains(t, routes, "DELETE /api/posts/comment/:id/:comment_id")
	assert.Contains(t, routes, "PUT /api/profile/education")
	assert.NotContains(t, routes, "GET /api/debug/vars")
	assert.Len(t, routes, 23)
}
