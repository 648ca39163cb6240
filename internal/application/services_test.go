package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector-api/config"
	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	repo "github.com/oksasatya/devconnector-api/internal/domain/repository"
	"github.com/oksasatya/devconnector-api/internal/infrastructure/memory"
	"github.com/oksasatya/devconnector-api/pkg/helpers"
	"github.com/oksasatya/devconnector-api/pkg/mailer"
)

type fakeJobs struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (f *fakeJobs) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, body.(mailer.EmailJob))
	return nil
}

type fakeRepos struct {
	repos map[string][]map[string]any
}

func (f fakeRepos) ListRepos(_ context.Context, username string) ([]map[string]any, error) {
	r, ok := f.repos[username]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return r, nil
}

type testEnv struct {
	users    *UserService
	profiles *ProfileService
	posts    *PostService
	creds    *CredentialService
	postRepo *memory.PostRepository
	jobs     *fakeJobs
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	users := memory.NewUserRepository()
	profiles := memory.NewProfileRepository()
	posts := memory.NewPostRepository()
	index := memory.NewProfileSearch()
	creds := NewCredentialService(helpers.NewJWTManager("test-secret", time.Hour))
	jobs := &fakeJobs{}

	us := NewUserService(users, profiles, posts, creds, nil)
	us.Jobs = jobs
	us.Index = index
	us.Config = &config.Config{AppName: "DevConnector", ProfileURL: "http://localhost:3000/profile"}

	ps := NewProfileService(profiles, users, nil)
	ps.Index = index
	ps.Repos = fakeRepos{repos: map[string][]map[string]any{"ann": {{"name": "dotfiles"}}}}

	return &testEnv{
		users:    us,
		profiles: ps,
		posts:    NewPostService(posts, users, nil),
		creds:    creds,
		postRepo: posts,
		jobs:     jobs,
	}
}

func (e *testEnv) register(t *testing.T, name, email string) string {
	t.Helper()
	tok, err := e.users.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret"})
	require.NoError(t, err)
	id, err := e.creds.Validate(tok)
	require.NoError(t, err)
	return id
}

func TestRegisterAndLogin(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	id := env.register(t, "Ann", "A@X.com")
	u, err := env.users.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, helpers.GravatarURL("a@x.com"), u.Avatar)

	_, err = env.users.Register(ctx, RegisterInput{Name: "Ann", Email: "a@x.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrUserExists)

	tok, err := env.users.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)
	sub, err := env.creds.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, id, sub)

	_, err = env.users.Login(ctx, "a@x.com", "wrong1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.users.Login(ctx, "nobody@x.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.Len(t, env.jobs.jobs, 1)
	assert.Equal(t, "welcome", env.jobs.jobs[0].Template)
	assert.Equal(t, "a@x.com", env.jobs.jobs[0].To)
	assert.Equal(t, "Ann", env.jobs.jobs[0].Data["Name"])
}

func TestProfileUpsert_SplitsSkillsAndFiltersSocial(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.register(t, "Ann", "a@x.com")

	_, err := env.profiles.Mine(ctx, id)
	require.ErrorIs(t, err, ErrProfileNotFound)

	v, err := env.profiles.Upsert(ctx, id, ProfileInput{
		Status:  "Developer",
		Company: "Acme",
		Skills:  "Go, Rust",
		Social:  map[string]string{"twitter": "https://twitter.com/ann", "myspace": "x", "youtube": ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, v.Skills)
	assert.Equal(t, map[string]string{"twitter": "https://twitter.com/ann"}, v.Social)
	assert.Equal(t, "Ann", v.User.Name)

	first := v.ID
	v, err = env.profiles.Upsert(ctx, id, ProfileInput{Status: "Lead", Skills: " Go ,, Zig "})
	require.NoError(t, err)
	assert.Equal(t, first, v.ID)
	assert.Equal(t, "Acme", v.Company, "empty fields keep their stored value")
	assert.Equal(t, "Lead", v.Status)
	assert.Equal(t, []string{"Go", "Zig"}, v.Skills)

	got, err := env.profiles.ByUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Zig"}, got.Skills)

	all, err := env.profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	hits, err := env.profiles.Search(ctx, "zig", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0].UserID)
}

func TestProfileExperienceAndEducation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id := env.register(t, "Ann", "a@x.com")

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := env.profiles.AddExperience(ctx, id, entity.Experience{Title: "Dev", Company: "Acme", From: from})
	require.ErrorIs(t, err, ErrProfileNotFound)

	_, err = env.profiles.Upsert(ctx, id, ProfileInput{Status: "Dev", Skills: "Go"})
	require.NoError(t, err)

	_, err = env.profiles.AddExperience(ctx, id, entity.Experience{Title: "Dev", Company: "Acme", From: from})
	require.NoError(t, err)
	to := from.Add(24 * time.Hour)
	v, err := env.profiles.AddExperience(ctx, id, entity.Experience{Title: "Lead", Company: "Initech", From: from, To: &to, Current: true})
	require.NoError(t, err)
	require.Len(t, v.Experience, 2)
	assert.Equal(t, "Lead", v.Experience[0].Title)
	assert.Nil(t, v.Experience[0].To, "current entries have no end date")
	assert.NotEqual(t, v.Experience[0].ID, v.Experience[1].ID)

	before := from.Add(-time.Hour)
	_, err = env.profiles.AddExperience(ctx, id, entity.Experience{Title: "X", Company: "Y", From: from, To: &before})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "to", verr.Field)

	_, err = env.profiles.RemoveExperience(ctx, id, "missing")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	v, err = env.profiles.RemoveExperience(ctx, id, v.Experience[1].ID)
	require.NoError(t, err)
	require.Len(t, v.Experience, 1)
	assert.Equal(t, "Lead", v.Experience[0].Title)

	v, err = env.profiles.AddEducation(ctx, id, entity.Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: from})
	require.NoError(t, err)
	require.Len(t, v.Education, 1)
	v, err = env.profiles.RemoveEducation(ctx, id, v.Education[0].ID)
	require.NoError(t, err)
	assert.Empty(t, v.Education)
}

func TestGitHubRepos(t *testing.T) {
	env := newEnv(t)
	repos, err := env.profiles.GitHubRepos(context.Background(), "ann")
	require.NoError(t, err)
	assert.Len(t, repos, 1)

	_, err = env.profiles.GitHubRepos(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNoGitHubProfile)
}

func TestPostDelete_OnlyAuthor(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.register(t, "Ann", "a@x.com")
	b := env.register(t, "Bob", "b@x.com")

	p, err := env.posts.Create(ctx, a, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)

	assert.ErrorIs(t, env.posts.Delete(ctx, p.ID, b), ErrForbidden)
	_, err = env.posts.Get(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, env.posts.Delete(ctx, p.ID, a))
	list, err := env.posts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, env.posts.Delete(ctx, p.ID, a), ErrPostNotFound)
}

func TestPostLikeToggle(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.register(t, "Ann", "a@x.com")
	p, err := env.posts.Create(ctx, a, "hello")
	require.NoError(t, err)

	likes, err := env.posts.Like(ctx, p.ID, a)
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	_, err = env.posts.Like(ctx, p.ID, a)
	assert.ErrorIs(t, err, ErrAlreadyLiked)
	got, err := env.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 1)

	likes, err = env.posts.Unlike(ctx, p.ID, a)
	require.NoError(t, err)
	assert.Empty(t, likes)

	_, err = env.posts.Unlike(ctx, p.ID, a)
	assert.ErrorIs(t, err, ErrNotLiked)
	_, err = env.posts.Like(ctx, "missing", a)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostComments_OwnedByCommentAuthor(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.register(t, "Ann", "a@x.com")
	b := env.register(t, "Bob", "b@x.com")
	p, err := env.posts.Create(ctx, a, "hello")
	require.NoError(t, err)

	_, err = env.posts.Comment(ctx, p.ID, a, "first")
	require.NoError(t, err)
	comments, err := env.posts.Comment(ctx, p.ID, b, "second")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text)
	assert.Equal(t, "Bob", comments[0].Name)

	// The post's author cannot remove someone else's comment.
	_, err = env.posts.Uncomment(ctx, p.ID, comments[0].ID, a)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.posts.Uncomment(ctx, p.ID, "missing", b)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	left, err := env.posts.Uncomment(ctx, p.ID, comments[0].ID, b)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "first", left[0].Text)

	_, err = env.posts.Comment(ctx, "missing", a, "x")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeleteAccount(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.register(t, "Ann", "a@x.com")
	b := env.register(t, "Bob", "b@x.com")
	_, err := env.profiles.Upsert(ctx, a, ProfileInput{Status: "Dev", Skills: "Go"})
	require.NoError(t, err)
	_, err = env.posts.Create(ctx, a, "mine")
	require.NoError(t, err)
	kept, err := env.posts.Create(ctx, b, "theirs")
	require.NoError(t, err)

	require.NoError(t, env.users.DeleteAccount(ctx, a))

	_, err = env.users.GetUser(ctx, a)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = env.profiles.ByUser(ctx, a)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	list, err := env.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)

	hits, err := env.profiles.Search(ctx, "dev", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	last := env.jobs.jobs[len(env.jobs.jobs)-1]
	assert.Equal(t, "account_deleted", last.Template)
}

func TestUploadAvatar_Unconfigured(t *testing.T) {
	env := newEnv(t)
	_, err := env.users.UploadAvatar(context.Background(), "u", nil, "a.png", "image/png")
	assert.ErrorIs(t, err, ErrUploadUnavailable)
}

type brokenPosts struct {
	*memory.PostRepository
}

func (brokenPosts) List(context.Context) ([]entity.Post, error) {
	return nil, errors.New("connection reset")
}

func TestStoreFailuresAreStoreErrors(t *testing.T) {
	env := newEnv(t)
	svc := NewPostService(brokenPosts{env.postRepo}, env.users.Users, nil)

	_, err := svc.List(context.Background())
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "posts.list", se.Op)
}

func TestCredentialService(t *testing.T) {
	jwt := helpers.NewJWTManager("s3cret", time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jwt.SetNowForTest(func() time.Time { return now })
	c := NewCredentialService(jwt)

	tok, err := c.Issue("user-1", 0)
	require.NoError(t, err)
	sub, err := c.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	now = now.Add(time.Minute + time.Second)
	_, err = c.Validate(tok)
	assert.ErrorIs(t, err, helpers.ErrExpiredToken)

	_, err = c.Validate("garbage")
	assert.ErrorIs(t, err, helpers.ErrMalformedToken)

	h1, err := c.Hash("secret")
	require.NoError(t, err)
	h2, err := c.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	assert.True(t, c.Verify("secret", h1))
	assert.False(t, c.Verify("other", h1))
	assert.False(t, c.Verify("secret", "not-a-hash"))

	_, err = c.Hash(strings.Repeat("x", 73))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
}
