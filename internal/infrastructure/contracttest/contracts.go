// Package contracttest holds behavior suites every repository implementation
// must pass, whatever its backing store.
package contracttest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	"github.com/oksasatya/devconnector-api/internal/domain/repository"
)

type CleanupFunc = func()

type UserRepoFactory func(t *testing.T) (repository.UserRepository, CleanupFunc)
type ProfileRepoFactory func(t *testing.T) (repository.ProfileRepository, CleanupFunc)
type PostRepoFactory func(t *testing.T) (repository.PostRepository, CleanupFunc)

// stamp returns a UTC time at millisecond precision, the coarsest any store keeps.
func stamp(offset time.Duration) time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Add(offset).Truncate(time.Millisecond)
}

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	r, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	id := uuid.NewString()
	email := "ann+" + id[:8] + "@x.com"
	u := &entity.User{
		ID:        id,
		Name:      "Ann",
		Email:     email,
		Password:  "$2a$10$hash",
		AvatarURL: "//www.gravatar.com/avatar/abc",
		CreatedAt: stamp(0),
		UpdatedAt: stamp(0),
	}
	require.NoError(t, r.Create(ctx, u))

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, email, got.Email)
	assert.Equal(t, u.Password, got.Password)
	assert.Equal(t, u.AvatarURL, got.AvatarURL)

	got, err = r.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	dup := *u
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, r.Create(ctx, &dup), repository.ErrDuplicate)

	_, err = r.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.GetByEmail(ctx, "nobody+"+id[:8]+"@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got.Name = "Ann B"
	got.AvatarURL = "https://storage.googleapis.com/b/a.png"
	require.NoError(t, r.Update(ctx, got))
	got, err = r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", got.Name)
	assert.Equal(t, "https://storage.googleapis.com/b/a.png", got.AvatarURL)

	missing := *u
	missing.ID = uuid.NewString()
	missing.Email = "missing+" + id[:8] + "@x.com"
	assert.ErrorIs(t, r.Update(ctx, &missing), repository.ErrNotFound)

	require.NoError(t, r.Delete(ctx, id))
	_, err = r.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, id), repository.ErrNotFound)
}

func RunProfileRepo(t *testing.T, newRepo ProfileRepoFactory) {
	t.Helper()
	ctx := context.Background()

	r, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	userID := uuid.NewString()
	_, err := r.FindByUser(ctx, userID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	to := stamp(24 * time.Hour)
	p := &entity.Profile{
		ID:             uuid.NewString(),
		UserID:         userID,
		Status:         "Developer",
		Company:        "Acme",
		GitHubUsername: "ann",
		Skills:         []string{"Go", "Rust"},
		Social:         map[string]string{"twitter": "https://twitter.com/ann"},
		Experience: []entity.Experience{
			{ID: "e2", Title: "Lead", Company: "Acme", From: stamp(48 * time.Hour), Current: true},
			{ID: "e1", Title: "Dev", Company: "Initech", From: stamp(0), To: &to},
		},
		Education: []entity.Education{
			{ID: "d1", School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: stamp(0), To: &to},
		},
		CreatedAt: stamp(0),
		UpdatedAt: stamp(0),
	}
	require.NoError(t, r.Upsert(ctx, p))

	got, err := r.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "Developer", got.Status)
	assert.Equal(t, []string{"Go", "Rust"}, got.Skills)
	assert.Equal(t, "https://twitter.com/ann", got.Social["twitter"])
	require.Len(t, got.Experience, 2)
	assert.Equal(t, "e2", got.Experience[0].ID)
	assert.Nil(t, got.Experience[0].To)
	require.NotNil(t, got.Experience[1].To)
	assert.True(t, to.Equal(*got.Experience[1].To))
	assert.True(t, stamp(0).Equal(got.Experience[1].From))
	require.Len(t, got.Education, 1)
	assert.Equal(t, "CS", got.Education[0].FieldOfStudy)

	// A returned profile is a copy.
	got.Skills[0] = "Changed"
	again, err := r.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Go", again.Skills[0])

	// Upsert on an existing owner replaces the document.
	again.Skills = []string{"Go"}
	again.Experience = again.Experience[1:]
	require.NoError(t, r.Upsert(ctx, again))
	got, err = r.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, []string{"Go"}, got.Skills)
	require.Len(t, got.Experience, 1)
	assert.Equal(t, "e1", got.Experience[0].ID)

	all, err := r.List(ctx)
	require.NoError(t, err)
	found := false
	for _, x := range all {
		if x.UserID == userID {
			found = true
		}
	}
	assert.True(t, found, "listed profiles must include the upserted one")

	require.NoError(t, r.DeleteByUser(ctx, userID))
	_, err = r.FindByUser(ctx, userID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, r.DeleteByUser(ctx, userID), repository.ErrNotFound)
}

func RunPostRepo(t *testing.T, newRepo PostRepoFactory) {
	t.Helper()
	ctx := context.Background()

	r, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	author := uuid.NewString()
	older := &entity.Post{ID: uuid.NewString(), UserID: author, Text: "first", Name: "Ann",
		Likes: []entity.Like{}, Comments: []entity.Comment{}, CreatedAt: stamp(0)}
	newer := &entity.Post{ID: uuid.NewString(), UserID: author, Text: "second", Name: "Ann",
		Likes: []entity.Like{}, Comments: []entity.Comment{}, CreatedAt: stamp(time.Hour)}
	require.NoError(t, r.Create(ctx, older))
	require.NoError(t, r.Create(ctx, newer))

	got, err := r.FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Text)
	assert.Equal(t, author, got.UserID)
	assert.Empty(t, got.Likes)

	_, err = r.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := r.List(ctx)
	require.NoError(t, err)
	var order []string
	for _, p := range list {
		if p.UserID == author {
			order = append(order, p.ID)
		}
	}
	assert.Equal(t, []string{newer.ID, older.ID}, order)

	got.Likes = []entity.Like{{ID: "l1", UserID: "u2"}}
	got.Comments = []entity.Comment{{ID: "c1", UserID: "u2", Text: "hi", Name: "Bob", CreatedAt: stamp(2 * time.Hour)}}
	require.NoError(t, r.Save(ctx, got))
	got, err = r.FindByID(ctx, older.ID)
	require.NoError(t, err)
	require.Len(t, got.Likes, 1)
	assert.Equal(t, "u2", got.Likes[0].UserID)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "hi", got.Comments[0].Text)
	assert.True(t, stamp(2*time.Hour).Equal(got.Comments[0].CreatedAt))

	ghost := *older
	ghost.ID = uuid.NewString()
	assert.ErrorIs(t, r.Save(ctx, &ghost), repository.ErrNotFound)

	require.NoError(t, r.Delete(ctx, newer.ID))
	_, err = r.FindByID(ctx, newer.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, newer.ID), repository.ErrNotFound)

	n, err := r.DeleteByUser(ctx, author)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = r.FindByID(ctx, older.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
