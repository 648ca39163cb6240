package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	"github.com/oksasatya/devconnector-api/internal/domain/repository"
	"github.com/oksasatya/devconnector-api/internal/infrastructure/contracttest"
)

func TestContract_UserRepository(t *testing.T) {
	contracttest.RunUserRepo(t, func(t *testing.T) (repository.UserRepository, func()) {
		t.Helper()
		return NewUserRepository(), nil
	})
}

func TestContract_ProfileRepository(t *testing.T) {
	contracttest.RunProfileRepo(t, func(t *testing.T) (repository.ProfileRepository, func()) {
		t.Helper()
		return NewProfileRepository(), nil
	})
}

func TestContract_PostRepository(t *testing.T) {
	contracttest.RunPostRepo(t, func(t *testing.T) (repository.PostRepository, func()) {
		t.Helper()
		return NewPostRepository(), nil
	})
}

func TestProfileSearch(t *testing.T) {
	ctx := context.Background()
	s := NewProfileSearch()
	require.NoError(t, s.Index(ctx, entity.ProfileSummary{UserID: "a", Name: "Ann", Status: "Developer", Skills: []string{"Go", "Rust"}}))
	require.NoError(t, s.Index(ctx, entity.ProfileSummary{UserID: "b", Name: "Bob", Status: "Designer", Skills: []string{"Figma"}}))

	hits, err := s.Search(ctx, "rust", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].UserID)

	hits, err = s.Search(ctx, "de", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	require.NoError(t, s.Remove(ctx, "a"))
	hits, err = s.Search(ctx, "rust", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestProfileRepository_EmptySkillsStayEmpty(t *testing.T) {
	ctx := context.Background()
	r := NewProfileRepository()
	require.NoError(t, r.Upsert(ctx, &entity.Profile{ID: "p1", UserID: "u1", Status: "Dev", Skills: []string{}}))

	p, err := r.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, p.Skills)
	assert.Empty(t, p.Skills)
}
