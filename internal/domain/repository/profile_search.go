package repository

import (
	"context"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
)

// ProfileSearch is a secondary, eventually consistent index over profiles.
type ProfileSearch interface {
	Index(ctx context.Context, s entity.ProfileSummary) error
	Remove(ctx context.Context, userID string) error
	Search(ctx context.Context, query string, size int) ([]entity.ProfileSummary, error)
}

// RepoLister lists the public repositories of a code-hosting user. It returns
// ErrNotFound when the username does not exist.
type RepoLister interface {
	ListRepos(ctx context.Context, username string) ([]map[string]any, error)
}
