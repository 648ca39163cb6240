package repository

import (
	"context"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
)

// PostRepository stores post documents with likes and comments embedded.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	FindByID(ctx context.Context, id string) (*entity.Post, error)
	// List returns every post, newest first.
	List(ctx context.Context) ([]entity.Post, error)
	// Save replaces the stored post with p. Last write wins.
	Save(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
