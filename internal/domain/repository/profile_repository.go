package repository

import (
	"context"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
)

// ProfileRepository stores one profile document per user. Experience and
// education entries live inside the document.
type ProfileRepository interface {
	FindByUser(ctx context.Context, userID string) (*entity.Profile, error)
	List(ctx context.Context) ([]entity.Profile, error)
	// Upsert creates the profile when the user has none, otherwise replaces it.
	Upsert(ctx context.Context, p *entity.Profile) error
	DeleteByUser(ctx context.Context, userID string) error
}
