package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned by every store when the requested record is absent.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key (user email, profile owner) is taken.
	ErrDuplicate = errors.New("duplicate key")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
}
