package application

import (
	"errors"
	"fmt"

	"github.com/oksasatya/devconnector-api/internal/domain/collection"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrForbidden          = errors.New("user not authorized")
	ErrAlreadyLiked       = errors.New("post already liked")
	ErrNotLiked           = errors.New("post has not yet been liked")
	ErrNoGitHubProfile    = errors.New("no github profile found")
	ErrUploadUnavailable  = errors.New("avatar upload not configured")
)

// ValidationError rejects input that passed binding but is still unusable.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }

// StoreError marks an unexpected persistence failure. It is never retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// mutationErr converts collection errors into the service vocabulary.
func mutationErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, collection.ErrNotFound):
		return notFound
	case errors.Is(err, collection.ErrForbidden):
		return ErrForbidden
	case errors.Is(err, collection.ErrAlreadyExists):
		return ErrAlreadyLiked
	case errors.Is(err, collection.ErrNotPresent):
		return ErrNotLiked
	default:
		return err
	}
}
