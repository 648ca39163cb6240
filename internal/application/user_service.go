package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector-api/config"
	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	repo "github.com/oksasatya/devconnector-api/internal/domain/repository"
	"github.com/oksasatya/devconnector-api/pkg/helpers"
	"github.com/oksasatya/devconnector-api/pkg/mailer"
	"github.com/oksasatya/devconnector-api/pkg/mailer/templates"
)

// JobPublisher queues background jobs. *helpers.RabbitPublisher satisfies it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserView is a user without the password hash.
type UserView struct {
	ID     string    `json:"_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

func NewUserView(u *entity.User) *UserView {
	return &UserView{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.AvatarURL, Date: u.CreatedAt}
}

type UserService struct {
	Users    repo.UserRepository
	Profiles repo.ProfileRepository
	Posts    repo.PostRepository
	Creds    *CredentialService
	Logger   *logrus.Logger

	// Optional collaborators; nil disables the feature.
	Index     repo.ProfileSearch
	Jobs      JobPublisher
	GCS       *storage.Client
	GCSBucket string
	Config    *config.Config

	now func() time.Time
}

func NewUserService(users repo.UserRepository, profiles repo.ProfileRepository, posts repo.PostRepository, creds *CredentialService, logger *logrus.Logger) *UserService {
	return &UserService{
		Users:    users,
		Profiles: profiles,
		Posts:    posts,
		Creds:    creds,
		Logger:   logger,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates the account and returns a bearer token for it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	_, err := s.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return "", ErrUserExists
	case !errors.Is(err, repo.ErrNotFound):
		return "", storeErr("users.get_by_email", err)
	}

	hash, err := s.Creds.Hash(in.Password)
	if err != nil {
		return "", err
	}
	now := s.now().UTC()
	u := &entity.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Password:  hash,
		AvatarURL: helpers.GravatarURL(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return "", ErrUserExists
		}
		return "", storeErr("users.create", err)
	}

	tok, err := s.Creds.Issue(u.ID, 0)
	if err != nil {
		return "", err
	}
	s.enqueueEmail(ctx, u, templates.Welcome)
	return tok, nil
}

// Login verifies the credentials and returns a fresh bearer token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", storeErr("users.get_by_email", err)
	}
	if !s.Creds.Verify(password, u.Password) {
		return "", ErrInvalidCredentials
	}
	return s.Creds.Issue(u.ID, 0)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*UserView, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("users.get", err)
	}
	return NewUserView(u), nil
}

// DeleteAccount removes the user's posts, profile and account, in that order.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return storeErr("users.get", err)
	}
	n, err := s.Posts.DeleteByUser(ctx, userID)
	if err != nil {
		return storeErr("posts.delete_by_user", err)
	}
	if err := s.Profiles.DeleteByUser(ctx, userID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return storeErr("profiles.delete", err)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, userID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("profile index remove failed")
		}
	}
	if err := s.Users.Delete(ctx, userID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return storeErr("users.delete", err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": userID, "posts": n}).Info("account deleted")
	}
	s.enqueueEmail(ctx, u, templates.AccountDeleted)
	return nil
}

// UploadAvatar stores the image in GCS and points the user's avatar at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrUploadUnavailable
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", storeErr("users.get", err)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	u.UpdatedAt = s.now().UTC()
	if err := s.Users.Update(ctx, u); err != nil {
		return "", storeErr("users.update", err)
	}
	return url, nil
}

func (s *UserService) enqueueEmail(ctx context.Context, u *entity.User, tmpl string) {
	if s.Jobs == nil || s.Config == nil {
		return
	}
	opts := []templates.Option{templates.WithTime(s.now())}
	if s.Config.ProfileURL != "" {
		opts = append(opts, templates.WithProfileURL(s.Config.ProfileURL+"/"+u.ID))
	}
	data := templates.NewWelcomeData(s.Config, u.Name, u.Email, opts...)
	if tmpl == templates.AccountDeleted {
		data = templates.NewAccountDeletedData(s.Config, u.Name, u.Email, opts...)
	}
	job := mailer.EmailJob{To: u.Email, Template: tmpl, Data: data}
	if err := s.Jobs.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "template": tmpl}).Warn("email enqueue failed")
	}
}
