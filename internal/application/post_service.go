package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector-api/internal/domain/collection"
	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	repo "github.com/oksasatya/devconnector-api/internal/domain/repository"
)

type PostService struct {
	Posts  repo.PostRepository
	Users  repo.UserRepository
	Logger *logrus.Logger

	likes    *collection.Mutator[entity.Post, entity.Like]
	comments *collection.Mutator[entity.Post, entity.Comment]
	now      func() time.Time
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, logger *logrus.Logger) *PostService {
	s := &PostService{Posts: posts, Users: users, Logger: logger, now: time.Now}
	store := collection.StoreFuncs[entity.Post]{LoadFunc: s.load, SaveFunc: s.save}
	s.likes = collection.New(store, collection.Spec[entity.Post, entity.Like]{
		Items:     func(p *entity.Post) *[]entity.Like { return &p.Likes },
		ID:        func(l entity.Like) string { return l.ID },
		SetID:     func(l *entity.Like, id string) { l.ID = id },
		Owner:     func(_ *entity.Post, l entity.Like) string { return l.UserID },
		Member:    func(l entity.Like) string { return l.UserID },
		NewMember: func(userID string) entity.Like { return entity.Like{UserID: userID} },
	})
	// A comment belongs to its own author, not to the post's author.
	s.comments = collection.New(store, collection.Spec[entity.Post, entity.Comment]{
		Items: func(p *entity.Post) *[]entity.Comment { return &p.Comments },
		ID:    func(c entity.Comment) string { return c.ID },
		SetID: func(c *entity.Comment, id string) { c.ID = id },
		Owner: func(_ *entity.Post, c entity.Comment) string { return c.UserID },
	})
	return s
}

func (s *PostService) load(ctx context.Context, id string) (*entity.Post, error) {
	p, err := s.Posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, storeErr("posts.find", err)
	}
	return p, nil
}

func (s *PostService) save(ctx context.Context, p *entity.Post) error {
	err := s.Posts.Save(ctx, p)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrPostNotFound
	}
	return storeErr("posts.save", err)
}

func (s *PostService) author(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("users.get", err)
	}
	return u, nil
}

// Create stores a new post with a snapshot of the author's name and avatar.
func (s *PostService) Create(ctx context.Context, userID, text string) (*entity.Post, error) {
	u, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &entity.Post{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Text:      strings.TrimSpace(text),
		Name:      u.Name,
		Avatar:    u.AvatarURL,
		Likes:     []entity.Like{},
		Comments:  []entity.Comment{},
		CreatedAt: s.now().UTC(),
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, storeErr("posts.create", err)
	}
	return p, nil
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]entity.Post, error) {
	ps, err := s.Posts.List(ctx)
	if err != nil {
		return nil, storeErr("posts.list", err)
	}
	return ps, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*entity.Post, error) {
	return s.load(ctx, id)
}

// Delete removes the post. Only its author may do so.
func (s *PostService) Delete(ctx context.Context, id, userID string) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return ErrForbidden
	}
	if err := s.Posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPostNotFound
		}
		return storeErr("posts.delete", err)
	}
	return nil
}

// Like adds the requester to the post's likes. A second like is rejected
// with ErrAlreadyLiked and changes nothing.
func (s *PostService) Like(ctx context.Context, postID, userID string) ([]entity.Like, error) {
	p, err := s.likes.Join(ctx, postID, userID)
	if err != nil {
		return nil, mutationErr(err, ErrPostNotFound)
	}
	return p.Likes, nil
}

// Unlike removes the requester's like, or fails with ErrNotLiked.
func (s *PostService) Unlike(ctx context.Context, postID, userID string) ([]entity.Like, error) {
	p, err := s.likes.Leave(ctx, postID, userID)
	if err != nil {
		return nil, mutationErr(err, ErrPostNotFound)
	}
	return p.Likes, nil
}

// Comment head-inserts a comment by the requester.
func (s *PostService) Comment(ctx context.Context, postID, userID, text string) ([]entity.Comment, error) {
	u, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := entity.Comment{
		UserID:    u.ID,
		Text:      strings.TrimSpace(text),
		Name:      u.Name,
		Avatar:    u.AvatarURL,
		CreatedAt: s.now().UTC(),
	}
	p, _, err := s.comments.Insert(ctx, postID, c)
	if err != nil {
		return nil, mutationErr(err, ErrCommentNotFound)
	}
	return p.Comments, nil
}

// Uncomment removes commentID. Only the comment's author may remove it.
func (s *PostService) Uncomment(ctx context.Context, postID, commentID, userID string) ([]entity.Comment, error) {
	p, err := s.comments.Remove(ctx, postID, commentID, userID)
	if err != nil {
		return nil, mutationErr(err, ErrCommentNotFound)
	}
	return p.Comments, nil
}
