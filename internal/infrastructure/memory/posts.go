package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	"github.com/oksasatya/devconnector-api/internal/domain/repository"
)

type PostRepository struct {
	mu   sync.RWMutex
	byID map[string]entity.Post
}

func NewPostRepository() *PostRepository {
	return &PostRepository{byID: make(map[string]entity.Post)}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return repository.ErrDuplicate
	}
	r.byID[p.ID] = clonePost(*p)
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*entity.Post, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := clonePost(p)
	return &out, nil
}

func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Post, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, clonePost(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PostRepository) Save(ctx context.Context, p *entity.Post) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.byID[p.ID] = clonePost(*p)
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *PostRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, p := range r.byID {
		if p.UserID == userID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
