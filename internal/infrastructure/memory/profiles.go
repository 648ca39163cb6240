package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	"github.com/oksasatya/devconnector-api/internal/domain/repository"
)

// ProfileRepository keys profiles by owning user.
type ProfileRepository struct {
	mu     sync.RWMutex
	byUser map[string]entity.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{byUser: make(map[string]entity.Profile)}
}

func (r *ProfileRepository) FindByUser(ctx context.Context, userID string) (*entity.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUser[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneProfile(p)
	return &out, nil
}

// List orders by creation time, oldest first, matching the document store's
// natural order.
func (r *ProfileRepository) List(ctx context.Context) ([]entity.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Profile, 0, len(r.byUser))
	for _, p := range r.byUser {
		out = append(out, cloneProfile(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *entity.Profile) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser[p.UserID] = cloneProfile(*p)
	return nil
}

func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUser[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byUser, userID)
	return nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
