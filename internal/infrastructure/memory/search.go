package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	"github.com/oksasatya/devconnector-api/internal/domain/repository"
)

// ProfileSearch matches the query case-insensitively against name, status,
// company, location and skills.
type ProfileSearch struct {
	mu   sync.RWMutex
	docs map[string]entity.ProfileSummary
}

func NewProfileSearch() *ProfileSearch {
	return &ProfileSearch{docs: make(map[string]entity.ProfileSummary)}
}

func (s *ProfileSearch) Index(ctx context.Context, doc entity.ProfileSummary) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.Skills = append([]string(nil), doc.Skills...)
	s.docs[doc.UserID] = doc
	return nil
}

func (s *ProfileSearch) Remove(ctx context.Context, userID string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, userID)
	return nil
}

func (s *ProfileSearch) Search(ctx context.Context, query string, size int) ([]entity.ProfileSummary, error) {
	_ = ctx
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []entity.ProfileSummary{}
	for _, d := range s.docs {
		hay := strings.ToLower(strings.Join(append([]string{d.Name, d.Status, d.Company, d.Location}, d.Skills...), " "))
		if strings.Contains(hay, q) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	if size > 0 && len(out) > size {
		out = out[:size]
	}
	return out, nil
}

var _ repository.ProfileSearch = (*ProfileSearch)(nil)
