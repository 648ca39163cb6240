// Package collection implements the ownership-checked mutations shared by every
// ordered sub-collection embedded in an aggregate: experience and education
// entries on a profile, likes and comments on a post.
//
// Every operation loads the aggregate, validates completely, and only then
// mutates and persists. A failed operation never saves.
package collection

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("entry not found")
	ErrForbidden     = errors.New("requester does not own entry")
	ErrAlreadyExists = errors.New("requester already present")
	ErrNotPresent    = errors.New("requester not present")
)

// Store loads and persists the aggregate owning a collection.
type Store[A any] interface {
	Load(ctx context.Context, key string) (*A, error)
	Save(ctx context.Context, a *A) error
}

// StoreFuncs adapts a pair of functions to Store.
type StoreFuncs[A any] struct {
	LoadFunc func(ctx context.Context, key string) (*A, error)
	SaveFunc func(ctx context.Context, a *A) error
}

func (s StoreFuncs[A]) Load(ctx context.Context, key string) (*A, error) { return s.LoadFunc(ctx, key) }
func (s StoreFuncs[A]) Save(ctx context.Context, a *A) error             { return s.SaveFunc(ctx, a) }

// Spec describes one embedded collection of E inside aggregate A.
type Spec[A any, E any] struct {
	// Items points at the collection inside the aggregate.
	Items func(a *A) *[]E
	ID    func(e E) string
	SetID func(e *E, id string)
	// Owner returns the identity allowed to remove e. For profile entries this
	// is the profile's user, for comments the comment's own author.
	Owner func(a *A, e E) string
	// Member and NewMember are only needed for Join and Leave.
	Member    func(e E) string
	NewMember func(userID string) E
}

// Mutator applies head-insert, remove-by-id and membership toggles to one
// collection kind and persists the owning aggregate through Store.
type Mutator[A any, E any] struct {
	spec  Spec[A, E]
	store Store[A]
	newID func() string
}

func New[A any, E any](store Store[A], spec Spec[A, E]) *Mutator[A, E] {
	return &Mutator[A, E]{spec: spec, store: store, newID: uuid.NewString}
}

// SetNewIDForTest replaces the identifier generator.
func (m *Mutator[A, E]) SetNewIDForTest(fn func() string) { m.newID = fn }

// Insert assigns e a fresh identifier, places it at index 0 and saves.
func (m *Mutator[A, E]) Insert(ctx context.Context, key string, e E) (*A, E, error) {
	a, err := m.store.Load(ctx, key)
	if err != nil {
		var zero E
		return nil, zero, err
	}
	m.spec.SetID(&e, m.newID())
	items := m.spec.Items(a)
	*items = Prepend(*items, e)
	if err := m.store.Save(ctx, a); err != nil {
		var zero E
		return nil, zero, err
	}
	return a, e, nil
}

// Remove deletes the entry whose identifier is entryID. The entry must be
// owned by requester.
func (m *Mutator[A, E]) Remove(ctx context.Context, key, entryID, requester string) (*A, error) {
	a, err := m.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	items := m.spec.Items(a)
	i := IndexOf(*items, func(e E) bool { return m.spec.ID(e) == entryID })
	if i < 0 {
		return nil, ErrNotFound
	}
	if m.spec.Owner(a, (*items)[i]) != requester {
		return nil, ErrForbidden
	}
	*items = RemoveAt(*items, i)
	if err := m.store.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Join head-inserts a membership entry for requester. It fails with
// ErrAlreadyExists when requester is already a member.
func (m *Mutator[A, E]) Join(ctx context.Context, key, requester string) (*A, error) {
	a, err := m.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	items := m.spec.Items(a)
	if IndexOf(*items, m.isMember(requester)) >= 0 {
		return nil, ErrAlreadyExists
	}
	e := m.spec.NewMember(requester)
	m.spec.SetID(&e, m.newID())
	*items = Prepend(*items, e)
	if err := m.store.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Leave removes requester's membership entry. It fails with ErrNotPresent
// when requester is not a member.
func (m *Mutator[A, E]) Leave(ctx context.Context, key, requester string) (*A, error) {
	a, err := m.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	items := m.spec.Items(a)
	i := IndexOf(*items, m.isMember(requester))
	if i < 0 {
		return nil, ErrNotPresent
	}
	*items = RemoveAt(*items, i)
	if err := m.store.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (m *Mutator[A, E]) isMember(userID string) func(E) bool {
	return func(e E) bool { return m.spec.Member(e) == userID }
}

// Prepend returns a new slice with e at index 0 followed by items.
func Prepend[E any](items []E, e E) []E {
	out := make([]E, 0, len(items)+1)
	out = append(out, e)
	return append(out, items...)
}

// IndexOf returns the index of the first element matching, or -1.
func IndexOf[E any](items []E, match func(E) bool) int {
	for i, e := range items {
		if match(e) {
			return i
		}
	}
	return -1
}

// RemoveAt returns a new slice without index i, keeping the order of the rest.
func RemoveAt[E any](items []E, i int) []E {
	out := make([]E, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
