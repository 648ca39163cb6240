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

// ProfileUser is the owner reference embedded in profile responses.
type ProfileUser struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type ProfileView struct {
	*entity.Profile
	User ProfileUser `json:"user"`
}

// ProfileInput carries the fields of a profile submission. Empty scalars leave
// the stored value untouched.
type ProfileInput struct {
	Company        string
	Website        string
	Location       string
	Status         string
	Bio            string
	GitHubUsername string
	Skills         string
	Social         map[string]string
}

type ProfileService struct {
	Profiles repo.ProfileRepository
	Users    repo.UserRepository
	Logger   *logrus.Logger

	// Optional collaborators; nil disables the feature.
	Index repo.ProfileSearch
	Repos repo.RepoLister

	experience *collection.Mutator[entity.Profile, entity.Experience]
	education  *collection.Mutator[entity.Profile, entity.Education]
	now        func() time.Time
}

func NewProfileService(profiles repo.ProfileRepository, users repo.UserRepository, logger *logrus.Logger) *ProfileService {
	s := &ProfileService{Profiles: profiles, Users: users, Logger: logger, now: time.Now}
	store := collection.StoreFuncs[entity.Profile]{LoadFunc: s.load, SaveFunc: s.save}
	s.experience = collection.New(store, collection.Spec[entity.Profile, entity.Experience]{
		Items: func(p *entity.Profile) *[]entity.Experience { return &p.Experience },
		ID:    func(e entity.Experience) string { return e.ID },
		SetID: func(e *entity.Experience, id string) { e.ID = id },
		Owner: func(p *entity.Profile, _ entity.Experience) string { return p.UserID },
	})
	s.education = collection.New(store, collection.Spec[entity.Profile, entity.Education]{
		Items: func(p *entity.Profile) *[]entity.Education { return &p.Education },
		ID:    func(e entity.Education) string { return e.ID },
		SetID: func(e *entity.Education, id string) { e.ID = id },
		Owner: func(p *entity.Profile, _ entity.Education) string { return p.UserID },
	})
	return s
}

func (s *ProfileService) load(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.Profiles.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, storeErr("profiles.find", err)
	}
	return p, nil
}

func (s *ProfileService) save(ctx context.Context, p *entity.Profile) error {
	p.UpdatedAt = s.now().UTC()
	return storeErr("profiles.upsert", s.Profiles.Upsert(ctx, p))
}

// SplitSkills splits a comma separated list and trims every element. Empty
// elements are dropped.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FilterSocial keeps only recognized networks with a non-empty URL.
func FilterSocial(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if v = strings.TrimSpace(v); v != "" && entity.IsSocialNetwork(k) {
			out[k] = v
		}
	}
	return out
}

// Mine returns the requester's own profile.
func (s *ProfileService) Mine(ctx context.Context, userID string) (*ProfileView, error) {
	return s.ByUser(ctx, userID)
}

func (s *ProfileService) ByUser(ctx context.Context, userID string) (*ProfileView, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p)
}

func (s *ProfileService) List(ctx context.Context) ([]ProfileView, error) {
	ps, err := s.Profiles.List(ctx)
	if err != nil {
		return nil, storeErr("profiles.list", err)
	}
	out := make([]ProfileView, 0, len(ps))
	for i := range ps {
		v, err := s.view(ctx, &ps[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// Upsert creates the requester's profile or overwrites the provided fields.
// Skills and social links are always replaced.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*ProfileView, error) {
	p, err := s.load(ctx, userID)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		p = &entity.Profile{
			ID:         uuid.NewString(),
			UserID:     userID,
			Experience: []entity.Experience{},
			Education:  []entity.Education{},
			CreatedAt:  s.now().UTC(),
		}
	case err != nil:
		return nil, err
	}

	setIf(&p.Company, in.Company)
	setIf(&p.Website, in.Website)
	setIf(&p.Location, in.Location)
	setIf(&p.Status, in.Status)
	setIf(&p.Bio, in.Bio)
	setIf(&p.GitHubUsername, in.GitHubUsername)
	p.Skills = SplitSkills(in.Skills)
	p.Social = FilterSocial(in.Social)

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	v, err := s.view(ctx, p)
	if err != nil {
		return nil, err
	}
	s.indexProfile(ctx, v)
	return v, nil
}

func setIf(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// AddExperience head-inserts e into the requester's profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, e entity.Experience) (*ProfileView, error) {
	if err := checkPeriod(e.From, e.To, e.Current); err != nil {
		return nil, err
	}
	if e.Current {
		e.To = nil
	}
	p, _, err := s.experience.Insert(ctx, userID, e)
	if err != nil {
		return nil, mutationErr(err, ErrEntryNotFound)
	}
	return s.view(ctx, p)
}

func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*ProfileView, error) {
	p, err := s.experience.Remove(ctx, userID, expID, userID)
	if err != nil {
		return nil, mutationErr(err, ErrEntryNotFound)
	}
	return s.view(ctx, p)
}

// AddEducation head-inserts e into the requester's profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, e entity.Education) (*ProfileView, error) {
	if err := checkPeriod(e.From, e.To, e.Current); err != nil {
		return nil, err
	}
	if e.Current {
		e.To = nil
	}
	p, _, err := s.education.Insert(ctx, userID, e)
	if err != nil {
		return nil, mutationErr(err, ErrEntryNotFound)
	}
	return s.view(ctx, p)
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*ProfileView, error) {
	p, err := s.education.Remove(ctx, userID, eduID, userID)
	if err != nil {
		return nil, mutationErr(err, ErrEntryNotFound)
	}
	return s.view(ctx, p)
}

func checkPeriod(from time.Time, to *time.Time, current bool) error {
	if from.IsZero() {
		return &ValidationError{Field: "from", Msg: "From date is required"}
	}
	if !current && to != nil && to.Before(from) {
		return &ValidationError{Field: "to", Msg: "To date must not be before from date"}
	}
	return nil
}

// GitHubRepos lists the latest public repositories of username.
func (s *ProfileService) GitHubRepos(ctx context.Context, username string) ([]map[string]any, error) {
	if s.Repos == nil {
		return nil, ErrNoGitHubProfile
	}
	repos, err := s.Repos.ListRepos(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoGitHubProfile
		}
		return nil, err
	}
	return repos, nil
}

// Search queries the profile index. Without an index it finds nothing.
func (s *ProfileService) Search(ctx context.Context, q string, size int) ([]entity.ProfileSummary, error) {
	if s.Index == nil || strings.TrimSpace(q) == "" {
		return []entity.ProfileSummary{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	hits, err := s.Index.Search(ctx, strings.TrimSpace(q), size)
	if err != nil {
		return nil, storeErr("profiles.search", err)
	}
	return hits, nil
}

func (s *ProfileService) indexProfile(ctx context.Context, v *ProfileView) {
	if s.Index == nil {
		return
	}
	doc := entity.ProfileSummary{
		UserID:   v.UserID,
		Name:     v.User.Name,
		Avatar:   v.User.Avatar,
		Status:   v.Status,
		Company:  v.Company,
		Location: v.Location,
		Skills:   v.Skills,
	}
	if err := s.Index.Index(ctx, doc); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", v.UserID).Warn("profile index failed")
	}
}

func (s *ProfileService) view(ctx context.Context, p *entity.Profile) (*ProfileView, error) {
	ref := ProfileUser{ID: p.UserID}
	u, err := s.Users.GetByID(ctx, p.UserID)
	switch {
	case err == nil:
		ref.Name, ref.Avatar = u.Name, u.AvatarURL
	case !errors.Is(err, repo.ErrNotFound):
		return nil, storeErr("users.get", err)
	}
	return &ProfileView{Profile: p, User: ref}, nil
}
