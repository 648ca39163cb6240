package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	"github.com/oksasatya/devconnector-api/internal/domain/repository"
)

// ProfileRepository implements repository.ProfileRepository. One document
// per user, keyed by the unique "user" field.
type ProfileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{collection: db.Collection(collectionProfiles)}
}

func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "skills", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

type profileDocument struct {
	ID             string               `bson:"_id"`
	UserID         string               `bson:"user"`
	Company        string               `bson:"company,omitempty"`
	Website        string               `bson:"website,omitempty"`
	Location       string               `bson:"location,omitempty"`
	Status         string               `bson:"status"`
	Bio            string               `bson:"bio,omitempty"`
	GitHubUsername string               `bson:"githubusername,omitempty"`
	Skills         []string             `bson:"skills"`
	Social         map[string]string    `bson:"social,omitempty"`
	Experience     []experienceDocument `bson:"experience"`
	Education      []educationDocument  `bson:"education"`
	CreatedAt      time.Time            `bson:"date"`
	UpdatedAt      time.Time            `bson:"updated_at"`
}

type experienceDocument struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Company     string     `bson:"company"`
	Location    string     `bson:"location,omitempty"`
	From        time.Time  `bson:"from"`
	To          *time.Time `bson:"to,omitempty"`
	Current     bool       `bson:"current"`
	Description string     `bson:"description,omitempty"`
}

type educationDocument struct {
	ID           string     `bson:"_id"`
	School       string     `bson:"school"`
	Degree       string     `bson:"degree"`
	FieldOfStudy string     `bson:"fieldofstudy"`
	From         time.Time  `bson:"from"`
	To           *time.Time `bson:"to,omitempty"`
	Current      bool       `bson:"current"`
	Description  string     `bson:"description,omitempty"`
}

func (r *ProfileRepository) FindByUser(ctx context.Context, userID string) (*entity.Profile, error) {
	var doc profileDocument
	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p := doc.toEntity()
	return &p, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]entity.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	var docs []profileDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	out := make([]entity.Profile, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *entity.Profile) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"user": p.UserID}, toProfileDocument(p), opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func toProfileDocument(p *entity.Profile) profileDocument {
	doc := profileDocument{
		ID:             p.ID,
		UserID:         p.UserID,
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Status:         p.Status,
		Bio:            p.Bio,
		GitHubUsername: p.GitHubUsername,
		Skills:         append([]string{}, p.Skills...),
		Social:         p.Social,
		Experience:     make([]experienceDocument, 0, len(p.Experience)),
		Education:      make([]educationDocument, 0, len(p.Education)),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for _, e := range p.Experience {
		doc.Experience = append(doc.Experience, experienceDocument(e))
	}
	for _, e := range p.Education {
		doc.Education = append(doc.Education, educationDocument(e))
	}
	return doc
}

func (d profileDocument) toEntity() entity.Profile {
	p := entity.Profile{
		ID:             d.ID,
		UserID:         d.UserID,
		Company:        d.Company,
		Website:        d.Website,
		Location:       d.Location,
		Status:         d.Status,
		Bio:            d.Bio,
		GitHubUsername: d.GitHubUsername,
		Skills:         append([]string{}, d.Skills...),
		Social:         d.Social,
		Experience:     make([]entity.Experience, 0, len(d.Experience)),
		Education:      make([]entity.Education, 0, len(d.Education)),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if p.Social == nil {
		p.Social = map[string]string{}
	}
	for _, e := range d.Experience {
		p.Experience = append(p.Experience, entity.Experience(e))
	}
	for _, e := range d.Education {
		p.Education = append(p.Education, entity.Education(e))
	}
	return p
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
