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

// PostRepository implements repository.PostRepository. Likes and comments
// are embedded arrays; Save replaces the whole document.
type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{collection: db.Collection(collectionPosts)}
}

func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

type postDocument struct {
	ID        string            `bson:"_id"`
	UserID    string            `bson:"user"`
	Text      string            `bson:"text"`
	Name      string            `bson:"name"`
	Avatar    string            `bson:"avatar"`
	Likes     []likeDocument    `bson:"likes"`
	Comments  []commentDocument `bson:"comments"`
	CreatedAt time.Time         `bson:"date"`
}

type likeDocument struct {
	ID     string `bson:"_id"`
	UserID string `bson:"user"`
}

type commentDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user"`
	Text      string    `bson:"text"`
	Name      string    `bson:"name"`
	Avatar    string    `bson:"avatar"`
	CreatedAt time.Time `bson:"date"`
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	if _, err := r.collection.InsertOne(ctx, toPostDocument(p)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*entity.Post, error) {
	var doc postDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	p := doc.toEntity()
	return &p, nil
}

func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	var docs []postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	out := make([]entity.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

func (r *PostRepository) Save(ctx context.Context, p *entity.Post) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, toPostDocument(p))
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete posts: %w", err)
	}
	return res.DeletedCount, nil
}

func toPostDocument(p *entity.Post) postDocument {
	doc := postDocument{
		ID:        p.ID,
		UserID:    p.UserID,
		Text:      p.Text,
		Name:      p.Name,
		Avatar:    p.Avatar,
		Likes:     make([]likeDocument, 0, len(p.Likes)),
		Comments:  make([]commentDocument, 0, len(p.Comments)),
		CreatedAt: p.CreatedAt,
	}
	for _, l := range p.Likes {
		doc.Likes = append(doc.Likes, likeDocument(l))
	}
	for _, c := range p.Comments {
		doc.Comments = append(doc.Comments, commentDocument(c))
	}
	return doc
}

func (d postDocument) toEntity() entity.Post {
	p := entity.Post{
		ID:        d.ID,
		UserID:    d.UserID,
		Text:      d.Text,
		Name:      d.Name,
		Avatar:    d.Avatar,
		Likes:     make([]entity.Like, 0, len(d.Likes)),
		Comments:  make([]entity.Comment, 0, len(d.Comments)),
		CreatedAt: d.CreatedAt,
	}
	for _, l := range d.Likes {
		p.Likes = append(p.Likes, entity.Like(l))
	}
	for _, c := range d.Comments {
		p.Comments = append(p.Comments, entity.Comment(c))
	}
	return p
}

var _ repository.PostRepository = (*PostRepository)(nil)
