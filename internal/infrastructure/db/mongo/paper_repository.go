package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/icisct/conference-system/internal/core/domain"
)

const papersCollection = "papers"

type PaperRepository struct {
	coll *mongo.Collection
}

func NewPaperRepository(db *mongo.Database) *PaperRepository {
	return &PaperRepository{coll: db.Collection(papersCollection)}
}

type mongoPaper struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Abstract    string             `bson:"abstract"`
	Keywords    []string           `bson:"keywords"`
	CoAuthors   []string           `bson:"co_authors"`
	FileURL     string             `bson:"file_url"`
	AuthorID    string             `bson:"author_id"`
	Status      string             `bson:"status"`
	ReviewerIDs []string           `bson:"reviewer_ids"`
	SubmittedAt time.Time          `bson:"submitted_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mp *mongoPaper) toDomain() *domain.Paper {
	return &domain.Paper{
		ID:          mp.ID.Hex(),
		Title:       mp.Title,
		Abstract:    mp.Abstract,
		Keywords:    mp.Keywords,
		CoAuthors:   mp.CoAuthors,
		FileURL:     mp.FileURL,
		AuthorID:    mp.AuthorID,
		Status:      domain.PaperStatus(mp.Status),
		ReviewerIDs: mp.ReviewerIDs,
		SubmittedAt: mp.SubmittedAt.UTC(),
		UpdatedAt:   mp.UpdatedAt.UTC(),
	}
}

func (r *PaperRepository) Create(ctx context.Context, paper *domain.Paper) (*domain.Paper, error) {
	doc := mongoPaper{
		Title:       paper.Title,
		Abstract:    paper.Abstract,
		Keywords:    paper.Keywords,
		CoAuthors:   paper.CoAuthors,
		FileURL:     paper.FileURL,
		AuthorID:    paper.AuthorID,
		Status:      string(paper.Status),
		ReviewerIDs: paper.ReviewerIDs,
		SubmittedAt: paper.SubmittedAt,
		UpdatedAt:   paper.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert paper: %w", err)
	}

	created := *paper
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *PaperRepository) FindByID(ctx context.Context, id string) (*domain.Paper, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPaperNotFound
	}

	var mp mongoPaper
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaperNotFound
		}
		return nil, fmt.Errorf("find paper: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PaperRepository) ListByAuthor(ctx context.Context, authorID string) ([]domain.Paper, error) {
	return r.list(ctx, bson.M{"author_id": authorID})
}

func (r *PaperRepository) ListByReviewer(ctx context.Context, reviewerID string) ([]domain.Paper, error) {
	return r.list(ctx, bson.M{"reviewer_ids": reviewerID})
}

func (r *PaperRepository) ListAll(ctx context.Context) ([]domain.Paper, error) {
	return r.list(ctx, bson.M{})
}

func (r *PaperRepository) UpdateStatus(ctx context.Context, id string, status domain.PaperStatus, at time.Time) error {
	return r.update(ctx, id, bson.M{"status": string(status), "updated_at": at})
}

func (r *PaperRepository) SetReviewers(ctx context.Context, id string, reviewerIDs []string, status domain.PaperStatus, at time.Time) error {
	return r.update(ctx, id, bson.M{
		"reviewer_ids": reviewerIDs,
		"status":       string(status),
		"updated_at":   at,
	})
}

func (r *PaperRepository) UpdateFile(ctx context.Context, id, fileURL string, status domain.PaperStatus, at time.Time) error {
	return r.update(ctx, id, bson.M{
		"file_url":   fileURL,
		"status":     string(status),
		"updated_at": at,
	})
}

func (r *PaperRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPaperNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPaperNotFound
	}
	return nil
}

func (r *PaperRepository) list(ctx context.Context, filter bson.M) ([]domain.Paper, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	defer cur.Close(ctx)

	var papers []domain.Paper
	for cur.Next(ctx) {
		var mp mongoPaper
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode paper: %w", err)
		}
		papers = append(papers, *mp.toDomain())
	}
	return papers, cur.Err()
}

func (r *PaperRepository) update(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPaperNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update paper: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPaperNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the papers collection.
func (r *PaperRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "reviewer_ids", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
