package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/icisct/conference-system/internal/core/domain"
)

const reviewsCollection = "reviews"

type ReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{coll: db.Collection(reviewsCollection)}
}

type mongoReview struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	PaperID        string             `bson:"paper_id"`
	ReviewerID     string             `bson:"reviewer_id"`
	Comments       string             `bson:"comments"`
	Recommendation string             `bson:"recommendation"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (mr *mongoReview) toDomain() *domain.Review {
	return &domain.Review{
		ID:             mr.ID.Hex(),
		PaperID:        mr.PaperID,
		ReviewerID:     mr.ReviewerID,
		Comments:       mr.Comments,
		Recommendation: domain.Recommendation(mr.Recommendation),
		CreatedAt:      mr.CreatedAt.UTC(),
		UpdatedAt:      mr.UpdatedAt.UTC(),
	}
}

// Upsert inserts or replaces the review keyed by (paper_id, reviewer_id).
// CreatedAt is preserved on replacement.
func (r *ReviewRepository) Upsert(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	filter := bson.M{"paper_id": review.PaperID, "reviewer_id": review.ReviewerID}
	update := bson.M{
		"$set": bson.M{
			"comments":       review.Comments,
			"recommendation": string(review.Recommendation),
			"updated_at":     review.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"paper_id":    review.PaperID,
			"reviewer_id": review.ReviewerID,
			"created_at":  review.CreatedAt,
		},
	}

	var mr mongoReview
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mr); err != nil {
		return nil, fmt.Errorf("upsert review: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *ReviewRepository) ListByPaper(ctx context.Context, paperID string) ([]domain.Review, error) {
	cur, err := r.coll.Find(ctx, bson.M{"paper_id": paperID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cur.Close(ctx)

	var reviews []domain.Review
	for cur.Next(ctx) {
		var mr mongoReview
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode review: %w", err)
		}
		reviews = append(reviews, *mr.toDomain())
	}
	return reviews, cur.Err()
}

func (r *ReviewRepository) DeleteByPaper(ctx context.Context, paperID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"paper_id": paperID}); err != nil {
		return fmt.Errorf("delete reviews: %w", err)
	}
	return nil
}

// EnsureIndexes enforces one review per (paper, reviewer).
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "paper_id", Value: 1}, {Key: "reviewer_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
