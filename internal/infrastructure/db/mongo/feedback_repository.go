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

const feedbackCollection = "feedback"

type FeedbackRepository struct {
	coll *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{coll: db.Collection(feedbackCollection)}
}

type mongoFeedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PaperID   string             `bson:"paper_id"`
	SenderID  string             `bson:"sender_id"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (mf *mongoFeedback) toDomain() *domain.Feedback {
	return &domain.Feedback{
		ID:        mf.ID.Hex(),
		PaperID:   mf.PaperID,
		SenderID:  mf.SenderID,
		Message:   mf.Message,
		CreatedAt: mf.CreatedAt.UTC(),
	}
}

func (r *FeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	doc := mongoFeedback{
		PaperID:   fb.PaperID,
		SenderID:  fb.SenderID,
		Message:   fb.Message,
		CreatedAt: fb.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}

	created := *fb
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *FeedbackRepository) ListByPaper(ctx context.Context, paperID string) ([]domain.Feedback, error) {
	cur, err := r.coll.Find(ctx, bson.M{"paper_id": paperID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer cur.Close(ctx)

	var items []domain.Feedback
	for cur.Next(ctx) {
		var mf mongoFeedback
		if err := cur.Decode(&mf); err != nil {
			return nil, fmt.Errorf("decode feedback: %w", err)
		}
		items = append(items, *mf.toDomain())
	}
	return items, cur.Err()
}

func (r *FeedbackRepository) DeleteByPaper(ctx context.Context, paperID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"paper_id": paperID}); err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	return nil
}

// EnsureIndexes creates the thread lookup index.
func (r *FeedbackRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "paper_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}
