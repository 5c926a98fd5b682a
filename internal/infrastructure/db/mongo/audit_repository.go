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

const auditCollection = "audit_events"

type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	PaperID    string             `bson:"paper_id"`
	Action     string             `bson:"action"`
	ActorID    string             `bson:"actor_id"`
	FromStatus string             `bson:"from_status,omitempty"`
	ToStatus   string             `bson:"to_status,omitempty"`
	Timestamp  time.Time          `bson:"timestamp"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := mongoAuditEvent{
		PaperID:    event.PaperID,
		Action:     string(event.Action),
		ActorID:    event.ActorID,
		FromStatus: string(event.FromStatus),
		ToStatus:   string(event.ToStatus),
		Timestamp:  event.Timestamp,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByPaper(ctx context.Context, paperID string) ([]domain.AuditEvent, error) {
	cur, err := r.coll.Find(ctx, bson.M{"paper_id": paperID}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer cur.Close(ctx)

	var events []domain.AuditEvent
	for cur.Next(ctx) {
		var me mongoAuditEvent
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		events = append(events, domain.AuditEvent{
			ID:         me.ID.Hex(),
			PaperID:    me.PaperID,
			Action:     domain.AuditAction(me.Action),
			ActorID:    me.ActorID,
			FromStatus: domain.PaperStatus(me.FromStatus),
			ToStatus:   domain.PaperStatus(me.ToStatus),
			Timestamp:  me.Timestamp.UTC(),
		})
	}
	return events, cur.Err()
}

// EnsureIndexes creates the trail lookup index.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "paper_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	return err
}
