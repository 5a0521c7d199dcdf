package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyhub/internal/model"
)

// AuditRepo handles MongoDB operations for the append-only audit trail
type AuditRepo interface {
	Create(ctx context.Context, entry *model.AuditEntry) error
	Latest(ctx context.Context, limit int64) ([]*model.AuditEntry, error)
	ByActor(ctx context.Context, actorID string, limit int64) ([]*model.AuditEntry, error)
	ByTablePrefix(ctx context.Context, tableName string, limit int64) ([]*model.AuditEntry, error)
}

type auditRepo struct {
	collection *mongo.Collection
}

// NewAuditRepo creates a new audit repository
func NewAuditRepo(db *mongo.Database) AuditRepo {
	return &auditRepo{
		collection: db.Collection("audit_log"),
	}
}

func (r *auditRepo) Create(ctx context.Context, entry *model.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *auditRepo) find(ctx context.Context, filter bson.M, limit int64) ([]*model.AuditEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *auditRepo) Latest(ctx context.Context, limit int64) ([]*model.AuditEntry, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *auditRepo) ByActor(ctx context.Context, actorID string, limit int64) ([]*model.AuditEntry, error) {
	return r.find(ctx, bson.M{"actor_id": actorID}, limit)
}

// ByTablePrefix returns entries whose action carries the "{table}_" prefix
func (r *auditRepo) ByTablePrefix(ctx context.Context, tableName string, limit int64) ([]*model.AuditEntry, error) {
	return r.find(ctx, bson.M{"action": bson.M{"$regex": "^" + tableName + "_"}}, limit)
}
