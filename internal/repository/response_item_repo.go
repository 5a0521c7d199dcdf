package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"surveyhub/internal/model"
)

// ResponseItemRepo handles MongoDB operations for per-question answer values
type ResponseItemRepo interface {
	CreateMany(ctx context.Context, items []*model.ResponseItem) error
	GetByResponses(ctx context.Context, responseIDs []string) ([]*model.ResponseItem, error)
	DeleteByResponses(ctx context.Context, responseIDs []string) error
}

type responseItemRepo struct {
	collection *mongo.Collection
}

// NewResponseItemRepo creates a new response item repository
func NewResponseItemRepo(db *mongo.Database) ResponseItemRepo {
	return &responseItemRepo{
		collection: db.Collection("response_items"),
	}
}

// CreateMany inserts all items of one submission as a single batch
func (r *responseItemRepo) CreateMany(ctx context.Context, items []*model.ResponseItem) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = primitive.NewObjectID().Hex()
		}
		docs[i] = item
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *responseItemRepo) GetByResponses(ctx context.Context, responseIDs []string) ([]*model.ResponseItem, error) {
	if len(responseIDs) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"response_id": bson.M{"$in": responseIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*model.ResponseItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *responseItemRepo) DeleteByResponses(ctx context.Context, responseIDs []string) error {
	if len(responseIDs) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"response_id": bson.M{"$in": responseIDs}})
	return err
}
