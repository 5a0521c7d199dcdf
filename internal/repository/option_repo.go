package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyhub/internal/model"
)

// OptionRepo handles MongoDB operations for question options
type OptionRepo interface {
	CreateMany(ctx context.Context, opts []*model.Option) error
	GetByQuestion(ctx context.Context, questionID string) ([]model.Option, error)
	DeleteByQuestions(ctx context.Context, questionIDs []string) error
}

type optionRepo struct {
	collection *mongo.Collection
}

// NewOptionRepo creates a new option repository
func NewOptionRepo(db *mongo.Database) OptionRepo {
	return &optionRepo{
		collection: db.Collection("survey_options"),
	}
}

// CreateMany inserts a question's options as a single batch
func (r *optionRepo) CreateMany(ctx context.Context, opts []*model.Option) error {
	if len(opts) == 0 {
		return nil
	}
	docs := make([]interface{}, len(opts))
	for i, opt := range opts {
		if opt.ID == "" {
			opt.ID = primitive.NewObjectID().Hex()
		}
		docs[i] = opt
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByQuestion returns the question's options in position order
func (r *optionRepo) GetByQuestion(ctx context.Context, questionID string) ([]model.Option, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"question_id": questionID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var opts []model.Option
	if err := cursor.All(ctx, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func (r *optionRepo) DeleteByQuestions(ctx context.Context, questionIDs []string) error {
	if len(questionIDs) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"question_id": bson.M{"$in": questionIDs}})
	return err
}
