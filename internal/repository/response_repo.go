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

// ResponseRepo handles MongoDB operations for survey responses
type ResponseRepo interface {
	Create(ctx context.Context, response *model.Response) (string, error)
	GetBySurvey(ctx context.Context, surveyID string) ([]*model.Response, error)
	CountBySurvey(ctx context.Context, surveyID string) (int64, error)
	CountBySurveys(ctx context.Context, surveyIDs []string) (int64, error)
	ListBySurveysSince(ctx context.Context, surveyIDs []string, since time.Time) ([]*model.Response, error)
	DeleteBySurvey(ctx context.Context, surveyID string) error
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) Create(ctx context.Context, response *model.Response) (string, error) {
	if response.ID == "" {
		response.ID = primitive.NewObjectID().Hex()
	}
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, response); err != nil {
		return "", err
	}
	return response.ID, nil
}

// GetBySurvey returns the survey's responses, newest first
func (r *responseRepo) GetBySurvey(ctx context.Context, surveyID string) ([]*model.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"survey_id": surveyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) CountBySurvey(ctx context.Context, surveyID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"survey_id": surveyID})
}

func (r *responseRepo) CountBySurveys(ctx context.Context, surveyIDs []string) (int64, error) {
	if len(surveyIDs) == 0 {
		return 0, nil
	}
	return r.collection.CountDocuments(ctx, bson.M{"survey_id": bson.M{"$in": surveyIDs}})
}

// ListBySurveysSince returns responses submitted on or after since, oldest
// first, for the dashboard timeline.
func (r *responseRepo) ListBySurveysSince(ctx context.Context, surveyIDs []string, since time.Time) ([]*model.Response, error) {
	if len(surveyIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{
		"survey_id":    bson.M{"$in": surveyIDs},
		"submitted_at": bson.M{"$gte": since},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) DeleteBySurvey(ctx context.Context, surveyID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"survey_id": surveyID})
	return err
}
