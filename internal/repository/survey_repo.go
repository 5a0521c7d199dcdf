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

// SurveyRepo handles MongoDB operations for surveys
type SurveyRepo interface {
	Create(ctx context.Context, survey *model.Survey) (string, error)
	GetByID(ctx context.Context, id string) (*model.Survey, error)
	GetByPublicSlug(ctx context.Context, publicSlug string) (*model.Survey, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*model.Survey, error)
	IDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	CountByOwner(ctx context.Context, ownerID string, status model.SurveyStatus) (int64, error)
	Update(ctx context.Context, survey *model.Survey) error
	UpdateStatus(ctx context.Context, id string, status model.SurveyStatus) error
	Delete(ctx context.Context, id string) error
}

type surveyRepo struct {
	collection *mongo.Collection
}

// NewSurveyRepo creates a new survey repository
func NewSurveyRepo(db *mongo.Database) SurveyRepo {
	return &surveyRepo{
		collection: db.Collection("surveys"),
	}
}

func (r *surveyRepo) Create(ctx context.Context, survey *model.Survey) (string, error) {
	if survey.ID == "" {
		survey.ID = primitive.NewObjectID().Hex()
	}
	survey.CreatedAt = time.Now()
	survey.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, survey); err != nil {
		return "", err
	}
	return survey.ID, nil
}

func (r *surveyRepo) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	var survey model.Survey
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&survey)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// GetByPublicSlug resolves a survey by its public slug only while published.
// Unknown slugs and unpublished surveys are indistinguishable to the caller.
func (r *surveyRepo) GetByPublicSlug(ctx context.Context, publicSlug string) (*model.Survey, error) {
	var survey model.Survey
	err := r.collection.FindOne(ctx, bson.M{
		"public_slug": publicSlug,
		"status":      model.SurveyStatusPublished,
	}).Decode(&survey)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepo) GetByOwner(ctx context.Context, ownerID string) ([]*model.Survey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var surveys []*model.Survey
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *surveyRepo) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (r *surveyRepo) CountByOwner(ctx context.Context, ownerID string, status model.SurveyStatus) (int64, error) {
	filter := bson.M{"owner_id": ownerID}
	if status != "" {
		filter["status"] = status
	}
	return r.collection.CountDocuments(ctx, filter)
}

func (r *surveyRepo) Update(ctx context.Context, survey *model.Survey) error {
	survey.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": survey.ID}, survey)
	return err
}

func (r *surveyRepo) UpdateStatus(ctx context.Context, id string, status model.SurveyStatus) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now()},
	})
	return err
}

func (r *surveyRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
