package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyhub/internal/model"
)

// QuestionRepo handles MongoDB operations for survey questions
type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) (string, error)
	GetBySurvey(ctx context.Context, surveyID string) ([]*model.Question, error)
	DeleteBySurvey(ctx context.Context, surveyID string) error
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("survey_questions"),
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) (string, error) {
	if question.ID == "" {
		question.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.collection.InsertOne(ctx, question); err != nil {
		return "", err
	}
	return question.ID, nil
}

// GetBySurvey returns the survey's questions in position order
func (r *questionRepo) GetBySurvey(ctx context.Context, surveyID string) ([]*model.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"survey_id": surveyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) DeleteBySurvey(ctx context.Context, surveyID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"survey_id": surveyID})
	return err
}
