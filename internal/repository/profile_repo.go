package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyhub/internal/model"
)

// ProfilePatch carries the updatable profile fields. Nil pointers leave
// the stored value untouched.
type ProfilePatch struct {
	DisplayName *string
	Phone       *string
	Gender      *string
	BirthDate   *string
}

// ProfileRepo handles MongoDB operations for user profiles
type ProfileRepo interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	List(ctx context.Context) ([]*model.Profile, error)
	Update(ctx context.Context, id string, patch ProfilePatch) error
}

type profileRepo struct {
	collection *mongo.Collection
}

// NewProfileRepo creates a new profile repository
func NewProfileRepo(db *mongo.Database) ProfileRepo {
	return &profileRepo{
		collection: db.Collection("profiles"),
	}
}

func (r *profileRepo) Create(ctx context.Context, profile *model.Profile) error {
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, profile)
	return err
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// List returns all profiles, newest first
func (r *profileRepo) List(ctx context.Context) ([]*model.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []*model.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepo) Update(ctx context.Context, id string, patch ProfilePatch) error {
	set := bson.M{"updated_at": time.Now()}
	if patch.DisplayName != nil {
		set["display_name"] = *patch.DisplayName
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Gender != nil {
		set["gender"] = *patch.Gender
	}
	if patch.BirthDate != nil {
		set["birth_date"] = *patch.BirthDate
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}
