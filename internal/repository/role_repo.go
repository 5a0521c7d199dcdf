package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyhub/internal/model"
)

// RoleRepo handles MongoDB operations for user role records. A user has at
// most one record; a missing record means no system role.
type RoleRepo interface {
	Get(ctx context.Context, userID string) (*model.UserRole, error)
	List(ctx context.Context) ([]*model.UserRole, error)
	Upsert(ctx context.Context, userID string, role model.Role) error
	Delete(ctx context.Context, userID string) error
}

type roleRepo struct {
	collection *mongo.Collection
}

// NewRoleRepo creates a new role repository
func NewRoleRepo(db *mongo.Database) RoleRepo {
	return &roleRepo{
		collection: db.Collection("user_roles"),
	}
}

func (r *roleRepo) Get(ctx context.Context, userID string) (*model.UserRole, error) {
	var role model.UserRole
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&role)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) List(ctx context.Context) ([]*model.UserRole, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []*model.UserRole
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// Upsert inserts the role record or replaces the existing one; assigning a
// role to a user that already has one never errors.
func (r *roleRepo) Upsert(ctx context.Context, userID string, role model.Role) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": userID},
		&model.UserRole{UserID: userID, Role: role}, opts)
	return err
}

// Delete removes the role record entirely, leaving the profile intact
func (r *roleRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}
