package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kataops/identity-api/internal/core/domain"
)

const roleCollection = "roles"

type MongoRoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{coll: db.Collection(roleCollection)}
}

type mongoRole struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

// Create inserts a role. The unique index on name turns a concurrent
// duplicate insert into domain.ErrRoleExists, which the registry resolves
// by re-reading.
func (r *MongoRoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	res, err := r.coll.InsertOne(ctx, mongoRole{Name: role.Name})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}

	created := *role
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var mr mongoRole
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: mr.ID.Hex(), Name: mr.Name}, nil
}

func (r *MongoRoleRepository) FindAll(ctx context.Context) ([]*domain.Role, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var roles []*domain.Role
	for cur.Next(ctx) {
		var mr mongoRole
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		roles = append(roles, &domain.Role{ID: mr.ID.Hex(), Name: mr.Name})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// EnsureIndexes creates the unique indexes the identity invariants rely on:
// role names and user names are unique across the store.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(roleCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("role name index: %w", err)
	}

	_, err = db.Collection(userCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("user name index: %w", err)
	}
	return nil
}
