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

const userCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	LastName     string             `bson:"last_name"`
	Phone        string             `bson:"phone,omitempty"`
	Email        string             `bson:"email,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	Roles        []mongoRoleRef     `bson:"roles"`
}

// mongoRoleRef embeds the role association in the user document. Deleting
// the user drops the association rows with it; the roles collection is
// never touched.
type mongoRoleRef struct {
	RoleID primitive.ObjectID `bson:"role_id"`
	Name   string             `bson:"name"`
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc, err := toMongoUser(user)
	if err != nil {
		return nil, err
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromMongoUser(mu), nil
}

func (r *MongoUserRepository) FindByName(ctx context.Context, name string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromMongoUser(mu), nil
}

// FindAll returns every user ordered by id ascending.
func (r *MongoUserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, fromMongoUser(mu))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByRole computes the reverse "users holding this role" view by query.
func (r *MongoUserRepository) FindByRole(ctx context.Context, roleName string) ([]*domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{"roles.name": roleName}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, fromMongoUser(mu))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc, err := toMongoUser(user)
	if err != nil {
		return nil, err
	}
	doc.ID = oid

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("count user: %w", err)
	}
	return n > 0, nil
}

func toMongoUser(user *domain.User) (mongoUser, error) {
	refs := make([]mongoRoleRef, len(user.Roles))
	for i, role := range user.Roles {
		oid, err := primitive.ObjectIDFromHex(role.ID)
		if err != nil {
			return mongoUser{}, fmt.Errorf("role %q has malformed id %q", role.Name, role.ID)
		}
		refs[i] = mongoRoleRef{RoleID: oid, Name: role.Name}
	}
	return mongoUser{
		Name:         user.Name,
		LastName:     user.LastName,
		Phone:        user.Phone,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Roles:        refs,
	}, nil
}

func fromMongoUser(mu mongoUser) *domain.User {
	roles := make([]domain.Role, len(mu.Roles))
	for i, ref := range mu.Roles {
		roles[i] = domain.Role{ID: ref.RoleID.Hex(), Name: ref.Name}
	}
	return &domain.User{
		ID:           mu.ID.Hex(),
		Name:         mu.Name,
		LastName:     mu.LastName,
		Phone:        mu.Phone,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Roles:        roles,
	}
}
