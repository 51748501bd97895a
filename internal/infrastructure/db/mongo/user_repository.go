package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/infogov/infogov-api/internal/core/domain"
	"github.com/infogov/infogov-api/internal/core/ports"
)

const usersCollection = "users"

// UserRepository persists users in MongoDB. Soft deletion is a nullable
// deleted_at field; default queries filter it out with $exists.
type UserRepository struct {
	coll  *mongo.Collection
	roles *RoleRepository
}

func NewUserRepository(db *mongo.Database, roles *RoleRepository) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection), roles: roles}
}

type mongoUser struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Email           string             `bson:"email"`
	PasswordHash    string             `bson:"password_hash"`
	RoleID          string             `bson:"role_id,omitempty"`
	EmailVerifiedAt *time.Time         `bson:"email_verified_at,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
	DeletedAt       *time.Time         `bson:"deleted_at,omitempty"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoUser(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string, withTrashed bool) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	filter := bson.M{"_id": oid}
	if !withTrashed {
		filter["deleted_at"] = bson.M{"$exists": false}
	}
	return r.findOne(ctx, filter)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"email":      email,
		"deleted_at": bson.M{"$exists": false},
	})
}

func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Name != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Name)}
	}
	if filter.Email != "" {
		query["email"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Email)}
	}
	if filter.RoleID != "" {
		query["role_id"] = filter.RoleID
	}
	if !filter.WithTrashed {
		query["deleted_at"] = bson.M{"$exists": false}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	cur, err := r.coll.Find(ctx, query, listOptions(filter.SortBy, filter.SortDesc, filter.Page, filter.PerPage))
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		user, err := r.hydrate(ctx, &mu)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}

	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"updated_at":    user.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if user.RoleID != "" {
		set["role_id"] = user.RoleID
	} else {
		update["$unset"] = bson.M{"role_id": ""}
	}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}

	return r.FindByID(ctx, user.ID, true)
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	return r.mark(ctx, id, bson.M{"$set": bson.M{"deleted_at": time.Now().UTC()}})
}

func (r *UserRepository) Restore(ctx context.Context, id string) error {
	return r.mark(ctx, id, bson.M{"$unset": bson.M{"deleted_at": ""}})
}

func (r *UserRepository) HardDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) mark(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("mark user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return r.hydrate(ctx, &mu)
}

// hydrate maps the document to the domain entity, loading the referenced
// role. A dangling role reference is treated as "no role" rather than an
// error (set-null-on-delete semantics).
func (r *UserRepository) hydrate(ctx context.Context, mu *mongoUser) (*domain.User, error) {
	user := &domain.User{
		ID:              mu.ID.Hex(),
		Name:            mu.Name,
		Email:           mu.Email,
		PasswordHash:    mu.PasswordHash,
		RoleID:          mu.RoleID,
		EmailVerifiedAt: mu.EmailVerifiedAt,
		CreatedAt:       mu.CreatedAt,
		UpdatedAt:       mu.UpdatedAt,
		DeletedAt:       mu.DeletedAt,
	}

	if mu.RoleID != "" {
		role, err := r.roles.FindByID(ctx, mu.RoleID)
		if err != nil {
			if errors.Is(err, domain.ErrRoleNotFound) {
				user.RoleID = ""
				return user, nil
			}
			return nil, err
		}
		user.Role = role
	}
	return user, nil
}

func toMongoUser(user *domain.User) mongoUser {
	return mongoUser{
		Name:            user.Name,
		Email:           user.Email,
		PasswordHash:    user.PasswordHash,
		RoleID:          user.RoleID,
		EmailVerifiedAt: user.EmailVerifiedAt,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
		DeletedAt:       user.DeletedAt,
	}
}

func listOptions(sortBy string, desc bool, page, perPage int) *options.FindOptions {
	dir := 1
	if desc {
		dir = -1
	}
	return options.Find().
		SetSort(bson.D{{Key: sortBy, Value: dir}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))
}

func ensureUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "role_id", Value: 1}}},
	})
	return err
}
