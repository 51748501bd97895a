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

const departmentsCollection = "departments"

// DepartmentRepository persists departments. The unique index on code is
// deliberately not scoped by deleted_at: a soft-deleted department keeps
// reserving its code.
type DepartmentRepository struct {
	coll *mongo.Collection
}

func NewDepartmentRepository(db *mongo.Database) *DepartmentRepository {
	return &DepartmentRepository{coll: db.Collection(departmentsCollection)}
}

type mongoDepartment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Code      string             `bson:"code"`
	Active    bool               `bson:"active"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
	DeletedAt *time.Time         `bson:"deleted_at,omitempty"`
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *domain.Department) (*domain.Department, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, mongoDepartment{
		Name:      dept.Name,
		Code:      dept.Code,
		Active:    dept.Active,
		CreatedAt: dept.CreatedAt,
		UpdatedAt: dept.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCodeTaken
		}
		return nil, fmt.Errorf("insert department: %w", err)
	}

	created := *dept
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id string, withTrashed bool) (*domain.Department, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDepartmentNotFound
	}

	filter := bson.M{"_id": oid}
	if !withTrashed {
		filter["deleted_at"] = bson.M{"$exists": false}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var md mongoDepartment
	if err := r.coll.FindOne(ctx, filter).Decode(&md); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("find department: %w", err)
	}
	return fromMongoDepartment(&md), nil
}

func (r *DepartmentRepository) List(ctx context.Context, filter ports.ListDepartmentsFilter) ([]*domain.Department, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Name != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Name)}
	}
	if filter.Code != "" {
		query["code"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Code)}
	}
	switch filter.Active {
	case ports.ActiveOnly:
		query["active"] = true
	case ports.InactiveOnly:
		query["active"] = false
	}
	if !filter.WithTrashed {
		query["deleted_at"] = bson.M{"$exists": false}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}

	cur, err := r.coll.Find(ctx, query, listOptions(filter.SortBy, filter.SortDesc, filter.Page, filter.PerPage))
	if err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}
	defer cur.Close(ctx)

	var departments []*domain.Department
	for cur.Next(ctx) {
		var md mongoDepartment
		if err := cur.Decode(&md); err != nil {
			return nil, 0, fmt.Errorf("decode department: %w", err)
		}
		departments = append(departments, fromMongoDepartment(&md))
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate departments: %w", err)
	}

	return departments, total, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, dept *domain.Department) (*domain.Department, error) {
	oid, err := primitive.ObjectIDFromHex(dept.ID)
	if err != nil {
		return nil, domain.ErrDepartmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":       dept.Name,
		"code":       dept.Code,
		"active":     dept.Active,
		"updated_at": dept.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCodeTaken
		}
		return nil, fmt.Errorf("update department: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrDepartmentNotFound
	}

	return r.FindByID(ctx, dept.ID, true)
}

func (r *DepartmentRepository) SoftDelete(ctx context.Context, id string) error {
	return r.mark(ctx, id, bson.M{"$set": bson.M{"deleted_at": time.Now().UTC()}})
}

func (r *DepartmentRepository) Restore(ctx context.Context, id string) error {
	return r.mark(ctx, id, bson.M{"$unset": bson.M{"deleted_at": ""}})
}

func (r *DepartmentRepository) HardDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrDepartmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDepartmentNotFound
	}
	return nil
}

func (r *DepartmentRepository) mark(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrDepartmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("mark department: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDepartmentNotFound
	}
	return nil
}

func fromMongoDepartment(md *mongoDepartment) *domain.Department {
	return &domain.Department{
		ID:        md.ID.Hex(),
		Name:      md.Name,
		Code:      md.Code,
		Active:    md.Active,
		CreatedAt: md.CreatedAt,
		UpdatedAt: md.UpdatedAt,
		DeletedAt: md.DeletedAt,
	}
}

func ensureDepartmentIndexes(ctx context.Context, db *mongo.Database) error {
	// The code index is global on purpose: uniqueness spans soft-deleted rows.
	_, err := db.Collection(departmentsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	})
	return err
}
