package mongo

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const staffCollectionName = "staff"

// mongoStaffRepository implements the repository.StaffRepository interface using MongoDB.
type mongoStaffRepository struct {
	collection *mongo.Collection
}

// NewMongoStaffRepository creates a new instance of mongoStaffRepository.
func NewMongoStaffRepository(db *mongo.Database) repository.StaffRepository {
	return &mongoStaffRepository{
		collection: db.Collection(staffCollectionName),
	}
}

// Create inserts a new staff account. Emails are stored lower-cased.
func (r *mongoStaffRepository) Create(ctx context.Context, staff *domain.Staff) (primitive.ObjectID, error) {
	if staff.Email == "" || staff.PasswordHash == "" || staff.Role == "" {
		return primitive.NilObjectID, errors.New("staff email, password hash, and role are required")
	}

	staff.ID = primitive.NewObjectID()
	staff.Email = strings.ToLower(staff.Email)
	staff.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, staff)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByEmail retrieves a staff account by email address.
func (r *mongoStaffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	var staff domain.Staff
	filter := bson.M{"email": strings.ToLower(email)}

	err := r.collection.FindOne(ctx, filter).Decode(&staff)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// GetByID retrieves a staff account by its ObjectID.
func (r *mongoStaffRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Staff, error) {
	var staff domain.Staff
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&staff)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// ListByRole returns all staff with the given role, ordered by name.
func (r *mongoStaffRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.Staff, error) {
	staff := []domain.Staff{}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	if err := findAll(ctx, r.collection, bson.M{"role": role}, &staff, findOptions); err != nil {
		return nil, err
	}
	return staff, nil
}

// EnsureStaffIndexes creates necessary indexes for the staff collection.
func EnsureStaffIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
