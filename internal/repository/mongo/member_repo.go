package mongo

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/repository"
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const memberCollectionName = "members"

// mongoMemberRepository implements repository.MemberRepository
type mongoMemberRepository struct {
	collection *mongo.Collection
}

// NewMongoMemberRepository creates a new Member repository backed by MongoDB.
func NewMongoMemberRepository(db *mongo.Database) repository.MemberRepository {
	return &mongoMemberRepository{
		collection: db.Collection(memberCollectionName),
	}
}

// Create inserts a new member.
func (r *mongoMemberRepository) Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error) {
	if member.Name == "" {
		return primitive.NilObjectID, errors.New("member name is required")
	}

	member.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now
	if member.Status == "" {
		member.Status = domain.MemberActive
	}

	result, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted member ID")
	}
	return insertedID, nil
}

// GetByID retrieves a member by its ID.
func (r *mongoMemberRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	var member domain.Member
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// List returns the members matching filter, ordered by name.
func (r *mongoMemberRepository) List(ctx context.Context, filter repository.MemberFilter) ([]domain.Member, error) {
	if filter.IDs != nil && len(filter.IDs) == 0 {
		return []domain.Member{}, nil
	}

	members := []domain.Member{}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if err := findAll(ctx, r.collection, memberQuery(filter), &members, findOptions); err != nil {
		return nil, err
	}
	return members, nil
}

// Count returns how many members match filter.
func (r *mongoMemberRepository) Count(ctx context.Context, filter repository.MemberFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, memberQuery(filter))
}

// Update overwrites the editable fields of a member and bumps UpdatedAt.
// The photo key is managed through SetPhotoKey.
func (r *mongoMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	if member.ID == primitive.NilObjectID {
		return errors.New("member ID is required for update")
	}

	member.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":             member.Name,
			"email":            member.Email,
			"phone":            member.Phone,
			"emergencyContact": member.EmergencyContact,
			"birthDate":        member.BirthDate,
			"notes":            member.Notes,
			"status":           member.Status,
			"updatedAt":        member.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": member.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetPhotoKey records the S3 key of the member's photo. An empty key clears it.
func (r *mongoMemberRepository) SetPhotoKey(ctx context.Context, id primitive.ObjectID, key string) error {
	update := bson.M{"$set": bson.M{"updatedAt": time.Now().UTC()}}
	if key == "" {
		update["$unset"] = bson.M{"photoKey": ""}
	} else {
		update["$set"].(bson.M)["photoKey"] = key
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a member document. Dependent rows are removed by the service.
func (r *mongoMemberRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func memberQuery(filter repository.MemberFilter) bson.M {
	query := bson.M{}
	if len(filter.IDs) > 0 {
		query["_id"] = bson.M{"$in": filter.IDs}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Search != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}
	return query
}

// EnsureMemberIndexes creates necessary indexes for the members collection.
func EnsureMemberIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			// Not unique: the front desk may register members without an email.
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
