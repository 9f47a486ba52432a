package mongo

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const membershipCollectionName = "memberships"

// mongoMembershipRepository implements repository.MembershipRepository
type mongoMembershipRepository struct {
	collection *mongo.Collection
}

// NewMongoMembershipRepository creates a new Membership repository backed by MongoDB.
func NewMongoMembershipRepository(db *mongo.Database) repository.MembershipRepository {
	return &mongoMembershipRepository{
		collection: db.Collection(membershipCollectionName),
	}
}

// Create inserts a new membership period.
func (r *mongoMembershipRepository) Create(ctx context.Context, membership *domain.Membership) (primitive.ObjectID, error) {
	if membership.MemberID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("membership requires memberId")
	}

	membership.ID = primitive.NewObjectID()
	membership.CreatedAt = time.Now().UTC()
	if membership.Status == "" {
		membership.Status = domain.MembershipActive
	}

	result, err := r.collection.InsertOne(ctx, membership)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted membership ID")
	}
	return insertedID, nil
}

// GetByID retrieves one membership with its plan and member.
func (r *mongoMembershipRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MembershipDetails, error) {
	pipeline := append([]bson.D{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$limit", Value: 1}},
	}, membershipJoins()...)

	var rows []domain.MembershipDetails
	if err := aggregateAll(ctx, r.collection, pipeline, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// List returns memberships matching filter, newest first, with plan and member joined.
func (r *mongoMembershipRepository) List(ctx context.Context, filter repository.MembershipFilter) ([]domain.MembershipDetails, error) {
	if filter.MemberIDs != nil && len(filter.MemberIDs) == 0 {
		return []domain.MembershipDetails{}, nil
	}

	pipeline := append([]bson.D{
		{{Key: "$match", Value: membershipQuery(filter)}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}, membershipJoins()...)

	rows := []domain.MembershipDetails{}
	if err := aggregateAll(ctx, r.collection, pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus sets the stored status of a membership.
func (r *mongoMembershipRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MembershipStatus) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Count returns how many memberships match filter.
func (r *mongoMembershipRepository) Count(ctx context.Context, filter repository.MembershipFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, membershipQuery(filter))
}

// CountByPlan returns how many memberships reference the plan.
func (r *mongoMembershipRepository) CountByPlan(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"planId": planID})
}

// SumAmountCreatedBetween totals amountPaid of memberships created in [from, to).
func (r *mongoMembershipRepository) SumAmountCreatedBetween(ctx context.Context, from, to time.Time) (float64, error) {
	pipeline := []bson.D{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": from, "$lt": to}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amountPaid"}}},
		}}},
	}

	var totals []struct {
		Total float64 `bson:"total"`
	}
	if err := aggregateAll(ctx, r.collection, pipeline, &totals); err != nil {
		return 0, err
	}
	if len(totals) == 0 {
		return 0, nil
	}
	return totals[0].Total, nil
}

// DeleteByMember removes every membership of a member.
func (r *mongoMembershipRepository) DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"memberId": memberID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func membershipJoins() []bson.D {
	joins := lookupOne(planCollectionName, "planId", "plan")
	return append(joins, lookupOne(memberCollectionName, "memberId", "member")...)
}

func membershipQuery(filter repository.MembershipFilter) bson.M {
	query := bson.M{}
	if len(filter.MemberIDs) > 0 {
		query["memberId"] = bson.M{"$in": filter.MemberIDs}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.EndFrom != nil || filter.EndTo != nil {
		end := bson.M{}
		if filter.EndFrom != nil {
			end["$gte"] = *filter.EndFrom
		}
		if filter.EndTo != nil {
			end["$lte"] = *filter.EndTo
		}
		query["endDate"] = end
	}
	return query
}

// EnsureMembershipIndexes creates necessary indexes for the memberships collection.
func EnsureMembershipIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Renewal worklist: stored-active rows by end date
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "planId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
