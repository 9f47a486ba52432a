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

const planCollectionName = "membership_plans"

// mongoPlanRepository implements repository.MembershipPlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new MembershipPlan repository backed by MongoDB.
func NewMongoPlanRepository(db *mongo.Database) repository.MembershipPlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.MembershipPlan) (primitive.ObjectID, error) {
	if plan.Name == "" || plan.DurationDays < 1 {
		return primitive.NilObjectID, errors.New("plan requires a name and a positive duration")
	}

	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a plan by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MembershipPlan, error) {
	var plan domain.MembershipPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// List returns plans ordered by price, cheapest first.
func (r *mongoPlanRepository) List(ctx context.Context, activeOnly bool) ([]domain.MembershipPlan, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}

	plans := []domain.MembershipPlan{}
	findOptions := options.Find().SetSort(bson.D{{Key: "price", Value: 1}, {Key: "name", Value: 1}})
	if err := findAll(ctx, r.collection, filter, &plans, findOptions); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update overwrites the editable fields of a plan.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.MembershipPlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"name":         plan.Name,
			"description":  plan.Description,
			"durationDays": plan.DurationDays,
			"price":        plan.Price,
			"isActive":     plan.IsActive,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plan.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetActive toggles whether the plan is offered for new sales.
func (r *mongoPlanRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": active}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes for the membership_plans collection.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "price", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
