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

const trainerMemberCollectionName = "trainer_members"

// mongoTrainerMemberRepository implements repository.TrainerMemberRepository
type mongoTrainerMemberRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainerMemberRepository creates a new TrainerMember repository backed by MongoDB.
func NewMongoTrainerMemberRepository(db *mongo.Database) repository.TrainerMemberRepository {
	return &mongoTrainerMemberRepository{
		collection: db.Collection(trainerMemberCollectionName),
	}
}

// Upsert points the member's single link at link.TrainerID, creating the
// link if the member had none. The unique memberId index keeps one link per member.
func (r *mongoTrainerMemberRepository) Upsert(ctx context.Context, link *domain.TrainerMember) error {
	if link.MemberID == primitive.NilObjectID || link.TrainerID == primitive.NilObjectID {
		return errors.New("trainer link requires memberId and trainerId")
	}

	now := time.Now().UTC()
	filter := bson.M{"memberId": link.MemberID}
	update := bson.M{
		"$set":         bson.M{"trainerId": link.TrainerID, "createdAt": now},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		// A concurrent upsert inserted first; the retry matches that document.
		_, err = r.collection.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		return err
	}
	link.CreatedAt = now
	return nil
}

// GetByMember retrieves the link of a member.
func (r *mongoTrainerMemberRepository) GetByMember(ctx context.Context, memberID primitive.ObjectID) (*domain.TrainerMember, error) {
	var link domain.TrainerMember
	err := r.collection.FindOne(ctx, bson.M{"memberId": memberID}).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// ListByTrainer retrieves every link of a trainer, most recent first.
func (r *mongoTrainerMemberRepository) ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerMember, error) {
	links := []domain.TrainerMember{}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if err := findAll(ctx, r.collection, bson.M{"trainerId": trainerID}, &links, findOptions); err != nil {
		return nil, err
	}
	return links, nil
}

// DeleteByMember removes the member's link. Zero deletions is not an error.
func (r *mongoTrainerMemberRepository) DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"memberId": memberID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureTrainerMemberIndexes creates necessary indexes for the trainer_members collection.
func EnsureTrainerMemberIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
