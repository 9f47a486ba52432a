// internal/repository/mongo/session_repo.go
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

const (
	sessionCollectionName         = "training_sessions"
	sessionExerciseCollectionName = "session_exercises"
)

// mongoSessionRepository implements repository.TrainingSessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
	exercises  *mongo.Collection
}

// NewMongoSessionRepository creates a new TrainingSession repository.
func NewMongoSessionRepository(db *mongo.Database) repository.TrainingSessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
		exercises:  db.Collection(sessionExerciseCollectionName),
	}
}

// Create inserts a new session header.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.TrainingSession) (primitive.ObjectID, error) {
	if session.MemberID == primitive.NilObjectID || session.Date.IsZero() {
		return primitive.NilObjectID, errors.New("session requires memberId and date")
	}
	session.ID = primitive.NewObjectID()
	session.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a session with member and trainer joined.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionDetails, error) {
	pipeline := append([]bson.D{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$limit", Value: 1}},
	}, sessionJoins()...)

	var rows []domain.SessionDetails
	if err := aggregateAll(ctx, r.collection, pipeline, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

// List returns sessions matching filter, most recent date first.
func (r *mongoSessionRepository) List(ctx context.Context, filter repository.SessionFilter) ([]domain.SessionDetails, error) {
	pipeline := append([]bson.D{
		{{Key: "$match", Value: sessionQuery(filter)}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}}},
	}, sessionJoins()...)

	rows := []domain.SessionDetails{}
	if err := aggregateAll(ctx, r.collection, pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns how many sessions match filter.
func (r *mongoSessionRepository) Count(ctx context.Context, filter repository.SessionFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, sessionQuery(filter))
}

// Delete removes the session header only.
func (r *mongoSessionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByMember removes every session of a member, their exercises first.
func (r *mongoSessionRepository) DeleteByMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	var ids []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	findOptions := options.Find().SetProjection(bson.M{"_id": 1})
	if err := findAll(ctx, r.collection, bson.M{"memberId": memberID}, &ids, findOptions); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	sessionIDs := make([]primitive.ObjectID, len(ids))
	for i, row := range ids {
		sessionIDs[i] = row.ID
	}
	if _, err := r.exercises.DeleteMany(ctx, bson.M{"sessionId": bson.M{"$in": sessionIDs}}); err != nil {
		return 0, err
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": sessionIDs}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// CreateExercises inserts session exercise rows in one batch.
func (r *mongoSessionRepository) CreateExercises(ctx context.Context, items []domain.SessionExercise) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, len(items))
	for i := range items {
		if items[i].SessionID == primitive.NilObjectID {
			return errors.New("session exercise requires sessionId")
		}
		items[i].ID = primitive.NewObjectID()
		items[i].Exercise = nil
		docs[i] = items[i]
	}
	_, err := r.exercises.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

// ListExercises returns the exercises of a session by orderIndex with the exercise joined.
func (r *mongoSessionRepository) ListExercises(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionExercise, error) {
	pipeline := append([]bson.D{
		{{Key: "$match", Value: bson.M{"sessionId": sessionID}}},
		{{Key: "$sort", Value: bson.D{{Key: "orderIndex", Value: 1}}}},
	}, lookupOne(exerciseCollectionName, "exerciseId", "exercise")...)

	items := []domain.SessionExercise{}
	if err := aggregateAll(ctx, r.exercises, pipeline, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetExercise retrieves a single session exercise row.
func (r *mongoSessionRepository) GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.SessionExercise, error) {
	var item domain.SessionExercise
	err := r.exercises.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// UpdateExercise overwrites the recorded results of a session exercise.
func (r *mongoSessionRepository) UpdateExercise(ctx context.Context, item *domain.SessionExercise) error {
	if item.ID == primitive.NilObjectID {
		return errors.New("session exercise ID is required for update")
	}
	update := bson.M{
		"$set": bson.M{
			"setsCompleted": item.SetsCompleted,
			"repsCompleted": item.RepsCompleted,
			"weight":        item.Weight,
			"notes":         item.Notes,
		},
	}
	result, err := r.exercises.UpdateOne(ctx, bson.M{"_id": item.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteExercise removes a single session exercise row.
func (r *mongoSessionRepository) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.exercises.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteExercises removes every exercise row of a session.
func (r *mongoSessionRepository) DeleteExercises(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	result, err := r.exercises.DeleteMany(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func sessionJoins() []bson.D {
	joins := lookupOne(memberCollectionName, "memberId", "member")
	joins = append(joins, lookupOne(staffCollectionName, "trainerId", "trainer")...)
	// Staff credentials never leave the store.
	return append(joins, bson.D{{Key: "$project", Value: bson.M{"trainer.passwordHash": 0}}})
}

func sessionQuery(filter repository.SessionFilter) bson.M {
	query := bson.M{}
	if filter.Date != nil {
		query["date"] = domain.DateOf(*filter.Date)
	}
	if filter.MemberID != nil {
		query["memberId"] = *filter.MemberID
	}
	if filter.TrainerID != nil {
		query["trainerId"] = *filter.TrainerID
	}
	return query
}

// EnsureSessionIndexes creates necessary indexes for the training_sessions collection.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// EnsureSessionExerciseIndexes creates necessary indexes for the session_exercises collection.
func EnsureSessionExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "orderIndex", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
