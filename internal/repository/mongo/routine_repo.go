// internal/repository/mongo/routine_repo.go
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
	routineCollectionName         = "routine_templates"
	routineExerciseCollectionName = "routine_template_exercises"
)

// mongoRoutineRepository implements repository.RoutineRepository over the
// template collection and its line collection.
type mongoRoutineRepository struct {
	collection *mongo.Collection
	lines      *mongo.Collection
}

// NewMongoRoutineRepository creates a new Routine repository.
func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{
		collection: db.Collection(routineCollectionName),
		lines:      db.Collection(routineExerciseCollectionName),
	}
}

// Create inserts a new routine template header.
func (r *mongoRoutineRepository) Create(ctx context.Context, template *domain.RoutineTemplate) (primitive.ObjectID, error) {
	if template.Name == "" {
		return primitive.NilObjectID, errors.New("routine requires a name")
	}
	template.ID = primitive.NewObjectID()
	template.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, template)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted routine ID")
	}
	return insertedID, nil
}

// GetByID retrieves a routine template header by its ID.
func (r *mongoRoutineRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineTemplate, error) {
	var template domain.RoutineTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// List retrieves all routine templates ordered by name.
func (r *mongoRoutineRepository) List(ctx context.Context) ([]domain.RoutineTemplate, error) {
	templates := []domain.RoutineTemplate{}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if err := findAll(ctx, r.collection, bson.M{}, &templates, findOptions); err != nil {
		return nil, err
	}
	return templates, nil
}

// Update overwrites the header fields of a template.
func (r *mongoRoutineRepository) Update(ctx context.Context, template *domain.RoutineTemplate) error {
	if template.ID == primitive.NilObjectID {
		return errors.New("routine ID is required for update")
	}
	update := bson.M{
		"$set": bson.M{
			"name":        template.Name,
			"description": template.Description,
			"difficulty":  template.Difficulty,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": template.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the template header only; lines are removed with DeleteExercises.
func (r *mongoRoutineRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CreateExercises inserts template lines in one batch.
func (r *mongoRoutineRepository) CreateExercises(ctx context.Context, lines []domain.RoutineTemplateExercise) error {
	if len(lines) == 0 {
		return nil
	}
	docs := make([]interface{}, len(lines))
	for i := range lines {
		if lines[i].TemplateID == primitive.NilObjectID {
			return errors.New("routine line requires templateId")
		}
		lines[i].ID = primitive.NewObjectID()
		lines[i].Exercise = nil
		docs[i] = lines[i]
	}
	_, err := r.lines.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

// ListExercises returns the lines of a template by orderIndex with the exercise joined.
func (r *mongoRoutineRepository) ListExercises(ctx context.Context, templateID primitive.ObjectID) ([]domain.RoutineTemplateExercise, error) {
	pipeline := append([]bson.D{
		{{Key: "$match", Value: bson.M{"templateId": templateID}}},
		{{Key: "$sort", Value: bson.D{{Key: "orderIndex", Value: 1}}}},
	}, lookupOne(exerciseCollectionName, "exerciseId", "exercise")...)

	lines := []domain.RoutineTemplateExercise{}
	if err := aggregateAll(ctx, r.lines, pipeline, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// DeleteExercises removes every line of a template.
func (r *mongoRoutineRepository) DeleteExercises(ctx context.Context, templateID primitive.ObjectID) (int64, error) {
	result, err := r.lines.DeleteMany(ctx, bson.M{"templateId": templateID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureRoutineIndexes creates necessary indexes for the routine_templates collection.
func EnsureRoutineIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "createdBy", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// EnsureRoutineExerciseIndexes creates necessary indexes for the routine line collection.
func EnsureRoutineExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "templateId", Value: 1}, {Key: "orderIndex", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
