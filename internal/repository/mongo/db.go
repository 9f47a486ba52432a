package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	// Dates are stored as UTC midnight. The driver decodes BSON datetimes as UTC
	// unless UseLocalTimeZone is set, so no custom registry is needed.
	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary separately; Connect succeeds even if the server is unresponsive.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. A failure is logged
// and the remaining collections are still attempted; the first error is returned.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	steps := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{staffCollectionName, EnsureStaffIndexes},
		{memberCollectionName, EnsureMemberIndexes},
		{planCollectionName, EnsurePlanIndexes},
		{membershipCollectionName, EnsureMembershipIndexes},
		{exerciseCollectionName, EnsureExerciseIndexes},
		{routineCollectionName, EnsureRoutineIndexes},
		{routineExerciseCollectionName, EnsureRoutineExerciseIndexes},
		{sessionCollectionName, EnsureSessionIndexes},
		{sessionExerciseCollectionName, EnsureSessionExerciseIndexes},
		{trainerMemberCollectionName, EnsureTrainerMemberIndexes},
	}

	var firstErr error
	for _, step := range steps {
		if err := step.ensure(ctx, db.Collection(step.collection)); err != nil {
			logger.Warn("failed to create indexes", zap.String("collection", step.collection), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// lookupOne joins the document of `from` whose _id equals localField into `as`.
// The field is left unset when nothing matches.
func lookupOne(from, localField, as string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: from},
			{Key: "localField", Value: localField},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: as},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + as},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// aggregateAll runs pipeline on coll and decodes every result into out.
func aggregateAll(ctx context.Context, coll *mongo.Collection, pipeline []bson.D, out interface{}) error {
	cursor, err := coll.Aggregate(ctx, mongo.Pipeline(pipeline))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, out); err != nil {
		return err
	}
	return cursor.Err()
}

// findAll runs a find on coll and decodes every result into out.
func findAll(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}, opts ...*options.FindOptions) error {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, out); err != nil {
		return err
	}
	return cursor.Err()
}
