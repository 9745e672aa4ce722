package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoExerciseRepository struct {
	collection *mongo.Collection
}

func NewMongoExerciseRepository(db *mongo.Database) *MongoExerciseRepository {
	coll := db.Collection("exercises")

	// Create Index
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Names are not unique, the library is shared and never deduplicated
	mod := mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	}
	_, _ = coll.Indexes().CreateOne(ctx, mod)

	return &MongoExerciseRepository{
		collection: coll,
	}
}

func (r *MongoExerciseRepository) Create(ctx context.Context, ex *domain.Exercise) error {
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now()
	}
	ex.UpdatedAt = time.Now()
	ex.ID = ""

	result, err := r.collection.InsertOne(ctx, ex)
	if err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		ex.ID = oid.Hex()
	}
	return nil
}

func (r *MongoExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var ex domain.Exercise
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&ex)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrExerciseNotFound
		}
		return nil, err
	}
	return &ex, nil
}

// Search matches a case-insensitive substring of the name, ordered by name
func (r *MongoExerciseRepository) Search(ctx context.Context, name string) ([]*domain.Exercise, error) {
	query := bson.M{}
	if name != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(name), "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []*domain.Exercise{}
	if err := cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *MongoExerciseRepository) Update(ctx context.Context, ex *domain.Exercise) error {
	oid, err := primitive.ObjectIDFromHex(ex.ID)
	if err != nil {
		return domain.ErrInvalidID
	}
	ex.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":                             ex.Name,
			"description":                      ex.Description,
			"default_sets":                     ex.DefaultSets,
			"default_reps_per_set":             ex.DefaultRepsPerSet,
			"default_rest_period_between_sets": ex.DefaultRestPeriodBetweenSets,
			"media_link":                       ex.MediaLink,
			"updated_at":                       ex.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update exercise: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrExerciseNotFound
	}
	return nil
}

func (r *MongoExerciseRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrExerciseNotFound
	}
	return nil
}
