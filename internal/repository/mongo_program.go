package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProgramRepository stores a program as one document embedding its days
// and their planned exercises, so a program delete removes the whole tree.
type MongoProgramRepository struct {
	collection *mongo.Collection
}

func NewMongoProgramRepository(db *mongo.Database) *MongoProgramRepository {
	coll := db.Collection("workout_programs")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "workout_days.id", Value: 1}}},
		{Keys: bson.D{{Key: "workout_days.exercises.id", Value: 1}}},
		{Keys: bson.D{{Key: "workout_days.exercises.exercise_id", Value: 1}}},
	})

	return &MongoProgramRepository{
		collection: coll,
	}
}

func (r *MongoProgramRepository) Create(ctx context.Context, program *domain.WorkoutProgram) error {
	if program.CreatedAt.IsZero() {
		program.CreatedAt = time.Now()
	}
	program.UpdatedAt = time.Now()
	program.ID = ""

	result, err := r.collection.InsertOne(ctx, program)
	if err != nil {
		return fmt.Errorf("failed to create program: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		program.ID = oid.Hex()
	}
	return nil
}

func (r *MongoProgramRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutProgram, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	return r.findOne(ctx, bson.M{"_id": oid}, domain.ErrProgramNotFound)
}

// GetByDayID finds the program owning a workout day
func (r *MongoProgramRepository) GetByDayID(ctx context.Context, dayID string) (*domain.WorkoutProgram, error) {
	return r.findOne(ctx, bson.M{"workout_days.id": dayID}, domain.ErrWorkoutDayNotFound)
}

// GetByPlannedExerciseID finds the program owning a planned exercise
func (r *MongoProgramRepository) GetByPlannedExerciseID(ctx context.Context, plannedExerciseID string) (*domain.WorkoutProgram, error) {
	return r.findOne(ctx, bson.M{"workout_days.exercises.id": plannedExerciseID}, domain.ErrPlannedExerciseNotFound)
}

func (r *MongoProgramRepository) findOne(ctx context.Context, filter bson.M, notFound error) (*domain.WorkoutProgram, error) {
	var program domain.WorkoutProgram
	err := r.collection.FindOne(ctx, filter).Decode(&program)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, notFound
		}
		return nil, err
	}
	return &program, nil
}

func (r *MongoProgramRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.WorkoutProgram, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

// ListByExercise returns every program, of any owner, planning the exercise
func (r *MongoProgramRepository) ListByExercise(ctx context.Context, exerciseID string) ([]*domain.WorkoutProgram, error) {
	return r.find(ctx, bson.M{"workout_days.exercises.exercise_id": exerciseID})
}

func (r *MongoProgramRepository) find(ctx context.Context, filter bson.M) ([]*domain.WorkoutProgram, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	programs := []*domain.WorkoutProgram{}
	if err := cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// Replace overwrites the whole program document
func (r *MongoProgramRepository) Replace(ctx context.Context, program *domain.WorkoutProgram) error {
	oid, err := primitive.ObjectIDFromHex(program.ID)
	if err != nil {
		return domain.ErrInvalidID
	}

	doc := *program
	doc.ID = ""
	doc.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, &doc)
	if err != nil {
		return fmt.Errorf("failed to replace program: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrProgramNotFound
	}
	program.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *MongoProgramRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrProgramNotFound
	}
	return nil
}

// RemoveExerciseUsages pulls every planned exercise referencing exerciseID
// from every day of every program. It returns the number of programs changed.
func (r *MongoProgramRepository) RemoveExerciseUsages(ctx context.Context, exerciseID string) (int64, error) {
	filter := bson.M{"workout_days.exercises.exercise_id": exerciseID}
	update := bson.M{
		"$pull": bson.M{
			"workout_days.$[].exercises": bson.M{"exercise_id": exerciseID},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to remove exercise usages: %w", err)
	}
	return result.ModifiedCount, nil
}

// RenameExercise refreshes the denormalized exercise name on planned exercises
// Uses MongoDB arrayFilters to reach rows in every day
func (r *MongoProgramRepository) RenameExercise(ctx context.Context, exerciseID, name string) error {
	filter := bson.M{"workout_days.exercises.exercise_id": exerciseID}
	update := bson.M{
		"$set": bson.M{
			"workout_days.$[].exercises.$[ex].exercise_name": name,
		},
	}

	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"ex.exercise_id": exerciseID},
		},
	})

	if _, err := r.collection.UpdateMany(ctx, filter, update, arrayFilters); err != nil {
		return fmt.Errorf("failed to rename planned exercises: %w", err)
	}
	return nil
}
