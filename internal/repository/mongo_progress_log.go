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

// MongoProgressLogRepository stores a log as one document embedding its
// exercise progress entries.
type MongoProgressLogRepository struct {
	collection *mongo.Collection
}

func NewMongoProgressLogRepository(db *mongo.Database) *MongoProgressLogRepository {
	coll := db.Collection("progress_logs")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "workout_program_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "exercise_progresses.id", Value: 1}}},
	})

	return &MongoProgressLogRepository{
		collection: coll,
	}
}

func (r *MongoProgressLogRepository) Create(ctx context.Context, log *domain.ProgressLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	log.UpdatedAt = time.Now()
	log.ID = ""

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to create progress log: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		log.ID = oid.Hex()
	}
	return nil
}

func (r *MongoProgressLogRepository) GetByID(ctx context.Context, id string) (*domain.ProgressLog, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	return r.findOne(ctx, bson.M{"_id": oid}, domain.ErrProgressLogNotFound)
}

// GetByEntryID finds the log holding an exercise progress entry
func (r *MongoProgressLogRepository) GetByEntryID(ctx context.Context, entryID string) (*domain.ProgressLog, error) {
	return r.findOne(ctx, bson.M{"exercise_progresses.id": entryID}, domain.ErrExerciseProgressNotFound)
}

func (r *MongoProgressLogRepository) findOne(ctx context.Context, filter bson.M, notFound error) (*domain.ProgressLog, error) {
	var log domain.ProgressLog
	err := r.collection.FindOne(ctx, filter).Decode(&log)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, notFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *MongoProgressLogRepository) Replace(ctx context.Context, log *domain.ProgressLog) error {
	oid, err := primitive.ObjectIDFromHex(log.ID)
	if err != nil {
		return domain.ErrInvalidID
	}

	doc := *log
	doc.ID = ""
	doc.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, &doc)
	if err != nil {
		return fmt.Errorf("failed to replace progress log: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrProgressLogNotFound
	}
	log.UpdatedAt = doc.UpdatedAt
	return nil
}

func (r *MongoProgressLogRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete progress log: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrProgressLogNotFound
	}
	return nil
}

func (r *MongoProgressLogRepository) DeleteByProgramID(ctx context.Context, programID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"workout_program_id": programID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete progress logs: %w", err)
	}
	return result.DeletedCount, nil
}

// ListByProgram returns the logs of a program, newest first
func (r *MongoProgressLogRepository) ListByProgram(ctx context.Context, programID string) ([]*domain.ProgressLog, error) {
	return r.find(ctx, bson.M{"workout_program_id": programID})
}

// ListByProgramsInRange returns logs of any of the programs dated within
// [from, to], newest first. A zero bound is open.
func (r *MongoProgressLogRepository) ListByProgramsInRange(ctx context.Context, programIDs []string, from, to time.Time) ([]*domain.ProgressLog, error) {
	filter := bson.M{"workout_program_id": bson.M{"$in": programIDs}}

	dateRange := bson.M{}
	if !from.IsZero() {
		dateRange["$gte"] = from
	}
	if !to.IsZero() {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	return r.find(ctx, filter)
}

func (r *MongoProgressLogRepository) find(ctx context.Context, filter bson.M) ([]*domain.ProgressLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []*domain.ProgressLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// LastLogDates returns the most recent log date of each program that has logs
func (r *MongoProgressLogRepository) LastLogDates(ctx context.Context, programIDs []string) (map[string]time.Time, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"workout_program_id": bson.M{"$in": programIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id":  "$workout_program_id",
			"last": bson.M{"$max": "$date"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate last log dates: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ProgramID string    `bson:"_id"`
		Last      time.Time `bson:"last"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		out[row.ProgramID] = row.Last
	}
	return out, nil
}

// ProgramIDsWithLogs reports which of the programs are referenced by at least one log
func (r *MongoProgressLogRepository) ProgramIDsWithLogs(ctx context.Context, programIDs []string) (map[string]bool, error) {
	values, err := r.collection.Distinct(ctx, "workout_program_id", bson.M{"workout_program_id": bson.M{"$in": programIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to check program logs: %w", err)
	}

	out := make(map[string]bool, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			out[id] = true
		}
	}
	return out, nil
}
