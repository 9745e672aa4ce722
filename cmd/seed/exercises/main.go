package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mansoorceksport/fitbuddy/internal/config"
	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"github.com/mansoorceksport/fitbuddy/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// seed describes one library exercise: sets x reps, rest in seconds
type seed struct {
	name        string
	description string
	sets, reps  int
	rest        int
}

var library = []seed{
	// Legs
	{"Barbell Squat", "Back squat to parallel or below", 4, 8, 120},
	{"Leg Press", "Sled leg press, feet shoulder width", 3, 10, 90},
	{"Walking Lunge", "Alternating forward lunges", 3, 12, 60},
	{"Leg Extension", "Machine quad extension", 3, 12, 60},
	{"Lying Leg Curl", "Machine hamstring curl", 3, 12, 60},
	{"Romanian Deadlift", "Hip hinge with soft knees", 3, 10, 90},
	{"Calf Raise", "Standing machine calf raise", 4, 15, 45},
	{"Bulgarian Split Squat", "Rear foot elevated split squat", 3, 10, 90},

	// Chest
	{"Barbell Bench Press", "Flat bench press", 4, 8, 120},
	{"Incline Dumbbell Press", "30 degree incline press", 3, 10, 90},
	{"Push Up", "Bodyweight push up", 3, 15, 60},
	{"Cable Fly", "Standing cable chest fly", 3, 12, 60},
	{"Dips", "Parallel bar dips", 3, 10, 90},

	// Back
	{"Pull Up", "Overhand bodyweight pull up", 4, 6, 120},
	{"Lat Pulldown", "Wide grip cable pulldown", 3, 10, 90},
	{"Barbell Row", "Bent over barbell row", 4, 8, 90},
	{"Seated Cable Row", "Neutral grip cable row", 3, 10, 90},
	{"Deadlift", "Conventional deadlift", 3, 5, 180},
	{"Face Pull", "Rope face pull for rear delts", 3, 15, 60},

	// Shoulders
	{"Overhead Press", "Standing barbell press", 4, 6, 120},
	{"Dumbbell Shoulder Press", "Seated dumbbell press", 3, 10, 90},
	{"Lateral Raise", "Dumbbell side raise", 3, 15, 45},
	{"Arnold Press", "Rotating dumbbell press", 3, 10, 90},

	// Arms
	{"Barbell Curl", "Standing barbell curl", 3, 10, 60},
	{"Hammer Curl", "Neutral grip dumbbell curl", 3, 12, 60},
	{"Tricep Pushdown", "Cable pushdown", 3, 12, 60},
	{"Skullcrusher", "Lying EZ bar extension", 3, 10, 60},

	// Core
	{"Plank", "Front plank hold, reps are seconds", 3, 45, 45},
	{"Hanging Leg Raise", "Straight leg raise from a bar", 3, 12, 60},
	{"Russian Twist", "Seated weighted twist", 3, 20, 45},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(context.Background())

	repo := repository.NewMongoExerciseRepository(client.Database(cfg.MongoDB.Database))

	created, skipped := 0, 0
	for _, s := range library {
		// Names are not unique in the library, so look for an exact match first
		existing, err := repo.Search(ctx, s.name)
		if err != nil {
			log.Fatalf("Failed to search %s: %v", s.name, err)
		}
		if hasExactName(existing, s.name) {
			fmt.Printf("Skipping existing: %s\n", s.name)
			skipped++
			continue
		}

		rest := s.rest
		ex := &domain.Exercise{
			Name:                         s.name,
			Description:                  s.description,
			DefaultSets:                  s.sets,
			DefaultRepsPerSet:            s.reps,
			DefaultRestPeriodBetweenSets: &rest,
		}
		if err := ex.Validate(); err != nil {
			log.Printf("Invalid seed %s: %v", s.name, err)
			continue
		}
		if err := repo.Create(ctx, ex); err != nil {
			log.Printf("Error creating %s: %v", s.name, err)
			continue
		}
		fmt.Printf("Created: %s\n", s.name)
		created++
	}
	fmt.Printf("Seeding exercises complete: %d created, %d skipped.\n", created, skipped)
}

func hasExactName(exercises []*domain.Exercise, name string) bool {
	for _, ex := range exercises {
		if strings.EqualFold(ex.Name, name) {
			return true
		}
	}
	return false
}
