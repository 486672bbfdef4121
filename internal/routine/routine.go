package routine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MuscleGroup string

const (
	MuscleGroupChest     MuscleGroup = "chest"
	MuscleGroupBack      MuscleGroup = "back"
	MuscleGroupShoulders MuscleGroup = "shoulders"
	MuscleGroupArms      MuscleGroup = "arms"
	MuscleGroupAbs       MuscleGroup = "abs"
	MuscleGroupLegs      MuscleGroup = "legs"
	MuscleGroupFullBody  MuscleGroup = "full-body"
)

var muscleGroups = map[MuscleGroup]bool{
	MuscleGroupChest:     true,
	MuscleGroupBack:      true,
	MuscleGroupShoulders: true,
	MuscleGroupArms:      true,
	MuscleGroupAbs:       true,
	MuscleGroupLegs:      true,
	MuscleGroupFullBody:  true,
}

func (mg MuscleGroup) Valid() bool {
	return muscleGroups[mg]
}

// Settings describe the shape of the workout plan:
// how long it runs and how it is split over the week.
type Settings struct {
	DurationWeeks   int    `json:"durationWeeks"`
	WorkoutsPerWeek int    `json:"workoutsPerWeek"`
	SplitType       string `json:"splitType"`
	Note            string `json:"note,omitempty"`
}

type Exercise struct {
	ID          uuid.UUID   `json:"id"`
	WorkoutID   uuid.UUID   `json:"workoutId"`
	Name        string      `json:"name"`
	Sets        int         `json:"sets"`
	Reps        string      `json:"reps"` // can be a range ("8-10") or a duration ("30초")
	MuscleGroup MuscleGroup `json:"muscleGroup"`
	Description string      `json:"description,omitempty"`
	Position    int         `json:"position"`
}

type Workout struct {
	ID        uuid.UUID  `json:"id"`
	RoutineID uuid.UUID  `json:"routineId"`
	DayNumber int        `json:"dayNumber"` // 1-based position in the routine cycle
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

type Routine struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Settings  Settings  `json:"settings"`
	Workouts  []Workout `json:"workouts"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CycleLength is the modulo base for surfacing the plan in the UI:
// one implicit rest slot after all workout days.
func (r *Routine) CycleLength() int {
	return len(r.Workouts) + 1
}

func (r *Routine) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("routine name empty")
	}
	if r.Settings.DurationWeeks <= 0 {
		return fmt.Errorf("routine duration weeks must be positive")
	}
	for _, w := range r.Workouts {
		if w.DayNumber < 1 {
			return fmt.Errorf("workout %q: day number must be 1-based", w.Name)
		}
		for _, e := range w.Exercises {
			if e.Sets <= 0 {
				return fmt.Errorf("exercise %q: sets must be positive", e.Name)
			}
			if !e.MuscleGroup.Valid() {
				return fmt.Errorf("exercise %q: unknown muscle group %q", e.Name, e.MuscleGroup)
			}
		}
	}
	return nil
}
