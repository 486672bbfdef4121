package workoutlog

import (
	"fmt"
	"time"

	"github.com/yunokim/fitplan/internal/routine"

	"github.com/google/uuid"
)

// WorkoutLog records which exercises of a scheduled workout the user
// checked off on a given date. Dates travel as plain ISO strings
// ("2006-01-02"): the date is a calendar label, not an instant, and
// must not shift with server or client timezones.
type WorkoutLog struct {
	ID                   uuid.UUID   `json:"id"`
	UserID               uuid.UUID   `json:"userId"`
	RoutineID            uuid.UUID   `json:"routineId"`
	WorkoutID            uuid.UUID   `json:"workoutId"`
	Date                 string      `json:"date"`
	CompletedExerciseIDs []uuid.UUID `json:"completedExerciseIds"`
	IsCompleted          bool        `json:"isCompleted"`
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
}

func (l *WorkoutLog) HasExercise(exerciseID uuid.UUID) bool {
	for _, id := range l.CompletedExerciseIDs {
		if id == exerciseID {
			return true
		}
	}
	return false
}

// ToggleExercise flips the presence of the exercise in the completed
// set. Returns true when the exercise is present after the toggle.
func (l *WorkoutLog) ToggleExercise(exerciseID uuid.UUID) bool {
	for i, id := range l.CompletedExerciseIDs {
		if id == exerciseID {
			l.CompletedExerciseIDs = append(l.CompletedExerciseIDs[:i], l.CompletedExerciseIDs[i+1:]...)
			return false
		}
	}
	l.CompletedExerciseIDs = append(l.CompletedExerciseIDs, exerciseID)
	return true
}

func ParseDate(date string) (time.Time, error) {
	parsed, err := time.Parse(routine.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", date, err)
	}
	return parsed, nil
}
