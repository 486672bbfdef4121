package workoutlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yunokim/fitplan/internal/routine"
	"github.com/yunokim/fitplan/internal/telemetry/metrics"
	"github.com/yunokim/fitplan/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrExerciseNotInWorkout = errors.New("exercise does not belong to workout")

// streak lookback is capped, a user with years of history
// does not turn the streak endpoint into a table scan
const maxStreakLookbackDays = 365

type logsRepo interface {
	Upsert(ctx context.Context, l *WorkoutLog) (*WorkoutLog, error)
	Get(ctx context.Context, userID, routineID, workoutID uuid.UUID, logDate string) (*WorkoutLog, error)
	ListForDate(ctx context.Context, userID uuid.UUID, logDate string) ([]WorkoutLog, error)
	ListInRange(ctx context.Context, userID uuid.UUID, fromDate, toDate string) ([]WorkoutLog, error)
	DeleteForRoutine(ctx context.Context, userID, routineID uuid.UUID) error
}

type routinesRepo interface {
	GetWorkout(ctx context.Context, workoutID uuid.UUID) (*routine.Workout, error)
}

// completionSyncer reflects a workout's completion state onto the
// user's remote calendar. Returns (false, nil) when there is nothing
// to do (user not connected, no event for that date); an error never
// fails the local toggle.
type completionSyncer interface {
	MarkCompletion(ctx context.Context, userID, workoutID uuid.UUID, logDate string, completed bool) (synced bool, err error)
}

type Service struct {
	repo     logsRepo
	routines routinesRepo
	syncer   completionSyncer
	metrics  *metrics.Manager
	now      func() time.Time
}

func NewService(repo logsRepo, routines routinesRepo, syncer completionSyncer, metrics *metrics.Manager) *Service {
	return &Service{
		repo:     repo,
		routines: routines,
		syncer:   syncer,
		metrics:  metrics,
		now:      time.Now,
	}
}

type ToggleResult struct {
	Log *WorkoutLog `json:"log"`
	// CalendarSynced reports whether the toggle was reflected on the
	// remote calendar. False is normal: not connected, no event for
	// the date, or the completion state did not flip.
	CalendarSynced bool   `json:"calendarSynced"`
	SyncError      string `json:"syncError,omitempty"`
}

// ToggleExercise flips one exercise in the completion set for
// (user, routine, workout, date) and persists the result. A workout
// counts as completed only when every exercise of its current
// definition is checked off. When the toggle flips the completion
// state, the change is mirrored to the calendar best-effort.
func (s *Service) ToggleExercise(
	ctx context.Context,
	userID, routineID, workoutID, exerciseID uuid.UUID,
	logDate string,
) (_ *ToggleResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workoutlog.toggleExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := ParseDate(logDate); err != nil {
		return nil, err
	}

	workout, err := s.routines.GetWorkout(ctx, workoutID)
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}

	exerciseKnown := false
	for _, e := range workout.Exercises {
		if e.ID == exerciseID {
			exerciseKnown = true
			break
		}
	}
	if !exerciseKnown {
		return nil, ErrExerciseNotInWorkout
	}

	l, err := s.repo.Get(ctx, userID, routineID, workoutID, logDate)
	if errors.Is(err, ErrLogNotFound) {
		l = &WorkoutLog{
			UserID:               userID,
			RoutineID:            routineID,
			WorkoutID:            workoutID,
			Date:                 logDate,
			CompletedExerciseIDs: make([]uuid.UUID, 0),
		}
	} else if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}

	wasCompleted := l.IsCompleted
	l.ToggleExercise(exerciseID)

	// completion is judged against the live workout definition: if the
	// plan changed since the last toggle, the bar moves with it
	totalExercises := len(workout.Exercises)
	l.IsCompleted = totalExercises > 0 && len(l.CompletedExerciseIDs) == totalExercises

	updated, err := s.repo.Upsert(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("upsert log: %w", err)
	}

	s.metrics.CounterExerciseToggles.Inc()
	if !wasCompleted && updated.IsCompleted {
		s.metrics.CounterWorkoutsCompleted.Inc()
	}

	result := &ToggleResult{Log: updated}
	if updated.IsCompleted != wasCompleted && s.syncer != nil {
		synced, syncErr := s.syncer.MarkCompletion(ctx, userID, workoutID, logDate, updated.IsCompleted)
		if syncErr != nil {
			log.Errorf(
				"toggle exercise: mark completion on calendar [workout %s, date %s]: %s",
				workoutID, logDate, syncErr,
			)
			s.metrics.CounterCalendarSyncErrors.Inc()
			result.SyncError = syncErr.Error()
		}
		result.CalendarSynced = synced
	}

	return result, nil
}

func (s *Service) LogsForDate(ctx context.Context, userID uuid.UUID, logDate string) (_ []WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workoutlog.logsForDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.repo.ListForDate(ctx, userID, logDate)
}

func (s *Service) LogsInRange(ctx context.Context, userID uuid.UUID, fromDate, toDate string) (_ []WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workoutlog.logsInRange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	from, err := ParseDate(fromDate)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(toDate)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("invalid range: %s is after %s", fromDate, toDate)
	}

	return s.repo.ListInRange(ctx, userID, fromDate, toDate)
}

// DeleteForRoutine removes all of the user's logs for a routine.
// Routine deletion is the only operation that hard-deletes logs.
func (s *Service) DeleteForRoutine(ctx context.Context, userID, routineID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workoutlog.deleteForRoutine")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.repo.DeleteForRoutine(ctx, userID, routineID)
}

// Streak counts consecutive days with a fully completed workout,
// walking back one day at a time starting from today. The walk stops
// at the first date with no completed log, so an unfinished today
// means a streak of zero.
func (s *Service) Streak(ctx context.Context, userID uuid.UUID) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workoutlog.streak")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	today := s.now()
	from := today.AddDate(0, 0, -maxStreakLookbackDays)
	logs, err := s.repo.ListInRange(
		ctx, userID,
		from.Format(routine.DateLayout), today.Format(routine.DateLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("list logs: %w", err)
	}

	completedDates := make(map[string]bool)
	for _, l := range logs {
		if l.IsCompleted {
			completedDates[l.Date] = true
		}
	}

	streak := 0
	for offset := 0; offset <= maxStreakLookbackDays; offset++ {
		day := today.AddDate(0, 0, -offset).Format(routine.DateLayout)
		if !completedDates[day] {
			break
		}
		streak++
	}

	return streak, nil
}
