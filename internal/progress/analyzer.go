package progress

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yunokim/fitplan/internal/routine"
	"github.com/yunokim/fitplan/internal/telemetry/tracing"
	"github.com/yunokim/fitplan/internal/workoutlog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type logsRepo interface {
	ListInRange(ctx context.Context, userID uuid.UUID, fromDate, toDate string) ([]workoutlog.WorkoutLog, error)
}

type routinesRepo interface {
	GetActive(ctx context.Context, userID uuid.UUID) (*routine.Routine, error)
	GetWorkout(ctx context.Context, workoutID uuid.UUID) (*routine.Workout, error)
}

// Summary is the completion overview of one period. TotalWorkouts is
// the number of logs present in the period: a day the user never
// touched leaves no log and is not counted as incomplete.
type Summary struct {
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	TotalWorkouts     int    `json:"totalWorkouts"`
	CompletedWorkouts int    `json:"completedWorkouts"`
	CompletionRate    int    `json:"completionRate"` // percent, rounded
}

type MuscleGroupShare struct {
	MuscleGroup routine.MuscleGroup `json:"muscleGroup"`
	Count       int                 `json:"count"`
	Percentage  int                 `json:"percentage"`
}

type RemainingDays struct {
	RoutineID     uuid.UUID `json:"routineId"`
	DurationWeeks int       `json:"durationWeeks"`
	DaysElapsed   int       `json:"daysElapsed"`
	DaysRemaining int       `json:"daysRemaining"`
}

// Analyzer derives progress stats from the workout logs. Read-only,
// everything recomputed on demand.
type Analyzer struct {
	logs     logsRepo
	routines routinesRepo
	now      func() time.Time
}

func NewAnalyzer(logs logsRepo, routines routinesRepo) *Analyzer {
	return &Analyzer{
		logs:     logs,
		routines: routines,
		now:      time.Now,
	}
}

// WeeklySummary covers startDate plus the following six days.
func (a *Analyzer) WeeklySummary(ctx context.Context, userID uuid.UUID, startDate string) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.progress.weekly")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("period.start", startDate))

	start, err := workoutlog.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end := start.AddDate(0, 0, 6)

	return a.summarize(ctx, userID, start.Format(routine.DateLayout), end.Format(routine.DateLayout))
}

// MonthlySummary covers the calendar month, first to last day.
func (a *Analyzer) MonthlySummary(ctx context.Context, userID uuid.UUID, year int, month time.Month) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.progress.monthly")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month: %d", month)
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	return a.summarize(ctx, userID, start.Format(routine.DateLayout), end.Format(routine.DateLayout))
}

func (a *Analyzer) summarize(ctx context.Context, userID uuid.UUID, fromDate, toDate string) (*Summary, error) {
	logs, err := a.logs.ListInRange(ctx, userID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	summary := &Summary{
		StartDate:     fromDate,
		EndDate:       toDate,
		TotalWorkouts: len(logs),
	}
	for _, l := range logs {
		if l.IsCompleted {
			summary.CompletedWorkouts++
		}
	}
	if summary.TotalWorkouts > 0 {
		summary.CompletionRate = int(math.Round(
			float64(summary.CompletedWorkouts) / float64(summary.TotalWorkouts) * 100,
		))
	}

	return summary, nil
}

// MuscleGroupShares tallies the exercises of completed workouts in the
// range by muscle group and expresses each group's share of the total
// as a percentage. Groups that never occur are omitted.
func (a *Analyzer) MuscleGroupShares(ctx context.Context, userID uuid.UUID, fromDate, toDate string) (_ []MuscleGroupShare, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.progress.muscleGroups")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	logs, err := a.logs.ListInRange(ctx, userID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	counts := make(map[routine.MuscleGroup]int)
	total := 0
	workouts := make(map[uuid.UUID]*routine.Workout)
	for _, l := range logs {
		if !l.IsCompleted {
			continue
		}

		workout, ok := workouts[l.WorkoutID]
		if !ok {
			workout, err = a.routines.GetWorkout(ctx, l.WorkoutID)
			if err != nil {
				return nil, fmt.Errorf("get workout %s: %w", l.WorkoutID, err)
			}
			workouts[l.WorkoutID] = workout
		}

		for _, e := range workout.Exercises {
			counts[e.MuscleGroup]++
			total++
		}
	}

	shares := make([]MuscleGroupShare, 0, len(counts))
	for mg, count := range counts {
		shares = append(shares, MuscleGroupShare{
			MuscleGroup: mg,
			Count:       count,
			Percentage:  int(math.Round(float64(count) / float64(total) * 100)),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].MuscleGroup < shares[j].MuscleGroup
	})

	return shares, nil
}

// Remaining reports how many days are left in the active routine's
// plan, floored at zero once the plan duration has run out.
func (a *Analyzer) Remaining(ctx context.Context, userID uuid.UUID) (_ *RemainingDays, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.progress.remaining")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	active, err := a.routines.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	elapsed := wholeDaysBetween(active.CreatedAt, a.now())
	if elapsed < 0 {
		elapsed = 0
	}
	planDays := active.Settings.DurationWeeks * 7
	remaining := planDays - elapsed
	if remaining < 0 {
		remaining = 0
	}

	return &RemainingDays{
		RoutineID:     active.ID,
		DurationWeeks: active.Settings.DurationWeeks,
		DaysElapsed:   elapsed,
		DaysRemaining: remaining,
	}, nil
}

func wholeDaysBetween(a, b time.Time) int {
	aMidnight := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bMidnight := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bMidnight.Sub(aMidnight).Hours() / 24)
}
