package routine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yunokim/fitplan/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrRoutineNotFound = errors.New("routine not found")
	ErrNoActiveRoutine = errors.New("no active routine")
	ErrWorkoutNotFound = errors.New("workout not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, routine *Routine) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routine.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := routine.Validate(); err != nil {
		return nil, fmt.Errorf("validate routine: %w", err)
	}

	if routine.ID == uuid.Nil {
		routine.ID = uuid.New()
	}
	now := time.Now()
	if routine.CreatedAt.IsZero() {
		routine.CreatedAt = now
	}
	routine.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(
		ctx,
		`INSERT INTO routine
				(id, user_id, name, duration_weeks, workouts_per_week, split_type, note, is_active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		routine.ID, routine.UserID, routine.Name,
		routine.Settings.DurationWeeks, routine.Settings.WorkoutsPerWeek,
		routine.Settings.SplitType, routine.Settings.Note,
		routine.IsActive, routine.CreatedAt, routine.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert routine: %w", err)
	}

	for wi := range routine.Workouts {
		w := &routine.Workouts[wi]
		if w.ID == uuid.Nil {
			w.ID = uuid.New()
		}
		w.RoutineID = routine.ID

		_, err = tx.Exec(
			ctx,
			`INSERT INTO workout (id, routine_id, day_number, name) VALUES ($1, $2, $3, $4);`,
			w.ID, w.RoutineID, w.DayNumber, w.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("insert workout %q: %w", w.Name, err)
		}

		for ei := range w.Exercises {
			e := &w.Exercises[ei]
			if e.ID == uuid.Nil {
				e.ID = uuid.New()
			}
			e.WorkoutID = w.ID
			e.Position = ei

			_, err = tx.Exec(
				ctx,
				`INSERT INTO exercise
						(id, workout_id, name, sets, reps, muscle_group, description, position)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
				e.ID, e.WorkoutID, e.Name, e.Sets, e.Reps, e.MuscleGroup, e.Description, e.Position,
			)
			if err != nil {
				return nil, fmt.Errorf("insert exercise %q: %w", e.Name, err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	span.SetAttributes(attribute.String("routine.id", routine.ID.String()))

	return routine, nil
}

func (r *Repo) Get(ctx context.Context, userID, routineID uuid.UUID) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routine.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID.String()))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, name, duration_weeks, workouts_per_week, split_type, note, is_active, created_at, updated_at
			FROM routine
			WHERE id = $1 AND user_id = $2;`,
		routineID, userID,
	)
	if err != nil {
		return nil, err
	}

	routines, err := r.rows2routines(rows)
	if err != nil {
		return nil, err
	}

	if len(routines) != 1 {
		return nil, ErrRoutineNotFound
	}

	routine := &routines[0]
	if err := r.loadWorkouts(ctx, routine); err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	return routine, nil
}

// GetActive returns the single active routine of the user,
// or ErrNoActiveRoutine when the user has none.
func (r *Repo) GetActive(ctx context.Context, userID uuid.UUID) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routine.getActive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, name, duration_weeks, workouts_per_week, split_type, note, is_active, created_at, updated_at
			FROM routine
			WHERE user_id = $1 AND is_active IS TRUE;`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	routines, err := r.rows2routines(rows)
	if err != nil {
		return nil, err
	}

	if len(routines) == 0 {
		return nil, ErrNoActiveRoutine
	}

	routine := &routines[0]
	if err := r.loadWorkouts(ctx, routine); err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	return routine, nil
}

func (r *Repo) List(ctx context.Context, userID uuid.UUID) (_ []Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routine.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, name, duration_weeks, workouts_per_week, split_type, note, is_active, created_at, updated_at
			FROM routine
			WHERE user_id = $1
			ORDER BY created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	routines, err := r.rows2routines(rows)
	if err != nil {
		return nil, err
	}

	for i := range routines {
		if err := r.loadWorkouts(ctx, &routines[i]); err != nil {
			return nil, fmt.Errorf("load workouts for %s: %w", routines[i].ID, err)
		}
	}

	return routines, nil
}

// Update changes name and settings of the routine. Workout and
// exercise structure is immutable after creation; a changed plan is a
// new routine (matches the generate-then-activate flow of the app).
func (r *Repo) Update(ctx context.Context, routine *Routine) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routine.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routine.ID.String()))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE routine
			SET name = $1, duration_weeks = $2, workouts_per_week = $3, split_type = $4, note = $5, updated_at = $6
			WHERE id = $7 AND user_id = $8;`,
		routine.Name,
		routine.Settings.DurationWeeks, routine.Settings.WorkoutsPerWeek,
		routine.Settings.SplitType, routine.Settings.Note,
		time.Now(),
		routine.ID, routine.UserID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}

	return nil
}

// Activate makes the given routine the single active one for the user:
// all other routines of the same user get deactivated in the same tx.
func (r *Repo) Activate(ctx context.Context, userID, routineID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routine.activate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID.String()))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(
		ctx,
		`UPDATE routine SET is_active = FALSE, updated_at = $1 WHERE user_id = $2 AND is_active IS TRUE;`,
		time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("deactivate other routines: %w", err)
	}

	tag, err := tx.Exec(
		ctx,
		`UPDATE routine SET is_active = TRUE, updated_at = $1 WHERE id = $2 AND user_id = $3;`,
		time.Now(), routineID, userID,
	)
	if err != nil {
		return fmt.Errorf("activate routine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}

	return tx.Commit(ctx)
}

func (r *Repo) Deactivate(ctx context.Context, userID, routineID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routine.deactivate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID.String()))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE routine SET is_active = FALSE, updated_at = $1 WHERE id = $2 AND user_id = $3;`,
		time.Now(), routineID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}
	return nil
}

// Delete removes the routine with its workouts and exercises.
// Workout logs and event mappings reference the routine by id and are
// removed by their own stores (the handler orchestrates that).
func (r *Repo) Delete(ctx context.Context, userID, routineID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routine.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID.String()))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(
		ctx,
		`DELETE FROM exercise WHERE workout_id IN (SELECT id FROM workout WHERE routine_id = $1);`,
		routineID,
	)
	if err != nil {
		return fmt.Errorf("delete exercises: %w", err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM workout WHERE routine_id = $1;`, routineID)
	if err != nil {
		return fmt.Errorf("delete workouts: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM routine WHERE id = $1 AND user_id = $2;`, routineID, userID)
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}

	return tx.Commit(ctx)
}

// GetWorkout returns a single workout with its exercises,
// without loading the whole routine.
func (r *Repo) GetWorkout(ctx context.Context, workoutID uuid.UUID) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routine.getWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID.String()))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, routine_id, day_number, name FROM workout WHERE id = $1;`,
		workoutID,
	)
	if err != nil {
		return nil, err
	}

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}
	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	workout := &workouts[0]
	if err := r.loadExercises(ctx, workout); err != nil {
		return nil, fmt.Errorf("load exercises: %w", err)
	}

	return workout, nil
}

func (r *Repo) loadWorkouts(ctx context.Context, routine *Routine) error {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, routine_id, day_number, name FROM workout WHERE routine_id = $1 ORDER BY day_number;`,
		routine.ID,
	)
	if err != nil {
		return err
	}

	workouts, err := rows2workouts(rows)
	if err != nil {
		return err
	}

	for i := range workouts {
		if err := r.loadExercises(ctx, &workouts[i]); err != nil {
			return err
		}
	}

	routine.Workouts = workouts
	return nil
}

func (r *Repo) loadExercises(ctx context.Context, workout *Workout) error {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, workout_id, name, sets, reps, muscle_group, description, position
			FROM exercise
			WHERE workout_id = $1
			ORDER BY position;`,
		workout.ID,
	)
	if err != nil {
		return err
	}

	exercises := make([]Exercise, 0)
	for rows.Next() {
		var e Exercise
		var muscleGroup string
		if err := rows.Scan(
			&e.ID, &e.WorkoutID, &e.Name, &e.Sets, &e.Reps, &muscleGroup, &e.Description, &e.Position,
		); err != nil {
			return err
		}
		e.MuscleGroup = MuscleGroup(muscleGroup)
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	workout.Exercises = exercises
	return nil
}

func (r *Repo) rows2routines(rows pgx.Rows) ([]Routine, error) {
	var routines []Routine
	for rows.Next() {
		var routine Routine
		if err := rows.Scan(
			&routine.ID, &routine.UserID, &routine.Name,
			&routine.Settings.DurationWeeks, &routine.Settings.WorkoutsPerWeek,
			&routine.Settings.SplitType, &routine.Settings.Note,
			&routine.IsActive, &routine.CreatedAt, &routine.UpdatedAt,
		); err != nil {
			return nil, err
		}
		routines = append(routines, routine)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if routines == nil {
		routines = make([]Routine, 0)
	}

	return routines, nil
}

func rows2workouts(rows pgx.Rows) ([]Workout, error) {
	var workouts []Workout
	for rows.Next() {
		var w Workout
		if err := rows.Scan(&w.ID, &w.RoutineID, &w.DayNumber, &w.Name); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}
