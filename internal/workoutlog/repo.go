package workoutlog

import (
	"context"
	"errors"
	"time"

	"github.com/yunokim/fitplan/internal/routine"
	"github.com/yunokim/fitplan/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrLogNotFound = errors.New("workout log not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert writes the log for (user, routine, workout, date). A second
// write for the same key overwrites the completed set: toggles are
// last-write-wins, there is at most one log row per workout per date.
func (r *Repo) Upsert(ctx context.Context, l *WorkoutLog) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutlog.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("workout.id", l.WorkoutID.String()),
		attribute.String("log.date", l.Date),
	)

	date, err := ParseDate(l.Date)
	if err != nil {
		return nil, err
	}

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	now := time.Now()

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO workout_log
				(id, user_id, routine_id, workout_id, date, completed_exercise_ids, is_completed, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			ON CONFLICT (user_id, routine_id, workout_id, date) DO UPDATE
				SET completed_exercise_ids = EXCLUDED.completed_exercise_ids,
					is_completed = EXCLUDED.is_completed,
					updated_at = EXCLUDED.updated_at
			RETURNING id, created_at, updated_at;`,
		l.ID, l.UserID, l.RoutineID, l.WorkoutID, date,
		l.CompletedExerciseIDs, l.IsCompleted, now,
	)
	if err := row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}

	return l, nil
}

func (r *Repo) Get(ctx context.Context, userID, routineID, workoutID uuid.UUID, logDate string) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutlog.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	date, err := ParseDate(logDate)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, routine_id, workout_id, date, completed_exercise_ids, is_completed, created_at, updated_at
			FROM workout_log
			WHERE user_id = $1 AND routine_id = $2 AND workout_id = $3 AND date = $4;`,
		userID, routineID, workoutID, date,
	)
	if err != nil {
		return nil, err
	}

	logs, err := rows2logs(rows)
	if err != nil {
		return nil, err
	}
	if len(logs) != 1 {
		return nil, ErrLogNotFound
	}

	return &logs[0], nil
}

func (r *Repo) ListForDate(ctx context.Context, userID uuid.UUID, logDate string) (_ []WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutlog.listForDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	date, err := ParseDate(logDate)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, routine_id, workout_id, date, completed_exercise_ids, is_completed, created_at, updated_at
			FROM workout_log
			WHERE user_id = $1 AND date = $2;`,
		userID, date,
	)
	if err != nil {
		return nil, err
	}

	return rows2logs(rows)
}

// ListInRange returns the user's logs with from <= date <= to,
// oldest first.
func (r *Repo) ListInRange(ctx context.Context, userID uuid.UUID, fromDate, toDate string) (_ []WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutlog.listInRange")
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

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, routine_id, workout_id, date, completed_exercise_ids, is_completed, created_at, updated_at
			FROM workout_log
			WHERE user_id = $1 AND date >= $2 AND date <= $3
			ORDER BY date;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}

	return rows2logs(rows)
}

func (r *Repo) DeleteForRoutine(ctx context.Context, userID, routineID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workoutlog.deleteForRoutine")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID.String()))

	_, err = r.db.Exec(
		ctx,
		`DELETE FROM workout_log WHERE user_id = $1 AND routine_id = $2;`,
		userID, routineID,
	)
	return err
}

func rows2logs(rows pgx.Rows) ([]WorkoutLog, error) {
	logs := make([]WorkoutLog, 0)
	for rows.Next() {
		var l WorkoutLog
		var date time.Time
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.RoutineID, &l.WorkoutID, &date,
			&l.CompletedExerciseIDs, &l.IsCompleted, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		l.Date = date.Format(routine.DateLayout)
		if l.CompletedExerciseIDs == nil {
			l.CompletedExerciseIDs = make([]uuid.UUID, 0)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
