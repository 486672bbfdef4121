package gcal

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

var ErrMappingNotFound = errors.New("event mapping not found")

// EventMapping joins a local (routine, workout, date) occurrence to
// the remote calendar event created for it.
type EventMapping struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	RoutineID     uuid.UUID `json:"routineId"`
	WorkoutID     uuid.UUID `json:"workoutId"`
	GoogleEventID string    `json:"googleEventId"`
	EventDate     string    `json:"eventDate"`
}

type MappingRepo struct {
	db *pgxpool.Pool
}

func NewMappingRepo(db *pgxpool.Pool) *MappingRepo {
	return &MappingRepo{
		db: db,
	}
}

// Upsert stores the mapping. A re-pushed occurrence replaces the
// remote event id for its (workout, date) slot instead of piling up
// duplicate rows.
func (r *MappingRepo) Upsert(ctx context.Context, m *EventMapping) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.eventMapping.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("workout.id", m.WorkoutID.String()),
		attribute.String("event.date", m.EventDate),
	)

	eventDate, err := time.Parse(routine.DateLayout, m.EventDate)
	if err != nil {
		return err
	}

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO calendar_event_mapping
				(id, user_id, routine_id, workout_id, google_event_id, event_date)
				VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (workout_id, event_date) DO UPDATE
				SET google_event_id = EXCLUDED.google_event_id
			RETURNING id;`,
		m.ID, m.UserID, m.RoutineID, m.WorkoutID, m.GoogleEventID, eventDate,
	).Scan(&m.ID)
	return err
}

func (r *MappingRepo) GetByWorkoutAndDate(ctx context.Context, userID, workoutID uuid.UUID, eventDate string) (_ *EventMapping, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.eventMapping.getByWorkoutAndDate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	date, err := time.Parse(routine.DateLayout, eventDate)
	if err != nil {
		return nil, err
	}

	var m EventMapping
	var scannedDate time.Time
	err = r.db.QueryRow(
		ctx,
		`
			SELECT id, user_id, routine_id, workout_id, google_event_id, event_date
			FROM calendar_event_mapping
			WHERE user_id = $1 AND workout_id = $2 AND event_date = $3;`,
		userID, workoutID, date,
	).Scan(&m.ID, &m.UserID, &m.RoutineID, &m.WorkoutID, &m.GoogleEventID, &scannedDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMappingNotFound
	}
	if err != nil {
		return nil, err
	}
	m.EventDate = scannedDate.Format(routine.DateLayout)

	return &m, nil
}

func (r *MappingRepo) ListForRoutine(ctx context.Context, userID, routineID uuid.UUID) (_ []EventMapping, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.eventMapping.listForRoutine")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID.String()))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, routine_id, workout_id, google_event_id, event_date
			FROM calendar_event_mapping
			WHERE user_id = $1 AND routine_id = $2
			ORDER BY event_date;`,
		userID, routineID,
	)
	if err != nil {
		return nil, err
	}

	return rows2mappings(rows)
}

func (r *MappingRepo) ListForUser(ctx context.Context, userID uuid.UUID) (_ []EventMapping, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.eventMapping.listForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, routine_id, workout_id, google_event_id, event_date
			FROM calendar_event_mapping
			WHERE user_id = $1
			ORDER BY event_date;`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	return rows2mappings(rows)
}

func (r *MappingRepo) DeleteForRoutine(ctx context.Context, userID, routineID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.eventMapping.deleteForRoutine")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID.String()))

	_, err = r.db.Exec(
		ctx,
		`DELETE FROM calendar_event_mapping WHERE user_id = $1 AND routine_id = $2;`,
		userID, routineID,
	)
	return err
}

func (r *MappingRepo) DeleteForUser(ctx context.Context, userID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.eventMapping.deleteForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx, `DELETE FROM calendar_event_mapping WHERE user_id = $1;`, userID)
	return err
}

func rows2mappings(rows pgx.Rows) ([]EventMapping, error) {
	mappings := make([]EventMapping, 0)
	for rows.Next() {
		var m EventMapping
		var eventDate time.Time
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.RoutineID, &m.WorkoutID, &m.GoogleEventID, &eventDate,
		); err != nil {
			return nil, err
		}
		m.EventDate = eventDate.Format(routine.DateLayout)
		mappings = append(mappings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return mappings, nil
}
