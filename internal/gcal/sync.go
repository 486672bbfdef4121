package gcal

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
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"golang.org/x/oauth2"
)

//go:generate mockgen -source=sync.go -destination=sync_mocks_test.go -package=gcal

type connectionStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*Connection, error)
	Save(ctx context.Context, c *Connection) error
	UpdateSyncStatus(ctx context.Context, userID uuid.UUID, status SyncStatus, errorMessage string) error
	UpdateLastSync(ctx context.Context, userID uuid.UUID, at time.Time) error
	SetTokenExpired(ctx context.Context, userID uuid.UUID, expired bool) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type mappingStore interface {
	Upsert(ctx context.Context, m *EventMapping) error
	GetByWorkoutAndDate(ctx context.Context, userID, workoutID uuid.UUID, eventDate string) (*EventMapping, error)
	ListForRoutine(ctx context.Context, userID, routineID uuid.UUID) ([]EventMapping, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]EventMapping, error)
	DeleteForRoutine(ctx context.Context, userID, routineID uuid.UUID) error
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
}

type googleAPI interface {
	calendarAPI
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, string, error)
}

type statusCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*StatusResponse, bool)
	Set(ctx context.Context, userID uuid.UUID, status *StatusResponse)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type StatusResponse struct {
	Connected    bool       `json:"connected"`
	AccountEmail string     `json:"accountEmail,omitempty"`
	TokenExpired bool       `json:"tokenExpired,omitempty"`
	LastSyncAt   *time.Time `json:"lastSyncAt,omitempty"`
	SyncStatus   SyncStatus `json:"syncStatus"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

type SyncConfig struct {
	// SyncDays bounds the forward window of pushed events.
	SyncDays int
	// EventStartTime is the local "HH:MM" event start.
	EventStartTime string
	// TimeZone is the IANA zone events are scheduled in.
	TimeZone string
}

// SyncEngine mirrors local routine schedule and completion state onto
// the user's Google Calendar. Local state is the source of truth: the
// remote calendar is a best-effort mirror, and no operation here is
// allowed to block or fail a local write.
type SyncEngine struct {
	connections connectionStore
	mappings    mappingStore
	api         googleAPI
	status      statusCache
	metrics     *metrics.Manager
	cfg         SyncConfig
	now         func() time.Time
}

func NewSyncEngine(
	connections connectionStore,
	mappings mappingStore,
	api googleAPI,
	status statusCache,
	metricsManager *metrics.Manager,
	cfg SyncConfig,
) *SyncEngine {
	if cfg.SyncDays <= 0 {
		cfg.SyncDays = 30
	}
	return &SyncEngine{
		connections: connections,
		mappings:    mappings,
		api:         api,
		status:      status,
		metrics:     metricsManager,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (e *SyncEngine) AuthURL(userID uuid.UUID) string {
	return e.api.AuthURL(userID.String())
}

// Connect trades the OAuth code for tokens and stores the connection.
// A reconnect overwrites the previous tokens and resets sync state.
func (e *SyncEngine) Connect(ctx context.Context, userID uuid.UUID, code string) (_ *Connection, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gcal.engine.connect")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	token, email, err := e.api.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	conn := &Connection{
		UserID:         userID,
		AccountEmail:   email,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		TokenExpiresAt: token.Expiry,
		SyncStatus:     SyncStatusIdle,
	}
	if err := e.connections.Save(ctx, conn); err != nil {
		return nil, fmt.Errorf("save connection: %w", err)
	}

	e.invalidateStatus(ctx, userID)
	log.Debugf("calendar connected for user %s [%s]", userID, email)

	return conn, nil
}

// Status reports the connection state. A missing connection row is a
// valid answer (connected=false, idle), not an error.
func (e *SyncEngine) Status(ctx context.Context, userID uuid.UUID) (_ *StatusResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gcal.engine.status")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if e.status != nil {
		if cached, found := e.status.Get(ctx, userID); found {
			return cached, nil
		}
	}

	conn, err := e.connections.Get(ctx, userID)
	if errors.Is(err, ErrNotConnected) {
		return &StatusResponse{Connected: false, SyncStatus: SyncStatusIdle}, nil
	}
	if err != nil {
		return nil, err
	}

	status := &StatusResponse{
		Connected:    true,
		AccountEmail: conn.AccountEmail,
		TokenExpired: !conn.Usable(),
		LastSyncAt:   conn.LastSyncAt,
		SyncStatus:   conn.SyncStatus,
		ErrorMessage: conn.ErrorMessage,
	}
	if e.status != nil {
		e.status.Set(ctx, userID, status)
	}

	return status, nil
}

// SyncRoutine mirrors the routine's upcoming schedule with
// delete-then-recreate semantics: all previously mapped events are
// removed, then fresh events are pushed for every scheduled day in the
// forward window. Partial failure is a valid reported outcome.
// Not connected is a silent no-op.
func (e *SyncEngine) SyncRoutine(ctx context.Context, r *routine.Routine) (created int, errs []string) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gcal.engine.syncRoutine")
	defer span.End()
	span.SetAttributes(attribute.String("routine.id", r.ID.String()))

	conn, err := e.connections.Get(ctx, r.UserID)
	if errors.Is(err, ErrNotConnected) {
		return 0, nil
	}
	if err != nil {
		return 0, []string{fmt.Sprintf("get connection: %s", err)}
	}
	if !conn.Usable() {
		return 0, []string{"calendar token expired, reconnect required"}
	}

	syncStart := e.now()
	defer func() {
		e.metrics.HistCalendarSyncDuration.Observe(time.Since(syncStart).Seconds())
	}()

	if err := e.connections.UpdateSyncStatus(ctx, r.UserID, SyncStatusSyncing, ""); err != nil {
		log.Errorf("sync routine %s: set syncing status: %s", r.ID, err)
	}
	e.invalidateStatus(ctx, r.UserID)

	if err := e.removeMappedEvents(ctx, conn, r.UserID, r.ID); err != nil {
		// keep going, stale remote events are preferable to no sync
		log.Errorf("sync routine %s: remove old events: %s", r.ID, err)
		errs = append(errs, fmt.Sprintf("remove old events: %s", err))
	}

	created, createErrs := e.createEvents(ctx, conn, r)
	errs = append(errs, createErrs...)

	if created == 0 && len(errs) > 0 {
		e.setSyncError(ctx, r.UserID, errs[0])
	} else {
		if err := e.connections.UpdateSyncStatus(ctx, r.UserID, SyncStatusIdle, ""); err != nil {
			log.Errorf("sync routine %s: set idle status: %s", r.ID, err)
		}
		if err := e.connections.UpdateLastSync(ctx, r.UserID, e.now()); err != nil {
			log.Errorf("sync routine %s: update last sync: %s", r.ID, err)
		}
	}
	e.invalidateStatus(ctx, r.UserID)

	log.Debugf("routine %s synced: %d events created, %d errors", r.ID, created, len(errs))
	return created, errs
}

func (e *SyncEngine) createEvents(ctx context.Context, conn *Connection, r *routine.Routine) (created int, errs []string) {
	from := e.now()
	to := from.AddDate(0, 0, e.cfg.SyncDays)
	schedule := routine.ScheduleForRange(r, from, to)

	for dateStr, workout := range schedule {
		date, err := time.Parse(routine.DateLayout, dateStr)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %s", dateStr, err))
			continue
		}

		event, err := WorkoutToEvent(workout, r.Name, date, TransformOptions{
			StartTime: e.cfg.EventStartTime,
			TimeZone:  e.cfg.TimeZone,
		})
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: transform: %s", dateStr, err))
			continue
		}
		if err := event.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid event: %s", dateStr, err))
			continue
		}

		googleEventID, err := e.api.InsertEvent(ctx, conn.Token(), event)
		if err != nil {
			e.noteRemoteErr(ctx, conn.UserID, err)
			errs = append(errs, fmt.Sprintf("%s: %s", dateStr, err))
			continue
		}

		mapping := &EventMapping{
			UserID:        conn.UserID,
			RoutineID:     r.ID,
			WorkoutID:     workout.ID,
			GoogleEventID: googleEventID,
			EventDate:     dateStr,
		}
		if err := e.mappings.Upsert(ctx, mapping); err != nil {
			errs = append(errs, fmt.Sprintf("%s: store mapping: %s", dateStr, err))
			continue
		}

		created++
		e.metrics.CounterCalendarEventsPush.Inc()
	}

	return created, errs
}

// RemoveRoutineEvents deletes the routine's remote events and their
// mappings. Best-effort on the remote side: one failed delete does not
// stop the others, and local mappings are cleared regardless.
func (e *SyncEngine) RemoveRoutineEvents(ctx context.Context, userID, routineID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gcal.engine.removeRoutineEvents")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID.String()))

	conn, err := e.connections.Get(ctx, userID)
	if errors.Is(err, ErrNotConnected) {
		// no remote side to clean, just drop the local mappings
		return e.mappings.DeleteForRoutine(ctx, userID, routineID)
	}
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}

	return e.removeMappedEvents(ctx, conn, userID, routineID)
}

func (e *SyncEngine) removeMappedEvents(ctx context.Context, conn *Connection, userID, routineID uuid.UUID) error {
	mappings, err := e.mappings.ListForRoutine(ctx, userID, routineID)
	if err != nil {
		return fmt.Errorf("list mappings: %w", err)
	}

	var deleteErrs error
	for _, m := range mappings {
		if err := e.api.DeleteEvent(ctx, conn.Token(), m.GoogleEventID); err != nil {
			e.noteRemoteErr(ctx, userID, err)
			deleteErrs = multierr.Append(deleteErrs, fmt.Errorf("event %s: %w", m.GoogleEventID, err))
		}
	}

	if err := e.mappings.DeleteForRoutine(ctx, userID, routineID); err != nil {
		deleteErrs = multierr.Append(deleteErrs, fmt.Errorf("delete mappings: %w", err))
	}

	return deleteErrs
}

// MarkCompletion reflects a workout's completion flip on its calendar
// event: completed gains the marker prefix and the completed color,
// reverting strips both. Silent no-op (false, nil) when the user is
// not connected, the token is expired, or no event exists for the
// date. Never blocks the local write that triggered it.
func (e *SyncEngine) MarkCompletion(
	ctx context.Context,
	userID, workoutID uuid.UUID,
	eventDate string,
	completed bool,
) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gcal.engine.markCompletion")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("workout.id", workoutID.String()),
		attribute.Bool("completed", completed),
	)

	conn, err := e.connections.Get(ctx, userID)
	if errors.Is(err, ErrNotConnected) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get connection: %w", err)
	}
	if !conn.Usable() {
		return false, nil
	}

	mapping, err := e.mappings.GetByWorkoutAndDate(ctx, userID, workoutID, eventDate)
	if errors.Is(err, ErrMappingNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get mapping: %w", err)
	}

	summary, _, err := e.api.GetEventSummary(ctx, conn.Token(), mapping.GoogleEventID)
	if err != nil {
		e.noteRemoteErr(ctx, userID, err)
		return false, fmt.Errorf("get event: %w", err)
	}

	var newSummary, newColorID string
	if completed {
		newSummary = MarkTitleCompleted(summary)
		newColorID = CompletedColorID
	} else {
		newSummary = MarkTitleIncomplete(summary)
		newColorID = ""
	}

	if err := e.api.PatchEventSummary(ctx, conn.Token(), mapping.GoogleEventID, newSummary, newColorID); err != nil {
		e.noteRemoteErr(ctx, userID, err)
		return false, fmt.Errorf("patch event: %w", err)
	}

	return true, nil
}

// Disconnect severs the calendar link: remote events are removed
// best-effort, then all mappings and the stored tokens are dropped.
// After this call no trace of the connection remains locally.
func (e *SyncEngine) Disconnect(ctx context.Context, userID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gcal.engine.disconnect")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	conn, err := e.connections.Get(ctx, userID)
	if errors.Is(err, ErrNotConnected) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}

	mappings, err := e.mappings.ListForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list mappings: %w", err)
	}
	for _, m := range mappings {
		if err := e.api.DeleteEvent(ctx, conn.Token(), m.GoogleEventID); err != nil {
			// remote leftovers are acceptable on disconnect, the local
			// cleanup below must happen either way
			log.Errorf("disconnect %s: delete remote event %s: %s", userID, m.GoogleEventID, err)
			e.metrics.CounterCalendarSyncErrors.Inc()
		}
	}

	if err := e.mappings.DeleteForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete mappings: %w", err)
	}
	if err := e.connections.Delete(ctx, userID); err != nil && !errors.Is(err, ErrNotConnected) {
		return fmt.Errorf("delete connection: %w", err)
	}

	e.invalidateStatus(ctx, userID)
	log.Debugf("calendar disconnected for user %s", userID)

	return nil
}

func (e *SyncEngine) setSyncError(ctx context.Context, userID uuid.UUID, message string) {
	if err := e.connections.UpdateSyncStatus(ctx, userID, SyncStatusError, message); err != nil {
		log.Errorf("set sync error status for %s: %s", userID, err)
	}
}

// noteRemoteErr records a failed remote call and flags the connection
// when the credential itself was rejected.
func (e *SyncEngine) noteRemoteErr(ctx context.Context, userID uuid.UUID, remoteErr error) {
	e.metrics.CounterCalendarSyncErrors.Inc()
	if IsAuthError(remoteErr) {
		if err := e.connections.SetTokenExpired(ctx, userID, true); err != nil {
			log.Errorf("flag token expired for %s: %s", userID, err)
		}
		e.invalidateStatus(ctx, userID)
	}
}

func (e *SyncEngine) invalidateStatus(ctx context.Context, userID uuid.UUID) {
	if e.status != nil {
		e.status.Invalidate(ctx, userID)
	}
}
