package routine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/yunokim/fitplan/internal/telemetry/tracing"
	"github.com/yunokim/fitplan/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type routinesRepo interface {
	Add(ctx context.Context, routine *Routine) (*Routine, error)
	Get(ctx context.Context, userID, routineID uuid.UUID) (*Routine, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*Routine, error)
	List(ctx context.Context, userID uuid.UUID) ([]Routine, error)
	Update(ctx context.Context, routine *Routine) error
	Activate(ctx context.Context, userID, routineID uuid.UUID) error
	Deactivate(ctx context.Context, userID, routineID uuid.UUID) error
	Delete(ctx context.Context, userID, routineID uuid.UUID) error
}

// calendarSync is the best-effort mirror of routine state to the
// user's remote calendar. Implementations must never panic; returned
// errors are logged and reported, never allowed to fail the local
// routine operation that triggered them.
type calendarSync interface {
	SyncRoutine(ctx context.Context, r *Routine) (created int, errs []string)
	RemoveRoutineEvents(ctx context.Context, userID, routineID uuid.UUID) error
}

// logsPurger removes the completion logs owned by a routine. Routine
// deletion is the only operation allowed to hard-delete logs.
type logsPurger interface {
	DeleteForRoutine(ctx context.Context, userID, routineID uuid.UUID) error
}

type SyncReport struct {
	Attempted     bool     `json:"attempted"`
	EventsCreated int      `json:"eventsCreated"`
	Errors        []string `json:"errors,omitempty"`
}

type RoutineResponse struct {
	Routine *Routine    `json:"routine"`
	Sync    *SyncReport `json:"sync,omitempty"`
}

type ScheduleResponse struct {
	Date    string   `json:"date"`
	Workout *Workout `json:"workout"` // null on rest days
}

type Handler struct {
	repo        routinesRepo
	activeCache *ActiveRoutineCache
	calSync     calendarSync
	logs        logsPurger
}

func NewHandler(repo routinesRepo, activeCache *ActiveRoutineCache, calSync calendarSync, logs logsPurger) *Handler {
	return &Handler{
		repo:        repo,
		activeCache: activeCache,
		calSync:     calSync,
		logs:        logs,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/routines", handler.handleAdd).Methods("POST", "OPTIONS").Name("new-routine")
	router.HandleFunc("/routines", handler.handleList).Methods("GET", "OPTIONS").Name("list-routines")
	router.HandleFunc("/routines/active", handler.handleGetActive).Methods("GET", "OPTIONS").Name("active-routine")
	router.HandleFunc("/routines/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("get-routine")
	router.HandleFunc("/routines/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-routine")
	router.HandleFunc("/routines/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-routine")
	router.HandleFunc("/routines/{id}/activate", handler.handleActivate).Methods("POST", "OPTIONS").Name("activate-routine")
	router.HandleFunc("/routines/{id}/deactivate", handler.handleDeactivate).Methods("POST", "OPTIONS").Name("deactivate-routine")
	router.HandleFunc("/routines/{id}/schedule", handler.handleSchedule).Methods("GET", "OPTIONS").Name("routine-schedule")
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routine.add")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var routine Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		log.Tracef("new routine, unmarshal json params: %s", err)
		http.Error(w, "add routine failed", http.StatusBadRequest)
		return
	}

	routine.UserID = userID
	if err := routine.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	addedRoutine, err := handler.repo.Add(ctx, &routine)
	if err != nil {
		log.Errorf("failed to add new routine [%s]: %s", routine.Name, err)
		http.Error(w, "error, failed to add new routine", http.StatusInternalServerError)
		return
	}

	handler.activeCache.Invalidate(userID)

	routineJson, err := json.Marshal(RoutineResponse{Routine: addedRoutine})
	if err != nil {
		log.Errorf("failed to marshal new routine: %s", err)
		http.Error(w, "error, failed to add new routine", http.StatusInternalServerError)
		return
	}

	log.Debugf("new routine added: %s [%s]", addedRoutine.ID, addedRoutine.Name)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, routineJson, http.StatusCreated)
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routine.list")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	routines, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("list routines for %s: %s", userID, err)
		http.Error(w, "failed to get routines", http.StatusInternalServerError)
		return
	}

	routinesJson, err := json.Marshal(routines)
	if err != nil {
		log.Errorf("marshal routines error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, routinesJson, http.StatusOK)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routine.get")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	routineID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, invalid routine id", http.StatusBadRequest)
		return
	}

	routine, err := handler.repo.Get(ctx, userID, routineID)
	if errors.Is(err, ErrRoutineNotFound) {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get routine %s: %s", routineID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	routineJson, err := json.Marshal(routine)
	if err != nil {
		log.Errorf("failed to marshal routine: %s", err)
		http.Error(w, "failed to marshal routine", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, routineJson, http.StatusOK)
}

func (handler *Handler) handleGetActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routine.getActive")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	routine, found := handler.activeCache.Get(userID)
	if !found {
		routine, err = handler.repo.GetActive(ctx, userID)
		if errors.Is(err, ErrNoActiveRoutine) {
			http.Error(w, "no active routine", http.StatusNotFound)
			return
		} else if err != nil {
			log.Errorf("failed to get active routine for %s: %s", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		handler.activeCache.Set(userID, routine)
	}

	routineJson, err := json.Marshal(routine)
	if err != nil {
		log.Errorf("failed to marshal active routine: %s", err)
		http.Error(w, "failed to marshal active routine", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, routineJson, http.StatusOK)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routine.update")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	routineID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, invalid routine id", http.StatusBadRequest)
		return
	}

	var routine Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		log.Errorf("update routine, unmarshal json params: %s", err)
		http.Error(w, "update routine failed", http.StatusBadRequest)
		return
	}
	routine.ID = routineID
	routine.UserID = userID

	if err := handler.repo.Update(ctx, &routine); err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update routine %s: %s", routineID, err)
		http.Error(w, "error, failed to update routine", http.StatusInternalServerError)
		return
	}

	handler.activeCache.Invalidate(userID)

	// editing an active routine re-syncs its calendar events; any sync
	// failure is reported, never allowed to fail the local update
	syncReport := handler.resyncIfActive(ctx, userID, routineID)

	updated, err := handler.repo.Get(ctx, userID, routineID)
	if err != nil {
		log.Errorf("failed to re-get updated routine %s: %s", routineID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(RoutineResponse{Routine: updated, Sync: syncReport})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routine.activate")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	routineID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, invalid routine id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Activate(ctx, userID, routineID); err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to activate routine %s: %s", routineID, err)
		http.Error(w, "error, failed to activate routine", http.StatusInternalServerError)
		return
	}

	handler.activeCache.Invalidate(userID)

	activated, err := handler.repo.Get(ctx, userID, routineID)
	if err != nil {
		log.Errorf("failed to get activated routine %s: %s", routineID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	syncReport := &SyncReport{}
	if handler.calSync != nil {
		syncReport.Attempted = true
		created, syncErrs := handler.calSync.SyncRoutine(ctx, activated)
		syncReport.EventsCreated = created
		syncReport.Errors = syncErrs
		if len(syncErrs) > 0 {
			log.Errorf("activate routine %s: %d calendar sync errors, first: %s", routineID, len(syncErrs), syncErrs[0])
		}
	}

	respJson, err := json.Marshal(RoutineResponse{Routine: activated, Sync: syncReport})
	if err != nil {
		log.Errorf("failed to marshal activate response: %s", err)
		http.Error(w, "failed to marshal activate response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routine.deactivate")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	routineID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, invalid routine id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Deactivate(ctx, userID, routineID); err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to deactivate routine %s: %s", routineID, err)
		http.Error(w, "error, failed to deactivate routine", http.StatusInternalServerError)
		return
	}

	handler.activeCache.Invalidate(userID)

	// a deactivated routine has no business staying on the calendar
	if handler.calSync != nil {
		if err := handler.calSync.RemoveRoutineEvents(ctx, userID, routineID); err != nil {
			log.Errorf("deactivate routine %s: remove calendar events: %s", routineID, err)
		}
	}

	deactivated, err := handler.repo.Get(ctx, userID, routineID)
	if err != nil {
		log.Errorf("failed to get deactivated routine %s: %s", routineID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(RoutineResponse{Routine: deactivated})
	if err != nil {
		log.Errorf("failed to marshal deactivate response: %s", err)
		http.Error(w, "failed to marshal deactivate response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routine.delete")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	routineID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, invalid routine id", http.StatusBadRequest)
		return
	}

	// remote events first (best-effort), then the local rows
	if handler.calSync != nil {
		if err := handler.calSync.RemoveRoutineEvents(ctx, userID, routineID); err != nil {
			log.Errorf("delete routine %s: remove calendar events: %s", routineID, err)
		}
	}

	if err := handler.repo.Delete(ctx, userID, routineID); err != nil {
		if errors.Is(err, ErrRoutineNotFound) {
			http.Error(w, "routine not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete routine %s: %s", routineID, err)
		http.Error(w, "routine not deleted", http.StatusInternalServerError)
		return
	}

	// the routine is gone, its completion logs go with it
	if handler.logs != nil {
		if err := handler.logs.DeleteForRoutine(ctx, userID, routineID); err != nil {
			log.Errorf("delete routine %s: delete workout logs: %s", routineID, err)
			http.Error(w, "routine deleted, logs cleanup failed", http.StatusInternalServerError)
			return
		}
	}

	handler.activeCache.Invalidate(userID)

	pkg.WriteJSONResponseOK(w, `{"deleted":true}`)
}

func (handler *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routine.schedule")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	routineID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, invalid routine id", http.StatusBadRequest)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		dateStr = time.Now().Format(DateLayout)
	}
	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		http.Error(w, "error, invalid date, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	routine, err := handler.repo.Get(ctx, userID, routineID)
	if errors.Is(err, ErrRoutineNotFound) {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get routine %s: %s", routineID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	scheduleJson, err := json.Marshal(ScheduleResponse{
		Date:    dateStr,
		Workout: WorkoutForDate(routine, date),
	})
	if err != nil {
		log.Errorf("failed to marshal schedule response: %s", err)
		http.Error(w, "failed to marshal schedule response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, scheduleJson, http.StatusOK)
}

func (handler *Handler) resyncIfActive(ctx context.Context, userID, routineID uuid.UUID) *SyncReport {
	if handler.calSync == nil {
		return nil
	}

	routine, err := handler.repo.Get(ctx, userID, routineID)
	if err != nil || !routine.IsActive {
		return nil
	}

	report := &SyncReport{Attempted: true}
	created, syncErrs := handler.calSync.SyncRoutine(ctx, routine)
	report.EventsCreated = created
	report.Errors = syncErrs
	if len(syncErrs) > 0 {
		log.Errorf("resync routine %s: %d calendar sync errors, first: %s", routineID, len(syncErrs), syncErrs[0])
	}
	return report
}
