package workoutlog

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/yunokim/fitplan/internal/routine"
	"github.com/yunokim/fitplan/internal/telemetry/tracing"
	"github.com/yunokim/fitplan/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type toggleExerciseRequest struct {
	RoutineID  uuid.UUID `json:"routineId"`
	WorkoutID  uuid.UUID `json:"workoutId"`
	ExerciseID uuid.UUID `json:"exerciseId"`
	Date       string    `json:"date"`
}

type streakResponse struct {
	Streak int `json:"streak"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/logs/toggle", handler.handleToggle).Methods("POST", "OPTIONS").Name("toggle-exercise")
	router.HandleFunc("/logs/range", handler.handleRange).Methods("GET", "OPTIONS").Name("logs-range")
	router.HandleFunc("/logs/streak", handler.handleStreak).Methods("GET", "OPTIONS").Name("logs-streak")
	router.HandleFunc("/logs", handler.handleListForDate).Methods("GET", "OPTIONS").Name("logs-for-date")
}

func (handler *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutlog.toggle")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req toggleExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("toggle exercise, unmarshal json params: %s", err)
		http.Error(w, "toggle failed", http.StatusBadRequest)
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format(routine.DateLayout)
	}

	result, err := handler.service.ToggleExercise(ctx, userID, req.RoutineID, req.WorkoutID, req.ExerciseID, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, routine.ErrWorkoutNotFound):
			http.Error(w, "workout not found", http.StatusNotFound)
		case errors.Is(err, ErrExerciseNotInWorkout):
			http.Error(w, "exercise not in workout", http.StatusBadRequest)
		default:
			log.Errorf("toggle exercise [workout %s]: %s", req.WorkoutID, err)
			http.Error(w, "toggle failed", http.StatusInternalServerError)
		}
		return
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal toggle result: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusOK)
}

func (handler *Handler) handleListForDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutlog.listForDate")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	logDate := r.URL.Query().Get("date")
	if logDate == "" {
		logDate = time.Now().Format(routine.DateLayout)
	}

	logs, err := handler.service.LogsForDate(ctx, userID, logDate)
	if err != nil {
		log.Errorf("list logs for %s [%s]: %s", userID, logDate, err)
		http.Error(w, "failed to get logs", http.StatusInternalServerError)
		return
	}

	logsJson, err := json.Marshal(logs)
	if err != nil {
		log.Errorf("failed to marshal logs: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, logsJson, http.StatusOK)
}

func (handler *Handler) handleRange(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutlog.range")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	fromDate := r.URL.Query().Get("from")
	toDate := r.URL.Query().Get("to")
	if fromDate == "" || toDate == "" {
		http.Error(w, "error, from and to are required", http.StatusBadRequest)
		return
	}

	logs, err := handler.service.LogsInRange(ctx, userID, fromDate, toDate)
	if err != nil {
		log.Errorf("list logs in range [%s, %s]: %s", fromDate, toDate, err)
		http.Error(w, "failed to get logs", http.StatusBadRequest)
		return
	}

	logsJson, err := json.Marshal(logs)
	if err != nil {
		log.Errorf("failed to marshal logs: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, logsJson, http.StatusOK)
}

func (handler *Handler) handleStreak(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workoutlog.streak")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	streak, err := handler.service.Streak(ctx, userID)
	if err != nil {
		log.Errorf("get streak for %s: %s", userID, err)
		http.Error(w, "failed to get streak", http.StatusInternalServerError)
		return
	}

	streakJson, err := json.Marshal(streakResponse{Streak: streak})
	if err != nil {
		log.Errorf("failed to marshal streak: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, streakJson, http.StatusOK)
}
