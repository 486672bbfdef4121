package progress

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/yunokim/fitplan/internal/routine"
	"github.com/yunokim/fitplan/internal/telemetry/tracing"
	"github.com/yunokim/fitplan/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	analyzer *Analyzer
}

func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/progress/weekly", handler.handleWeekly).Methods("GET", "OPTIONS").Name("progress-weekly")
	router.HandleFunc("/progress/monthly", handler.handleMonthly).Methods("GET", "OPTIONS").Name("progress-monthly")
	router.HandleFunc("/progress/muscles", handler.handleMuscleGroups).Methods("GET", "OPTIONS").Name("progress-muscles")
	router.HandleFunc("/progress/remaining", handler.handleRemaining).Methods("GET", "OPTIONS").Name("progress-remaining")
}

func (handler *Handler) handleWeekly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.weekly")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	startDate := r.URL.Query().Get("start")
	if startDate == "" {
		// default to the current week, starting monday
		now := time.Now()
		offset := (int(now.Weekday()) + 6) % 7
		startDate = now.AddDate(0, 0, -offset).Format(routine.DateLayout)
	}

	summary, err := handler.analyzer.WeeklySummary(ctx, userID, startDate)
	if err != nil {
		log.Errorf("weekly summary for %s: %s", userID, err)
		http.Error(w, "failed to get weekly summary", http.StatusBadRequest)
		return
	}

	handler.writeJSON(w, summary)
}

func (handler *Handler) handleMonthly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.monthly")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		if year, err = strconv.Atoi(yearParam); err != nil {
			http.Error(w, "error, invalid year", http.StatusBadRequest)
			return
		}
	}
	if monthParam := r.URL.Query().Get("month"); monthParam != "" {
		if month, err = strconv.Atoi(monthParam); err != nil {
			http.Error(w, "error, invalid month", http.StatusBadRequest)
			return
		}
	}

	summary, err := handler.analyzer.MonthlySummary(ctx, userID, year, time.Month(month))
	if err != nil {
		log.Errorf("monthly summary for %s: %s", userID, err)
		http.Error(w, "failed to get monthly summary", http.StatusBadRequest)
		return
	}

	handler.writeJSON(w, summary)
}

func (handler *Handler) handleMuscleGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.muscles")
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

	shares, err := handler.analyzer.MuscleGroupShares(ctx, userID, fromDate, toDate)
	if err != nil {
		log.Errorf("muscle group shares for %s: %s", userID, err)
		http.Error(w, "failed to get muscle group stats", http.StatusBadRequest)
		return
	}

	handler.writeJSON(w, shares)
}

func (handler *Handler) handleRemaining(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.remaining")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	remaining, err := handler.analyzer.Remaining(ctx, userID)
	if err != nil {
		if errors.Is(err, routine.ErrNoActiveRoutine) {
			http.Error(w, "no active routine", http.StatusNotFound)
			return
		}
		log.Errorf("remaining days for %s: %s", userID, err)
		http.Error(w, "failed to get remaining days", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, remaining)
}

func (handler *Handler) writeJSON(w http.ResponseWriter, payload any) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("progress handler, marshal response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, payloadJson, http.StatusOK)
}
