package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yunokim/fitplan/internal/routine"
	"github.com/yunokim/fitplan/internal/telemetry/tracing"
	"github.com/yunokim/fitplan/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type activeRoutines interface {
	GetActive(ctx context.Context, userID uuid.UUID) (*routine.Routine, error)
}

type exchangeCodeRequest struct {
	Code string `json:"code"`
}

type authURLResponse struct {
	URL string `json:"url"`
}

type syncResponse struct {
	EventsCreated int      `json:"eventsCreated"`
	Errors        []string `json:"errors,omitempty"`
}

type Handler struct {
	engine   *SyncEngine
	routines activeRoutines
}

func NewHandler(engine *SyncEngine, routines activeRoutines) *Handler {
	return &Handler{
		engine:   engine,
		routines: routines,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/calendar/auth-url", handler.handleAuthURL).Methods("GET", "OPTIONS").Name("calendar-auth-url")
	router.HandleFunc("/calendar/exchange", handler.handleExchange).Methods("POST", "OPTIONS").Name("calendar-exchange")
	router.HandleFunc("/calendar/status", handler.handleStatus).Methods("GET", "OPTIONS").Name("calendar-status")
	router.HandleFunc("/calendar/disconnect", handler.handleDisconnect).Methods("POST", "OPTIONS").Name("calendar-disconnect")
	router.HandleFunc("/calendar/sync", handler.handleSync).Methods("POST", "OPTIONS").Name("calendar-sync")
}

func (handler *Handler) handleAuthURL(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.authURL")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	urlJson, err := json.Marshal(authURLResponse{URL: handler.engine.AuthURL(userID)})
	if err != nil {
		log.Errorf("failed to marshal auth url: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, urlJson, http.StatusOK)
}

func (handler *Handler) handleExchange(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.exchange")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	var req exchangeCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("calendar exchange, unmarshal json params: %s", err)
		http.Error(w, "exchange failed", http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		http.Error(w, "error, code is required", http.StatusBadRequest)
		return
	}

	conn, err := handler.engine.Connect(ctx, userID, req.Code)
	if err != nil {
		log.Errorf("calendar exchange for %s: %s", userID, err)
		http.Error(w, "error, failed to connect calendar", http.StatusInternalServerError)
		return
	}

	connJson, err := json.Marshal(conn)
	if err != nil {
		log.Errorf("failed to marshal connection: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	log.Debugf("calendar connected: user %s -> %s", userID, conn.AccountEmail)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, connJson, http.StatusCreated)
}

func (handler *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.status")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	status, err := handler.engine.Status(ctx, userID)
	if err != nil {
		log.Errorf("calendar status for %s: %s", userID, err)
		http.Error(w, "failed to get calendar status", http.StatusInternalServerError)
		return
	}

	statusJson, err := json.Marshal(status)
	if err != nil {
		log.Errorf("failed to marshal calendar status: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, statusJson, http.StatusOK)
}

func (handler *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.disconnect")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	if err := handler.engine.Disconnect(ctx, userID); err != nil {
		log.Errorf("calendar disconnect for %s: %s", userID, err)
		http.Error(w, "error, failed to disconnect calendar", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"disconnected":true}`)
}

func (handler *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.sync")
	defer span.End()

	userID, err := pkg.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, "no user", http.StatusUnauthorized)
		return
	}

	active, err := handler.routines.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, routine.ErrNoActiveRoutine) {
			http.Error(w, "no active routine to sync", http.StatusNotFound)
			return
		}
		log.Errorf("calendar sync, get active routine for %s: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	created, syncErrs := handler.engine.SyncRoutine(ctx, active)
	respJson, err := json.Marshal(syncResponse{
		EventsCreated: created,
		Errors:        syncErrs,
	})
	if err != nil {
		log.Errorf("failed to marshal sync response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
