package routine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yunokim/fitplan/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calendarSyncMock struct {
	syncCalls   int
	removeCalls int
	created     int
	errs        []string
	removeErr   error
}

func (c *calendarSyncMock) SyncRoutine(_ context.Context, _ *Routine) (int, []string) {
	c.syncCalls++
	return c.created, c.errs
}

func (c *calendarSyncMock) RemoveRoutineEvents(_ context.Context, _, _ uuid.UUID) error {
	c.removeCalls++
	return c.removeErr
}

type logsPurgerMock struct {
	purgedRoutines []uuid.UUID
	err            error
}

func (p *logsPurgerMock) DeleteForRoutine(_ context.Context, _, routineID uuid.UUID) error {
	if p.err != nil {
		return p.err
	}
	p.purgedRoutines = append(p.purgedRoutines, routineID)
	return nil
}

type routineHandlerTestSuite struct {
	repo    *RepoMock
	calSync *calendarSyncMock
	logs    *logsPurgerMock
	router  *mux.Router
	userID  uuid.UUID
}

func newRoutineHandlerTestSuite() *routineHandlerTestSuite {
	s := &routineHandlerTestSuite{
		repo:    NewRepoMock(),
		calSync: &calendarSyncMock{},
		logs:    &logsPurgerMock{},
		userID:  uuid.New(),
	}
	handler := NewHandler(s.repo, NewActiveRoutineCache(), s.calSync, s.logs)
	s.router = mux.NewRouter()
	handler.SetupRoutes(s.router)
	return s
}

func (s *routineHandlerTestSuite) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(bodyBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(pkg.UserIDHeader, s.userID.String())

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *routineHandlerTestSuite) addRoutine(t *testing.T, workoutNames ...string) *Routine {
	t.Helper()
	r := testRoutine(time.Now(), workoutNames...)
	r.UserID = s.userID
	added, err := s.repo.Add(context.Background(), r)
	require.NoError(t, err)
	return added
}

func TestHandler_AddRoutine(t *testing.T) {
	s := newRoutineHandlerTestSuite()

	newRoutine := testRoutine(time.Time{}, "Chest", "Back", "Legs")
	rr := s.request(t, "POST", "/routines", newRoutine)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp RoutineResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Routine)
	assert.NotEqual(t, uuid.Nil, resp.Routine.ID)
	assert.Equal(t, s.userID, resp.Routine.UserID)
	assert.Len(t, resp.Routine.Workouts, 3)

	// creating a routine does not touch the calendar
	assert.Zero(t, s.calSync.syncCalls)
}

func TestHandler_AddRoutine_Invalid(t *testing.T) {
	s := newRoutineHandlerTestSuite()

	invalid := testRoutine(time.Time{}, "Chest")
	invalid.Name = ""
	rr := s.request(t, "POST", "/routines", invalid)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_AddRoutine_NoUser(t *testing.T) {
	s := newRoutineHandlerTestSuite()

	req, err := http.NewRequest("POST", "/routines", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_GetRoutine(t *testing.T) {
	s := newRoutineHandlerTestSuite()
	added := s.addRoutine(t, "Push", "Pull")

	rr := s.request(t, "GET", fmt.Sprintf("/routines/%s", added.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got Routine
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, added.ID, got.ID)
	assert.Len(t, got.Workouts, 2)

	rr = s.request(t, "GET", fmt.Sprintf("/routines/%s", uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_ActivateRoutine_TriggersSync(t *testing.T) {
	s := newRoutineHandlerTestSuite()
	s.calSync.created = 12
	added := s.addRoutine(t, "Chest", "Back", "Legs")

	rr := s.request(t, "POST", fmt.Sprintf("/routines/%s/activate", added.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp RoutineResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Routine)
	assert.True(t, resp.Routine.IsActive)
	require.NotNil(t, resp.Sync)
	assert.True(t, resp.Sync.Attempted)
	assert.Equal(t, 12, resp.Sync.EventsCreated)
	assert.Equal(t, 1, s.calSync.syncCalls)
}

func TestHandler_ActivateRoutine_SyncFailureDoesNotFailActivation(t *testing.T) {
	s := newRoutineHandlerTestSuite()
	s.calSync.errs = []string{"calendar unreachable"}
	added := s.addRoutine(t, "Chest")

	rr := s.request(t, "POST", fmt.Sprintf("/routines/%s/activate", added.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp RoutineResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Routine)
	assert.True(t, resp.Routine.IsActive)
	require.NotNil(t, resp.Sync)
	assert.Equal(t, []string{"calendar unreachable"}, resp.Sync.Errors)

	// the activation stuck locally despite the sync failure
	active, err := s.repo.GetActive(context.Background(), s.userID)
	require.NoError(t, err)
	assert.Equal(t, added.ID, active.ID)
}

func TestHandler_DeactivateRoutine_RemovesCalendarEvents(t *testing.T) {
	s := newRoutineHandlerTestSuite()
	added := s.addRoutine(t, "Chest", "Back")
	require.NoError(t, s.repo.Activate(context.Background(), s.userID, added.ID))

	rr := s.request(t, "POST", fmt.Sprintf("/routines/%s/deactivate", added.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp RoutineResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Routine)
	assert.False(t, resp.Routine.IsActive)
	assert.Equal(t, 1, s.calSync.removeCalls)

	_, err := s.repo.GetActive(context.Background(), s.userID)
	assert.ErrorIs(t, err, ErrNoActiveRoutine)
}

func TestHandler_DeactivateRoutine_CalendarFailureDoesNotFailDeactivation(t *testing.T) {
	s := newRoutineHandlerTestSuite()
	s.calSync.removeErr = fmt.Errorf("calendar unreachable")
	added := s.addRoutine(t, "Chest")
	require.NoError(t, s.repo.Activate(context.Background(), s.userID, added.ID))

	rr := s.request(t, "POST", fmt.Sprintf("/routines/%s/deactivate", added.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	_, err := s.repo.GetActive(context.Background(), s.userID)
	assert.ErrorIs(t, err, ErrNoActiveRoutine)
}

func TestHandler_ActivateRoutine_DeactivatesOthers(t *testing.T) {
	s := newRoutineHandlerTestSuite()
	first := s.addRoutine(t, "Chest")
	second := s.addRoutine(t, "Back")

	rr := s.request(t, "POST", fmt.Sprintf("/routines/%s/activate", first.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = s.request(t, "POST", fmt.Sprintf("/routines/%s/activate", second.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	active, err := s.repo.GetActive(context.Background(), s.userID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.False(t, s.repo.Routines[first.ID].IsActive)
}

func TestHandler_GetActiveRoutine(t *testing.T) {
	s := newRoutineHandlerTestSuite()

	rr := s.request(t, "GET", "/routines/active", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	added := s.addRoutine(t, "Chest", "Back")
	require.NoError(t, s.repo.Activate(context.Background(), s.userID, added.ID))

	rr = s.request(t, "GET", "/routines/active", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got Routine
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, added.ID, got.ID)
	assert.True(t, got.IsActive)
}

func TestHandler_UpdateActiveRoutine_Resyncs(t *testing.T) {
	s := newRoutineHandlerTestSuite()
	added := s.addRoutine(t, "Chest", "Back")
	require.NoError(t, s.repo.Activate(context.Background(), s.userID, added.ID))

	update := *added
	update.Name = "renamed routine"
	rr := s.request(t, "PUT", fmt.Sprintf("/routines/%s", added.ID), update)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp RoutineResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "renamed routine", resp.Routine.Name)
	require.NotNil(t, resp.Sync)
	assert.Equal(t, 1, s.calSync.syncCalls)
}

func TestHandler_UpdateInactiveRoutine_NoSync(t *testing.T) {
	s := newRoutineHandlerTestSuite()
	added := s.addRoutine(t, "Chest", "Back")

	update := *added
	update.Name = "renamed routine"
	rr := s.request(t, "PUT", fmt.Sprintf("/routines/%s", added.ID), update)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp RoutineResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Nil(t, resp.Sync)
	assert.Zero(t, s.calSync.syncCalls)
}

func TestHandler_DeleteRoutine_RemovesCalendarEvents(t *testing.T) {
	s := newRoutineHandlerTestSuite()
	added := s.addRoutine(t, "Chest")

	rr := s.request(t, "DELETE", fmt.Sprintf("/routines/%s", added.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, s.calSync.removeCalls)

	_, err := s.repo.Get(context.Background(), s.userID, added.ID)
	assert.ErrorIs(t, err, ErrRoutineNotFound)
}

func TestHandler_DeleteRoutine_CalendarFailureDoesNotBlockDelete(t *testing.T) {
	s := newRoutineHandlerTestSuite()
	s.calSync.removeErr = fmt.Errorf("remote calendar gone")
	added := s.addRoutine(t, "Chest")

	rr := s.request(t, "DELETE", fmt.Sprintf("/routines/%s", added.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	_, err := s.repo.Get(context.Background(), s.userID, added.ID)
	assert.ErrorIs(t, err, ErrRoutineNotFound)
}

func TestHandler_DeleteRoutine_RemovesWorkoutLogs(t *testing.T) {
	s := newRoutineHandlerTestSuite()
	added := s.addRoutine(t, "Chest", "Back")

	rr := s.request(t, "DELETE", fmt.Sprintf("/routines/%s", added.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// deleting the routine is the one operation that hard-deletes logs
	require.Len(t, s.logs.purgedRoutines, 1)
	assert.Equal(t, added.ID, s.logs.purgedRoutines[0])
}

func TestHandler_DeleteRoutine_LogsCleanupFailureIsAnError(t *testing.T) {
	s := newRoutineHandlerTestSuite()
	s.logs.err = fmt.Errorf("db gone")
	added := s.addRoutine(t, "Chest")

	rr := s.request(t, "DELETE", fmt.Sprintf("/routines/%s", added.ID), nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_Schedule(t *testing.T) {
	s := newRoutineHandlerTestSuite()

	// monday
	r := testRoutine(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "Chest", "Back", "Legs")
	r.UserID = s.userID
	added, err := s.repo.Add(context.Background(), r)
	require.NoError(t, err)

	rr := s.request(t, "GET", fmt.Sprintf("/routines/%s/schedule?date=2024-01-04", added.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp ScheduleResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "2024-01-04", resp.Date)
	require.NotNil(t, resp.Workout)
	assert.Equal(t, "Chest", resp.Workout.Name)

	// saturday, rest day
	rr = s.request(t, "GET", fmt.Sprintf("/routines/%s/schedule?date=2024-01-06", added.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Nil(t, resp.Workout)

	rr = s.request(t, "GET", fmt.Sprintf("/routines/%s/schedule?date=bogus", added.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
