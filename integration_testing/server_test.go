//go:build integration_test || all_tests

package integration_testing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/yunokim/fitplan/internal/gcal"
	"github.com/yunokim/fitplan/internal/routine"
	"github.com/yunokim/fitplan/internal/workoutlog"
	"github.com/yunokim/fitplan/pkg"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ServerFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	suite := newSuite(ctx)
	defer suite.cleanup()
	require.NotNil(t, suite.server)

	userID := uuid.New()

	// create a 2-day routine
	newRoutine := routine.Routine{
		Name: "push pull",
		Settings: routine.Settings{
			DurationWeeks:   8,
			WorkoutsPerWeek: 2,
			SplitType:       "push-pull",
		},
		Workouts: []routine.Workout{
			{
				DayNumber: 1,
				Name:      "Push",
				Exercises: []routine.Exercise{
					{Name: "Bench Press", Sets: 3, Reps: "8-10", MuscleGroup: routine.MuscleGroupChest},
					{Name: "Overhead Press", Sets: 3, Reps: "8-10", MuscleGroup: routine.MuscleGroupShoulders},
				},
			},
			{
				DayNumber: 2,
				Name:      "Pull",
				Exercises: []routine.Exercise{
					{Name: "Barbell Row", Sets: 3, Reps: "8-10", MuscleGroup: routine.MuscleGroupBack},
				},
			},
		},
	}

	var created routine.RoutineResponse
	doRequest(t, userID, "POST", "/routines", newRoutine, http.StatusCreated, &created)
	require.NotNil(t, created.Routine)
	require.NotEqual(t, uuid.Nil, created.Routine.ID)
	require.Len(t, created.Routine.Workouts, 2)

	// activate it: no calendar connected, so no events are pushed
	var activated routine.RoutineResponse
	doRequest(t, userID,
		"POST", fmt.Sprintf("/routines/%s/activate", created.Routine.ID),
		nil, http.StatusOK, &activated,
	)
	require.NotNil(t, activated.Routine)
	assert.True(t, activated.Routine.IsActive)
	require.NotNil(t, activated.Sync)
	assert.Equal(t, 0, activated.Sync.EventsCreated)

	var active routine.RoutineResponse
	doRequest(t, userID, "GET", "/routines/active", nil, http.StatusOK, &active)
	require.NotNil(t, active.Routine)
	assert.Equal(t, created.Routine.ID, active.Routine.ID)

	// tick off both push day exercises for today
	pushDay := created.Routine.Workouts[0]
	today := time.Now().Format("2006-01-02")

	var afterFirst workoutlog.ToggleResult
	doRequest(t, userID, "POST", "/logs/toggle", map[string]any{
		"routineId":  created.Routine.ID,
		"workoutId":  pushDay.ID,
		"exerciseId": pushDay.Exercises[0].ID,
		"date":       today,
	}, http.StatusOK, &afterFirst)
	require.NotNil(t, afterFirst.Log)
	assert.False(t, afterFirst.Log.IsCompleted)
	assert.False(t, afterFirst.CalendarSynced)

	var afterSecond workoutlog.ToggleResult
	doRequest(t, userID, "POST", "/logs/toggle", map[string]any{
		"routineId":  created.Routine.ID,
		"workoutId":  pushDay.ID,
		"exerciseId": pushDay.Exercises[1].ID,
		"date":       today,
	}, http.StatusOK, &afterSecond)
	require.NotNil(t, afterSecond.Log)
	assert.True(t, afterSecond.Log.IsCompleted)

	// today fully done -> streak of 1
	var streak struct {
		Streak int `json:"streak"`
	}
	doRequest(t, userID, "GET", "/logs/streak", nil, http.StatusOK, &streak)
	assert.Equal(t, 1, streak.Streak)

	// calendar status for a user that never connected
	var status gcal.StatusResponse
	doRequest(t, userID, "GET", "/calendar/status", nil, http.StatusOK, &status)
	assert.False(t, status.Connected)
	assert.Equal(t, gcal.SyncStatusIdle, status.SyncStatus)
}

func doRequest(
	t *testing.T,
	userID uuid.UUID,
	method, path string,
	body any,
	expectedStatus int,
	target any,
) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set(pkg.UserIDHeader, userID.String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, resp.StatusCode, "unexpected status, body: %s", respBytes)

	if target != nil {
		require.NoError(t, json.Unmarshal(respBytes, target))
	}
}
