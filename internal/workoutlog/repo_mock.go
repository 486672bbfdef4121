package workoutlog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type logKey struct {
	userID    uuid.UUID
	routineID uuid.UUID
	workoutID uuid.UUID
	date      string
}

// RepoMock is an in-memory logsRepo for tests.
type RepoMock struct {
	mu   sync.Mutex
	Logs map[logKey]*WorkoutLog
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		Logs: make(map[logKey]*WorkoutLog),
	}
}

func (r *RepoMock) Upsert(_ context.Context, l *WorkoutLog) (*WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	now := time.Now()
	key := logKey{l.UserID, l.RoutineID, l.WorkoutID, l.Date}
	if existing, ok := r.Logs[key]; ok {
		l.ID = existing.ID
		l.CreatedAt = existing.CreatedAt
	} else {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
	stored := *l
	r.Logs[key] = &stored
	return l, nil
}

func (r *RepoMock) Get(_ context.Context, userID, routineID, workoutID uuid.UUID, logDate string) (*WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.Logs[logKey{userID, routineID, workoutID, logDate}]
	if !ok {
		return nil, ErrLogNotFound
	}
	logCopy := *l
	return &logCopy, nil
}

func (r *RepoMock) ListForDate(_ context.Context, userID uuid.UUID, logDate string) ([]WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	logs := make([]WorkoutLog, 0)
	for key, l := range r.Logs {
		if key.userID == userID && key.date == logDate {
			logs = append(logs, *l)
		}
	}
	return logs, nil
}

func (r *RepoMock) ListInRange(_ context.Context, userID uuid.UUID, fromDate, toDate string) ([]WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	logs := make([]WorkoutLog, 0)
	for key, l := range r.Logs {
		if key.userID == userID && key.date >= fromDate && key.date <= toDate {
			logs = append(logs, *l)
		}
	}
	return logs, nil
}

func (r *RepoMock) DeleteForRoutine(_ context.Context, userID, routineID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.Logs {
		if key.userID == userID && key.routineID == routineID {
			delete(r.Logs, key)
		}
	}
	return nil
}
