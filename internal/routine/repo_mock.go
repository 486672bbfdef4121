package routine

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// RepoMock is an in-memory routinesRepo used in handler and service
// tests across packages. Not safe to share between test cases.
type RepoMock struct {
	mu       sync.Mutex
	Routines map[uuid.UUID]*Routine
}

func NewRepoMock() *RepoMock {
	return &RepoMock{
		Routines: make(map[uuid.UUID]*Routine),
	}
}

func (r *RepoMock) Add(_ context.Context, routine *Routine) (*Routine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if routine.ID == uuid.Nil {
		routine.ID = uuid.New()
	}
	for wi := range routine.Workouts {
		if routine.Workouts[wi].ID == uuid.Nil {
			routine.Workouts[wi].ID = uuid.New()
		}
		routine.Workouts[wi].RoutineID = routine.ID
	}
	r.Routines[routine.ID] = routine
	return routine, nil
}

func (r *RepoMock) Get(_ context.Context, userID, routineID uuid.UUID) (*Routine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	routine, ok := r.Routines[routineID]
	if !ok || routine.UserID != userID {
		return nil, ErrRoutineNotFound
	}
	return routine, nil
}

func (r *RepoMock) GetActive(_ context.Context, userID uuid.UUID) (*Routine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, routine := range r.Routines {
		if routine.UserID == userID && routine.IsActive {
			return routine, nil
		}
	}
	return nil, ErrNoActiveRoutine
}

func (r *RepoMock) List(_ context.Context, userID uuid.UUID) ([]Routine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var routines []Routine
	for _, routine := range r.Routines {
		if routine.UserID == userID {
			routines = append(routines, *routine)
		}
	}
	return routines, nil
}

func (r *RepoMock) Update(_ context.Context, routine *Routine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.Routines[routine.ID]
	if !ok || existing.UserID != routine.UserID {
		return ErrRoutineNotFound
	}
	existing.Name = routine.Name
	existing.Settings = routine.Settings
	return nil
}

func (r *RepoMock) Activate(_ context.Context, userID, routineID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.Routines[routineID]
	if !ok || target.UserID != userID {
		return ErrRoutineNotFound
	}
	for _, routine := range r.Routines {
		if routine.UserID == userID {
			routine.IsActive = false
		}
	}
	target.IsActive = true
	return nil
}

func (r *RepoMock) Deactivate(_ context.Context, userID, routineID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.Routines[routineID]
	if !ok || target.UserID != userID {
		return ErrRoutineNotFound
	}
	target.IsActive = false
	return nil
}

func (r *RepoMock) Delete(_ context.Context, userID, routineID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.Routines[routineID]
	if !ok || target.UserID != userID {
		return ErrRoutineNotFound
	}
	delete(r.Routines, routineID)
	return nil
}

func (r *RepoMock) GetWorkout(_ context.Context, workoutID uuid.UUID) (*Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, routine := range r.Routines {
		for wi := range routine.Workouts {
			if routine.Workouts[wi].ID == workoutID {
				return &routine.Workouts[wi], nil
			}
		}
	}
	return nil, ErrWorkoutNotFound
}
