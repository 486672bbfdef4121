package routine

import "time"

const DateLayout = "2006-01-02"

// WorkoutForDate resolves which workout (if any) of the routine falls
// on the given calendar date. Pure and deterministic: no I/O, same
// inputs always give the same result, so the UI, the completion log
// and the calendar sync can never disagree on what is due on a date.
//
// Saturdays and Sundays are always rest days and do NOT consume a
// cycle slot: the cycle index is computed over calendar days since the
// routine was created, so a fixed start weekday keeps the same workout
// landing on the same weekday. Do not "fix" this into a 7-day modulo.
func WorkoutForDate(r *Routine, date time.Time) *Workout {
	if r == nil || len(r.Workouts) == 0 {
		return nil
	}

	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return nil
	}

	daysSinceStart := daysBetween(r.CreatedAt, date)
	if daysSinceStart < 0 {
		return nil
	}

	workoutIndex := daysSinceStart % len(r.Workouts)
	return &r.Workouts[workoutIndex]
}

// daysBetween returns the number of whole calendar days from a to b,
// negative when b precedes a. Clock times and zones are ignored.
func daysBetween(a, b time.Time) int {
	aMidnight := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bMidnight := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bMidnight.Sub(aMidnight).Hours() / 24)
}

// ScheduleForRange resolves the workout assignment for every date in
// [from, to] inclusive. Used for calendar views and for pushing a
// bounded window of events to the remote calendar.
func ScheduleForRange(r *Routine, from, to time.Time) map[string]*Workout {
	schedule := make(map[string]*Workout)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if w := WorkoutForDate(r, d); w != nil {
			schedule[d.Format(DateLayout)] = w
		}
	}
	return schedule
}
