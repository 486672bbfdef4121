package gcal

import (
	"fmt"
	"strings"
	"time"

	"github.com/yunokim/fitplan/internal/routine"
)

const (
	// CompletionMarker is prepended to a calendar event title when the
	// mapped workout reaches full completion, and stripped again when
	// completion is reverted.
	CompletionMarker = "✅ "

	// CompletedColorID is the Google Calendar color for completed
	// events ("basil" green). Incomplete events carry no color id and
	// fall back to the calendar default.
	CompletedColorID = "10"

	defaultStartTime = "09:00"
	defaultTimeZone  = "Asia/Seoul"
)

// Event is the payload pushed to the remote calendar, produced by
// WorkoutToEvent and checked by Validate before any network call.
type Event struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	TimeZone    string    `json:"timeZone"`
	ColorID     string    `json:"colorId,omitempty"`
}

type TransformOptions struct {
	// StartTime is the local wall-clock start, "HH:MM". Empty means 09:00.
	StartTime string
	// TimeZone is an IANA zone name. Empty means Asia/Seoul.
	TimeZone string
	// DurationMinutes overrides the duration heuristic when positive.
	DurationMinutes int
}

// WorkoutToEvent builds the calendar event for a workout occurrence on
// the given date. Pure: no I/O, no clock reads.
//
// Duration falls back to a heuristic when not overridden: 5 minutes
// per exercise plus 10 minutes of warmup, never under 30 minutes.
func WorkoutToEvent(workout *routine.Workout, routineName string, date time.Time, opts TransformOptions) (*Event, error) {
	if workout == nil {
		return nil, fmt.Errorf("workout is nil")
	}

	startTime := opts.StartTime
	if startTime == "" {
		startTime = defaultStartTime
	}
	timeZone := opts.TimeZone
	if timeZone == "" {
		timeZone = defaultTimeZone
	}

	location, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", timeZone, err)
	}

	var hour, minute int
	if _, err := fmt.Sscanf(startTime, "%d:%d", &hour, &minute); err != nil {
		return nil, fmt.Errorf("invalid start time %q, want HH:MM: %w", startTime, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid start time %q", startTime)
	}

	duration := opts.DurationMinutes
	if duration <= 0 {
		duration = EstimateDurationMinutes(len(workout.Exercises))
	}

	// time.Date normalizes overflow, a late start plus a long workout
	// rolls the end over into the next day
	start := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, location)
	end := start.Add(time.Duration(duration) * time.Minute)

	return &Event{
		Title:       fmt.Sprintf("🏋️ %s (%s)", workout.Name, routineName),
		Description: eventDescription(workout, routineName, duration),
		Start:       start,
		End:         end,
		TimeZone:    timeZone,
	}, nil
}

// EstimateDurationMinutes is the workout duration heuristic:
// max(exerciseCount*5 + 10, 30) minutes.
func EstimateDurationMinutes(exerciseCount int) int {
	estimate := exerciseCount*5 + 10
	if estimate < 30 {
		return 30
	}
	return estimate
}

func eventDescription(workout *routine.Workout, routineName string, durationMinutes int) string {
	var b strings.Builder
	for i, e := range workout.Exercises {
		fmt.Fprintf(&b, "%d. %s - %d세트 x %s\n", i+1, e.Name, e.Sets, e.Reps)
	}
	fmt.Fprintf(&b, "\n예상 소요 시간: %d분\n", durationMinutes)
	fmt.Fprintf(&b, "루틴: %s", routineName)
	return b.String()
}

// Validate checks structural completeness of the event before it is
// sent to the remote calendar. A contract check, not a business rule.
func (e *Event) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("event title empty")
	}
	if e.Description == "" {
		return fmt.Errorf("event description empty")
	}
	if e.TimeZone == "" {
		return fmt.Errorf("event time zone empty")
	}
	if e.Start.IsZero() || e.End.IsZero() {
		return fmt.Errorf("event start/end missing")
	}
	if !e.End.After(e.Start) {
		return fmt.Errorf("event end %s not after start %s", e.End, e.Start)
	}
	return nil
}

// MarkTitleCompleted prepends the completion marker, once.
func MarkTitleCompleted(title string) string {
	if strings.HasPrefix(title, CompletionMarker) {
		return title
	}
	return CompletionMarker + title
}

// MarkTitleIncomplete strips the completion marker if present.
func MarkTitleIncomplete(title string) string {
	return strings.TrimPrefix(title, CompletionMarker)
}
