// Package analytics computes read-only metrics over a domain.Snapshot.
//
// Every function is pure: it reads the snapshot it is given, never mutates it,
// and returns fresh values. Functions that depend on the current time take it
// as an argument so results are reproducible.
package analytics

import (
	"math"
	"time"

	"github.com/roach88/studyflow/internal/domain"
)

// WeeklyWindow is the trailing window used by WeeklyStudyHours, in calendar days.
const WeeklyWindow = 7

// TotalStudyHours sums StudiedHours across all subjects.
func TotalStudyHours(snap domain.Snapshot) float64 {
	var total float64
	for _, s := range snap.Subjects {
		total += s.StudiedHours
	}
	return total
}

// WeeklyStudyHours sums the duration of sessions dated on or after now minus
// seven calendar days.
func WeeklyStudyHours(snap domain.Snapshot, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -WeeklyWindow)
	var total float64
	for _, s := range snap.Sessions {
		if !s.Date.Before(cutoff) {
			total += s.Duration
		}
	}
	return total
}

// CompletionRate returns the percentage (0-100) of completed assignments,
// or 0 when there are none.
func CompletionRate(snap domain.Snapshot) float64 {
	if len(snap.Assignments) == 0 {
		return 0
	}
	done := 0
	for _, a := range snap.Assignments {
		if a.Completed {
			done++
		}
	}
	return float64(done) / float64(len(snap.Assignments)) * 100
}

// Progress is the raw, unclamped progress percentage of a subject.
func Progress(s domain.Subject) float64 {
	return s.Progress()
}

// BoundedProgress is Progress clamped to [0, 100], for sizing progress bars.
func BoundedProgress(s domain.Subject) float64 {
	return math.Max(0, math.Min(s.Progress(), 100))
}
