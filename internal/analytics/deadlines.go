package analytics

import (
	"math"
	"slices"
	"time"

	"github.com/roach88/studyflow/internal/domain"
)

// UrgentDays is the horizon, in days, within which a deadline counts as urgent.
const UrgentDays = 3

// DefaultUpcomingLimit is how many upcoming deadlines the dashboard lists.
const DefaultUpcomingLimit = 5

// DeadlineStatus classifies a pending assignment relative to now.
type DeadlineStatus string

const (
	StatusOverdue   DeadlineStatus = "overdue"
	StatusUrgent    DeadlineStatus = "urgent"
	StatusScheduled DeadlineStatus = "scheduled"
)

// DaysUntilDeadline returns ceil((deadline - now) / 24h).
// A deadline later today yields 1, one earlier today yields 0.
func DaysUntilDeadline(a domain.Assignment, now time.Time) int {
	days := a.Deadline.Sub(now).Hours() / 24
	return int(math.Ceil(days))
}

// Status classifies an assignment by DaysUntilDeadline: negative is overdue,
// 0 through UrgentDays is urgent, anything later is scheduled.
func Status(a domain.Assignment, now time.Time) DeadlineStatus {
	days := DaysUntilDeadline(a, now)
	switch {
	case days < 0:
		return StatusOverdue
	case days <= UrgentDays:
		return StatusUrgent
	default:
		return StatusScheduled
	}
}

// UpcomingDeadlines returns incomplete assignments whose deadline is at or
// after now, soonest first, at most limit of them. limit <= 0 means no limit.
func UpcomingDeadlines(snap domain.Snapshot, now time.Time, limit int) []domain.Assignment {
	var out []domain.Assignment
	for _, a := range snap.Assignments {
		if !a.Completed && !a.Deadline.Before(now) {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(x, y domain.Assignment) int {
		return x.Deadline.Compare(y.Deadline)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Pending returns incomplete assignments in insertion order.
func Pending(snap domain.Snapshot) []domain.Assignment {
	return filterAssignments(snap, false)
}

// Completed returns completed assignments in insertion order.
func Completed(snap domain.Snapshot) []domain.Assignment {
	return filterAssignments(snap, true)
}

func filterAssignments(snap domain.Snapshot, completed bool) []domain.Assignment {
	var out []domain.Assignment
	for _, a := range snap.Assignments {
		if a.Completed == completed {
			out = append(out, a)
		}
	}
	return out
}
