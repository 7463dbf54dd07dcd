package analytics

import (
	"math"
	"time"

	"github.com/roach88/studyflow/internal/domain"
)

// DefaultRecentSessions is how many sessions the history view shows.
const DefaultRecentSessions = 10

// SubjectStats is the per-subject row of the dashboard.
type SubjectStats struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Color           string     `json:"color"`
	StudiedHours    float64    `json:"studiedHours"`
	TargetHours     float64    `json:"targetHours"`
	Progress        float64    `json:"progress"`
	BoundedProgress float64    `json:"boundedProgress"`
	RemainingHours  float64    `json:"remainingHours"`
	TargetAchieved  bool       `json:"targetAchieved"`
	LastStudied     *time.Time `json:"lastStudied,omitempty"`
}

// Summary aggregates the dashboard metrics for one snapshot at one instant.
type Summary struct {
	TotalHours        float64             `json:"totalHours"`
	WeeklyHours       float64             `json:"weeklyHours"`
	CompletionRate    float64             `json:"completionRate"`
	PendingCount      int                 `json:"pendingCount"`
	CompletedCount    int                 `json:"completedCount"`
	Subjects          []SubjectStats      `json:"subjects"`
	UpcomingDeadlines []domain.Assignment `json:"upcomingDeadlines"`
}

// SubjectProgress builds the dashboard row for one subject.
func SubjectProgress(s domain.Subject) SubjectStats {
	progress := s.Progress()
	row := SubjectStats{
		ID:              s.ID,
		Name:            s.Name,
		Color:           s.Color,
		StudiedHours:    s.StudiedHours,
		TargetHours:     s.TargetHours,
		Progress:        progress,
		BoundedProgress: BoundedProgress(s),
		RemainingHours:  math.Max(0, s.TargetHours-s.StudiedHours),
		TargetAchieved:  progress >= 100,
	}
	if s.LastStudied != nil {
		t := *s.LastStudied
		row.LastStudied = &t
	}
	return row
}

// Summarize computes every dashboard metric for snap at now.
func Summarize(snap domain.Snapshot, now time.Time) Summary {
	sum := Summary{
		TotalHours:        TotalStudyHours(snap),
		WeeklyHours:       WeeklyStudyHours(snap, now),
		CompletionRate:    CompletionRate(snap),
		PendingCount:      len(Pending(snap)),
		CompletedCount:    len(Completed(snap)),
		Subjects:          make([]SubjectStats, 0, len(snap.Subjects)),
		UpcomingDeadlines: UpcomingDeadlines(snap, now, DefaultUpcomingLimit),
	}
	for _, s := range snap.Subjects {
		sum.Subjects = append(sum.Subjects, SubjectProgress(s))
	}
	if sum.UpcomingDeadlines == nil {
		sum.UpcomingDeadlines = []domain.Assignment{}
	}
	return sum
}

// RecentSessions returns the last n sessions, newest first.
// n <= 0 returns every session.
func RecentSessions(snap domain.Snapshot, n int) []domain.StudySession {
	start := 0
	if n > 0 && len(snap.Sessions) > n {
		start = len(snap.Sessions) - n
	}
	out := make([]domain.StudySession, 0, len(snap.Sessions)-start)
	for i := len(snap.Sessions) - 1; i >= start; i-- {
		out = append(out, snap.Sessions[i])
	}
	return out
}
