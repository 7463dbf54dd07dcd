package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/studyflow/internal/domain"
)

func TestDaysUntilDeadline(t *testing.T) {
	tests := []struct {
		name   string
		offset time.Duration
		want   int
	}{
		{"later today", 2 * time.Hour, 1},
		{"exactly one day", 24 * time.Hour, 1},
		{"just over one day", 25 * time.Hour, 2},
		{"exactly now", 0, 0},
		{"earlier today", -2 * time.Hour, 0},
		{"yesterday", -24 * time.Hour, -1},
		{"a day and a bit ago", -30 * time.Hour, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := domain.Assignment{Deadline: now.Add(tt.offset)}
			assert.Equal(t, tt.want, DaysUntilDeadline(a, now))
		})
	}
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusOverdue, Status(domain.Assignment{Deadline: now.Add(-25 * time.Hour)}, now))
	assert.Equal(t, StatusUrgent, Status(domain.Assignment{Deadline: now.Add(-time.Hour)}, now))
	assert.Equal(t, StatusUrgent, Status(domain.Assignment{Deadline: now.Add(72 * time.Hour)}, now))
	assert.Equal(t, StatusScheduled, Status(domain.Assignment{Deadline: now.Add(73 * time.Hour)}, now))
}

func TestUpcomingDeadlines(t *testing.T) {
	snap := domain.Snapshot{Assignments: []domain.Assignment{
		{ID: "past", Deadline: now.Add(-time.Minute)},
		{ID: "far", Deadline: now.AddDate(0, 1, 0)},
		{ID: "done", Deadline: now.Add(time.Hour), Completed: true},
		{ID: "soon", Deadline: now.Add(time.Hour)},
		{ID: "now", Deadline: now},
		{ID: "mid", Deadline: now.AddDate(0, 0, 5)},
	}}

	got := UpcomingDeadlines(snap, now, 0)
	assert.Equal(t, []string{"now", "soon", "mid", "far"}, ids(got))

	limited := UpcomingDeadlines(snap, now, 2)
	assert.Equal(t, []string{"now", "soon"}, ids(limited))

	assert.Empty(t, UpcomingDeadlines(domain.Snapshot{}, now, DefaultUpcomingLimit))
}

func TestPendingCompleted(t *testing.T) {
	snap := domain.Snapshot{Assignments: []domain.Assignment{
		{ID: "a"}, {ID: "b", Completed: true}, {ID: "c"}, {ID: "d", Completed: true},
	}}
	assert.Equal(t, []string{"a", "c"}, ids(Pending(snap)))
	assert.Equal(t, []string{"b", "d"}, ids(Completed(snap)))
}

func ids(as []domain.Assignment) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.ID)
	}
	return out
}
