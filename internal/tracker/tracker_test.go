package tracker

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/studyflow/internal/domain"
	"github.com/roach88/studyflow/internal/testutil"
)

func newTestTracker(t *testing.T) (*Tracker, *testutil.FixedClock) {
	t.Helper()
	clock := testutil.NewFixedClock(testutil.RefTime)
	tr := New(domain.Snapshot{},
		WithClock(clock),
		WithIDGenerator(NewSequenceGenerator("id")),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithLocation(time.UTC),
	)
	return tr, clock
}

func TestAddSubject_Defaults(t *testing.T) {
	tr, _ := newTestTracker(t)

	subj, ok := tr.AddSubject("DSA Practice")
	require.True(t, ok)

	assert.Equal(t, "id-1", subj.ID)
	assert.Equal(t, "DSA Practice", subj.Name)
	assert.Contains(t, domain.Palette, subj.Color)
	assert.Equal(t, 0.0, subj.StudiedHours)
	assert.Equal(t, 40.0, subj.TargetHours)
	assert.Nil(t, subj.LastStudied)

	snap := tr.Snapshot()
	require.Len(t, snap.Subjects, 1)
	assert.Equal(t, subj, snap.Subjects[0])
}

func TestAddSubject_BlankNamesIgnored(t *testing.T) {
	tr, _ := newTestTracker(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, ok := tr.AddSubject(name)
		assert.False(t, ok, "%q", name)
	}
	assert.Empty(t, tr.Snapshot().Subjects)
}

func TestAddSubject_OneEntryPerNameWithDistinctIDs(t *testing.T) {
	tr := New(domain.Snapshot{}) // production generator
	names := []string{"OS", "DBMS", "OS", "GATE Prep", " ", "Algorithms"}

	want := 0
	for _, n := range names {
		if _, ok := tr.AddSubject(n); ok {
			want++
		}
	}

	snap := tr.Snapshot()
	require.Len(t, snap.Subjects, want)
	seen := map[string]bool{}
	for _, s := range snap.Subjects {
		require.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestAddSubject_RandomColorFromCustomPalette(t *testing.T) {
	tr := New(domain.Snapshot{}, WithPalette([]string{"#000000"}))
	subj, ok := tr.AddSubject("Physics")
	require.True(t, ok)
	assert.Equal(t, "#000000", subj.Color)
}

func TestAddSubject_NormalizesToNFC(t *testing.T) {
	tr, _ := newTestTracker(t)
	subj, ok := tr.AddSubject("Cafe\u0301")
	require.True(t, ok)
	assert.Equal(t, "Caf\u00e9", subj.Name)
}

func TestLogStudyTime_Scenario(t *testing.T) {
	tr, clock := newTestTracker(t)
	subj, _ := tr.AddSubject("DSA Practice")

	_, ok := tr.LogStudyTime(subj.ID, 0.5)
	require.True(t, ok)

	second := clock.Advance(time.Hour)
	sess, ok := tr.LogStudyTime(subj.ID, 1)
	require.True(t, ok)

	snap := tr.Snapshot()
	got, _ := snap.SubjectByID(subj.ID)
	assert.InDelta(t, 1.5, got.StudiedHours, 1e-9)
	require.NotNil(t, got.LastStudied)
	assert.Equal(t, second, *got.LastStudied)

	require.Len(t, snap.Sessions, 2)
	assert.Equal(t, 0.5, snap.Sessions[0].Duration)
	assert.Equal(t, 1.0, snap.Sessions[1].Duration)
	for _, s := range snap.Sessions {
		assert.Equal(t, subj.ID, s.SubjectID)
		assert.Equal(t, "DSA Practice", s.SubjectName)
	}
	assert.Equal(t, second, sess.Date)
}

func TestLogStudyTime_AcceptsAnyPositive(t *testing.T) {
	tr, _ := newTestTracker(t)
	subj, _ := tr.AddSubject("Maths")

	for _, h := range []float64{0.25, 3.75, 12} {
		before, _ := tr.Snapshot().SubjectByID(subj.ID)
		_, ok := tr.LogStudyTime(subj.ID, h)
		require.True(t, ok)
		after, _ := tr.Snapshot().SubjectByID(subj.ID)
		assert.InDelta(t, before.StudiedHours+h, after.StudiedHours, 1e-9)
	}
	assert.Len(t, tr.Snapshot().Sessions, 3)
}

func TestLogStudyTime_InvalidHoursIgnored(t *testing.T) {
	tr, _ := newTestTracker(t)
	subj, _ := tr.AddSubject("Maths")

	for _, h := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, ok := tr.LogStudyTime(subj.ID, h)
		assert.False(t, ok, "%v", h)
	}

	snap := tr.Snapshot()
	assert.Equal(t, 0.0, snap.Subjects[0].StudiedHours)
	assert.Nil(t, snap.Subjects[0].LastStudied)
	assert.Empty(t, snap.Sessions)
}

func TestLogStudyTime_UnknownSubject(t *testing.T) {
	tr, _ := newTestTracker(t)
	_, ok := tr.LogStudyTime("missing", 1)
	assert.False(t, ok)
	assert.Empty(t, tr.Snapshot().Sessions)
}

func TestLogStudyTime_SessionKeepsNameSnapshot(t *testing.T) {
	initial := domain.Snapshot{
		Subjects: []domain.Subject{{ID: "s1", Name: "Old Name", TargetHours: 40}},
		Sessions: []domain.StudySession{{ID: "x1", SubjectID: "s1", SubjectName: "Older Name", Duration: 1}},
	}
	tr := New(initial, WithIDGenerator(NewSequenceGenerator("n")))

	sess, ok := tr.LogStudyTime("s1", 2)
	require.True(t, ok)
	assert.Equal(t, "Old Name", sess.SubjectName)
	assert.Equal(t, "Older Name", tr.Snapshot().Sessions[0].SubjectName)
}

func TestRemoveSubject_CascadesOnlyOwnSessions(t *testing.T) {
	tr, _ := newTestTracker(t)
	os, _ := tr.AddSubject("OS")
	db, _ := tr.AddSubject("DBMS")

	tr.LogStudyTime(os.ID, 1)
	tr.LogStudyTime(db.ID, 2)
	tr.LogStudyTime(os.ID, 0.5)

	require.True(t, tr.RemoveSubject(os.ID))

	snap := tr.Snapshot()
	require.Len(t, snap.Subjects, 1)
	assert.Equal(t, db.ID, snap.Subjects[0].ID)
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, db.ID, snap.Sessions[0].SubjectID)
}

func TestRemoveSubject_Missing(t *testing.T) {
	tr, _ := newTestTracker(t)
	subj, _ := tr.AddSubject("OS")
	tr.LogStudyTime(subj.ID, 1)

	assert.False(t, tr.RemoveSubject("missing"))

	snap := tr.Snapshot()
	assert.Len(t, snap.Subjects, 1)
	assert.Len(t, snap.Sessions, 1)
}

func TestAddAssignment(t *testing.T) {
	tr, _ := newTestTracker(t)

	a, ok := tr.AddAssignment("Lab Report", "OS", "2026-03-12", domain.PriorityHigh)
	require.True(t, ok)
	assert.Equal(t, "Lab Report", a.Title)
	assert.Equal(t, "OS", a.Subject)
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), a.Deadline)
	assert.Equal(t, domain.PriorityHigh, a.Priority)
	assert.False(t, a.Completed)

	assert.Len(t, tr.Snapshot().Assignments, 1)
}

func TestAddAssignment_RequiredFields(t *testing.T) {
	tr, _ := newTestTracker(t)

	cases := [][3]string{
		{"", "OS", "2026-03-12"},
		{"Lab", "", "2026-03-12"},
		{"Lab", "OS", ""},
		{"Lab", "OS", "next friday"},
	}
	for _, c := range cases {
		_, ok := tr.AddAssignment(c[0], c[1], c[2], domain.PriorityLow)
		assert.False(t, ok, "%v", c)
	}
	assert.Empty(t, tr.Snapshot().Assignments)
}

func TestAddAssignment_InvalidPriorityDefaultsToMedium(t *testing.T) {
	tr, _ := newTestTracker(t)
	a, ok := tr.AddAssignment("Essay", "English", "2026-04-01", domain.Priority("whenever"))
	require.True(t, ok)
	assert.Equal(t, domain.PriorityMedium, a.Priority)
}

func TestToggleAssignmentCompletion_TwiceRestores(t *testing.T) {
	tr, _ := newTestTracker(t)
	a, _ := tr.AddAssignment("Essay", "English", "2026-04-01", domain.PriorityLow)

	require.True(t, tr.ToggleAssignmentCompletion(a.ID))
	got, _ := tr.Snapshot().AssignmentByID(a.ID)
	assert.True(t, got.Completed)

	require.True(t, tr.ToggleAssignmentCompletion(a.ID))
	got, _ = tr.Snapshot().AssignmentByID(a.ID)
	assert.False(t, got.Completed)

	assert.False(t, tr.ToggleAssignmentCompletion("missing"))
}

func TestRemoveAssignment(t *testing.T) {
	tr, _ := newTestTracker(t)
	a1, _ := tr.AddAssignment("One", "X", "2026-04-01", domain.PriorityLow)
	a2, _ := tr.AddAssignment("Two", "X", "2026-04-02", domain.PriorityLow)

	assert.False(t, tr.RemoveAssignment("missing"))
	require.True(t, tr.RemoveAssignment(a1.ID))

	snap := tr.Snapshot()
	require.Len(t, snap.Assignments, 1)
	assert.Equal(t, a2.ID, snap.Assignments[0].ID)
}

func TestIDs_NeverReused(t *testing.T) {
	initial := domain.Snapshot{Subjects: []domain.Subject{{ID: "dup", Name: "Seed", TargetHours: 40}}}
	tr := New(initial, WithIDGenerator(NewFixedGenerator("dup", "fresh-1", "fresh-1", "fresh-2")))

	s1, ok := tr.AddSubject("A")
	require.True(t, ok)
	assert.Equal(t, "fresh-1", s1.ID)

	require.True(t, tr.RemoveSubject(s1.ID))

	s2, ok := tr.AddSubject("B")
	require.True(t, ok)
	assert.Equal(t, "fresh-2", s2.ID, "an id freed by deletion must not be handed out again")
}

func TestIDs_DistinctUnderRapidCreation(t *testing.T) {
	tr := New(domain.Snapshot{})
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		s, ok := tr.AddSubject(fmt.Sprintf("subject %d", i))
		require.True(t, ok)
		require.False(t, seen[s.ID])
		seen[s.ID] = true
	}
}

func TestSnapshot_IsIsolated(t *testing.T) {
	tr, _ := newTestTracker(t)
	subj, _ := tr.AddSubject("OS")
	tr.LogStudyTime(subj.ID, 1)

	snap := tr.Snapshot()
	snap.Subjects[0].StudiedHours = 99
	*snap.Subjects[0].LastStudied = time.Time{}
	snap.Sessions[0].Duration = 99

	fresh := tr.Snapshot()
	assert.Equal(t, 1.0, fresh.Subjects[0].StudiedHours)
	assert.Equal(t, testutil.RefTime, *fresh.Subjects[0].LastStudied)
	assert.Equal(t, 1.0, fresh.Sessions[0].Duration)
}

func TestNew_CopiesInitial(t *testing.T) {
	initial := domain.Snapshot{Subjects: []domain.Subject{{ID: "s1", Name: "OS", TargetHours: 40}}}
	tr := New(initial)
	initial.Subjects[0].Name = "mutated"
	assert.Equal(t, "OS", tr.Snapshot().Subjects[0].Name)
}
