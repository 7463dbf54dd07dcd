package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/studyflow/internal/domain"
)

func TestSubscribe_ReceivesChangesForSuccessfulMutations(t *testing.T) {
	tr, _ := newTestTracker(t)

	var got []Change
	tr.Subscribe(func(c Change) { got = append(got, c) })

	subj, _ := tr.AddSubject("OS")
	tr.AddSubject("  ") // no-op
	tr.LogStudyTime(subj.ID, 1)
	tr.LogStudyTime("missing", 1) // no-op
	a, _ := tr.AddAssignment("Lab", "OS", "2026-03-12", domain.PriorityHigh)
	tr.ToggleAssignmentCompletion(a.ID)
	tr.RemoveAssignment(a.ID)
	tr.RemoveAssignment(a.ID) // no-op
	tr.RemoveSubject(subj.ID)

	want := []Change{
		{Op: OpAddSubject, ID: subj.ID, Collections: Subjects},
		{Op: OpLogStudyTime, ID: subj.ID, Collections: Subjects | Sessions},
		{Op: OpAddAssignment, ID: a.ID, Collections: Assignments},
		{Op: OpToggleAssignment, ID: a.ID, Collections: Assignments},
		{Op: OpRemoveAssignment, ID: a.ID, Collections: Assignments},
		{Op: OpRemoveSubject, ID: subj.ID, Collections: Subjects | Sessions},
	}
	require.Equal(t, want, got)
}

func TestSubscribe_SubscriberSeesPostMutationState(t *testing.T) {
	tr, _ := newTestTracker(t)

	var lengths []int
	tr.Subscribe(func(Change) { lengths = append(lengths, len(tr.Snapshot().Subjects)) })

	tr.AddSubject("A")
	tr.AddSubject("B")
	assert.Equal(t, []int{1, 2}, lengths)
}

func TestSubscribe_RegistrationOrderAndUnsubscribe(t *testing.T) {
	tr, _ := newTestTracker(t)

	var order []string
	unsubA := tr.Subscribe(func(Change) { order = append(order, "a") })
	tr.Subscribe(func(Change) { order = append(order, "b") })

	tr.AddSubject("X")
	unsubA()
	unsubA() // idempotent
	tr.AddSubject("Y")

	assert.Equal(t, []string{"a", "b", "b"}, order)
}

func TestCollection_String(t *testing.T) {
	assert.Equal(t, "none", Collection(0).String())
	assert.Equal(t, "subjects|sessions", (Subjects | Sessions).String())
	assert.Equal(t, "subjects|assignments|sessions", AllCollections.String())
	assert.True(t, AllCollections.Has(Assignments))
	assert.False(t, Subjects.Has(Sessions))
}
