package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/studyflow/internal/domain"
	"github.com/roach88/studyflow/internal/tracker"
)

func TestWriter_SavesEachChange(t *testing.T) {
	kv := newMemKV()
	g := New(kv)
	tr := tracker.New(domain.Snapshot{})
	w := g.NewWriter(tr)
	defer w.Close()

	subj, ok := tr.AddSubject("Compilers")
	require.True(t, ok)
	assert.Equal(t, 1, kv.putCount(KeySubjects), "saved before AddSubject returns")

	_, ok = tr.LogStudyTime(subj.ID, 1)
	require.True(t, ok)
	assert.Equal(t, 2, kv.putCount(KeySubjects))
	assert.Equal(t, 1, kv.putCount(KeySessions))
	assert.Equal(t, 0, kv.putCount(KeyAssignments))
	assert.Equal(t, 2, w.Saves())

	snap, err := g.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Subjects, 1)
	assert.Equal(t, 1.0, snap.Subjects[0].StudiedHours)
	require.Len(t, snap.Sessions, 1)
}

func TestWriter_HoldCoalesces(t *testing.T) {
	kv := newMemKV()
	g := New(kv)
	tr := tracker.New(domain.Snapshot{})
	w := g.NewWriter(tr)
	defer w.Close()

	w.Hold()
	tr.AddSubject("A")
	tr.AddSubject("B")
	w.Hold()
	tr.AddAssignment("Essay", "A", "2026-03-12", domain.PriorityLow)
	require.NoError(t, w.Release(), "inner release")
	assert.Equal(t, 0, w.Saves(), "still held")

	tr.AddSubject("C")
	require.NoError(t, w.Release())

	assert.Equal(t, 1, w.Saves())
	assert.Equal(t, 1, kv.putCount(KeySubjects))
	assert.Equal(t, 1, kv.putCount(KeyAssignments))
	assert.Equal(t, 0, kv.putCount(KeySessions))

	snap, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Subjects, 3)
	assert.Len(t, snap.Assignments, 1)
}

func TestWriter_ReleaseWithoutChanges(t *testing.T) {
	kv := newMemKV()
	tr := tracker.New(domain.Snapshot{})
	w := New(kv).NewWriter(tr)
	defer w.Close()

	w.Hold()
	_, ok := tr.AddSubject("  ")
	require.False(t, ok)
	require.NoError(t, w.Release())
	require.NoError(t, w.Release(), "unbalanced release is harmless")
	assert.Equal(t, 0, w.Saves())
}

func TestWriter_CloseFlushesHeldChanges(t *testing.T) {
	kv := newMemKV()
	g := New(kv)
	tr := tracker.New(domain.Snapshot{})
	w := g.NewWriter(tr)

	w.Hold()
	tr.AddSubject("Networks")
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "second Close is a no-op")

	snap, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Subjects, 1)
}

func TestWriter_IgnoresChangesAfterClose(t *testing.T) {
	kv := newMemKV()
	tr := tracker.New(domain.Snapshot{})
	w := New(kv).NewWriter(tr)
	require.NoError(t, w.Close())

	tr.AddSubject("Late")
	assert.Equal(t, 0, kv.putCount(KeySubjects))
	assert.Equal(t, 0, w.Saves())
}

func TestWriter_ReportsLastError(t *testing.T) {
	kv := newMemKV()
	kv.putErr = errors.New("read-only filesystem")
	tr := tracker.New(domain.Snapshot{})
	w := New(kv).NewWriter(tr)

	_, ok := tr.AddSubject("Graphics")
	require.True(t, ok, "the mutation succeeds even when saving fails")

	err := w.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only filesystem")
}

func TestWriter_HeldReleaseReturnsSaveError(t *testing.T) {
	kv := newMemKV()
	kv.putErr = errors.New("disk full")
	tr := tracker.New(domain.Snapshot{})
	w := New(kv).NewWriter(tr)
	defer w.Close()

	w.Hold()
	tr.AddSubject("Graphics")
	err := w.Release()
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeySubjects)
}
