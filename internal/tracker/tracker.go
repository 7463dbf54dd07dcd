package tracker

import (
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/studyflow/internal/domain"
	"github.com/roach88/studyflow/internal/logger"
)

// maxIDAttempts bounds the retries when a generator returns an id already seen.
const maxIDAttempts = 16

// Tracker is the domain store for subjects, assignments and study sessions.
//
// INVARIANTS:
//   - ids are unique within their collection and never reused for the tracker's lifetime
//   - StudiedHours >= 0 and TargetHours > 0 on every subject it creates
//   - removing a subject removes exactly the sessions carrying its id
type Tracker struct {
	mu          sync.RWMutex
	subjects    []domain.Subject
	assignments []domain.Assignment
	sessions    []domain.StudySession
	used        map[string]struct{}

	subsMu  sync.Mutex
	subs    map[int]Subscriber
	nextSub int

	clock   Clock
	ids     IDGenerator
	palette []string
	rnd     *rand.Rand
	loc     *time.Location
	log     *logger.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source. Default: SystemClock.
func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithIDGenerator sets the id source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(t *Tracker) { t.ids = g }
}

// WithPalette replaces the subject color palette. An empty palette is ignored.
func WithPalette(colors []string) Option {
	return func(t *Tracker) {
		if len(colors) > 0 {
			t.palette = append([]string(nil), colors...)
		}
	}
}

// WithRand sets the random source used for color selection.
func WithRand(r *rand.Rand) Option {
	return func(t *Tracker) { t.rnd = r }
}

// WithLocation sets the location used to interpret deadlines without a zone.
// Default: time.Local.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

// WithLogger sets the logger. Default: logger.Nop().
func WithLogger(l *logger.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// New creates a Tracker seeded with the collections in initial.
// initial is deep-copied; later changes to it do not affect the tracker.
func New(initial domain.Snapshot, opts ...Option) *Tracker {
	snap := initial.Clone()
	t := &Tracker{
		subjects:    snap.Subjects,
		assignments: snap.Assignments,
		sessions:    snap.Sessions,
		used:        make(map[string]struct{}),
		subs:        make(map[int]Subscriber),
		clock:       SystemClock{},
		ids:         UUIDv7Generator{},
		palette:     domain.Palette,
		loc:         time.Local,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	for _, s := range t.subjects {
		t.used[s.ID] = struct{}{}
	}
	for _, a := range t.assignments {
		t.used[a.ID] = struct{}{}
	}
	for _, s := range t.sessions {
		t.used[s.ID] = struct{}{}
	}
	return t
}

// Snapshot returns a deep copy of the current collections.
func (t *Tracker) Snapshot() domain.Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return domain.Snapshot{
		Subjects:    t.subjects,
		Assignments: t.assignments,
		Sessions:    t.sessions,
	}.Clone()
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

// Subscribe registers fn for Change notifications and returns a function that
// removes the subscription. Subscribers run in registration order.
func (t *Tracker) Subscribe(fn Subscriber) (unsubscribe func()) {
	t.subsMu.Lock()
	defer t.subsMu.Unlock()

	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			t.subsMu.Lock()
			defer t.subsMu.Unlock()
			delete(t.subs, id)
		})
	}
}

// AddSubject creates a subject with a random palette color, zero studied hours
// and the default target. Names that are empty after trimming are ignored.
func (t *Tracker) AddSubject(name string) (domain.Subject, bool) {
	if strings.TrimSpace(name) == "" {
		t.log.Debug("add subject skipped", "reason", "empty name")
		return domain.Subject{}, false
	}

	t.mu.Lock()
	subj := domain.Subject{
		ID:           t.newID(),
		Name:         norm.NFC.String(name),
		Color:        t.pickColor(),
		StudiedHours: 0,
		TargetHours:  domain.DefaultTargetHours,
	}
	t.subjects = append(t.subjects, subj)
	t.mu.Unlock()

	t.emit(Change{Op: OpAddSubject, ID: subj.ID, Collections: Subjects})
	return subj, true
}

// RemoveSubject deletes the subject and every session logged against it.
func (t *Tracker) RemoveSubject(id string) bool {
	t.mu.Lock()
	idx := t.subjectIndex(id)
	if idx < 0 {
		t.mu.Unlock()
		t.log.Debug("remove subject skipped", "reason", "not found", "id", id)
		return false
	}
	t.subjects = slices.Delete(t.subjects, idx, idx+1)
	t.sessions = slices.DeleteFunc(t.sessions, func(s domain.StudySession) bool {
		return s.SubjectID == id
	})
	t.mu.Unlock()

	t.emit(Change{Op: OpRemoveSubject, ID: id, Collections: Subjects | Sessions})
	return true
}

// LogStudyTime adds hours to the subject, stamps LastStudied and records a
// session carrying the subject's current name.
// Unknown ids and non-positive, NaN or infinite hours are ignored.
func (t *Tracker) LogStudyTime(subjectID string, hours float64) (domain.StudySession, bool) {
	if !(hours > 0) || math.IsInf(hours, 1) {
		t.log.Debug("log study time skipped", "reason", "invalid hours", "hours", hours)
		return domain.StudySession{}, false
	}

	t.mu.Lock()
	idx := t.subjectIndex(subjectID)
	if idx < 0 {
		t.mu.Unlock()
		t.log.Debug("log study time skipped", "reason", "not found", "id", subjectID)
		return domain.StudySession{}, false
	}

	now := t.clock.Now()
	subj := &t.subjects[idx]
	subj.StudiedHours += hours
	stamp := now
	subj.LastStudied = &stamp

	session := domain.StudySession{
		ID:          t.newID(),
		SubjectID:   subjectID,
		SubjectName: subj.Name,
		Duration:    hours,
		Date:        now,
	}
	t.sessions = append(t.sessions, session)
	t.mu.Unlock()

	t.emit(Change{Op: OpLogStudyTime, ID: subjectID, Collections: Subjects | Sessions})
	return session, true
}

// AddAssignment creates an incomplete assignment.
// Title, subject and deadline must all be non-empty and the deadline must
// parse (see domain.ParseDeadline). An invalid priority falls back to Medium.
func (t *Tracker) AddAssignment(title, subject, deadline string, priority domain.Priority) (domain.Assignment, bool) {
	if title == "" || subject == "" || deadline == "" {
		t.log.Debug("add assignment skipped", "reason", "missing field")
		return domain.Assignment{}, false
	}
	due, err := domain.ParseDeadline(deadline, t.loc)
	if err != nil {
		t.log.Debug("add assignment skipped", "reason", "bad deadline", "error", err)
		return domain.Assignment{}, false
	}
	if !priority.Valid() {
		priority = domain.DefaultPriority
	}

	t.mu.Lock()
	a := domain.Assignment{
		ID:        t.newID(),
		Title:     norm.NFC.String(title),
		Subject:   norm.NFC.String(subject),
		Deadline:  due,
		Priority:  priority,
		Completed: false,
	}
	t.assignments = append(t.assignments, a)
	t.mu.Unlock()

	t.emit(Change{Op: OpAddAssignment, ID: a.ID, Collections: Assignments})
	return a, true
}

// ToggleAssignmentCompletion flips Completed on the assignment.
func (t *Tracker) ToggleAssignmentCompletion(id string) bool {
	t.mu.Lock()
	idx := t.assignmentIndex(id)
	if idx < 0 {
		t.mu.Unlock()
		t.log.Debug("toggle assignment skipped", "reason", "not found", "id", id)
		return false
	}
	t.assignments[idx].Completed = !t.assignments[idx].Completed
	t.mu.Unlock()

	t.emit(Change{Op: OpToggleAssignment, ID: id, Collections: Assignments})
	return true
}

// RemoveAssignment deletes the assignment.
func (t *Tracker) RemoveAssignment(id string) bool {
	t.mu.Lock()
	idx := t.assignmentIndex(id)
	if idx < 0 {
		t.mu.Unlock()
		t.log.Debug("remove assignment skipped", "reason", "not found", "id", id)
		return false
	}
	t.assignments = slices.Delete(t.assignments, idx, idx+1)
	t.mu.Unlock()

	t.emit(Change{Op: OpRemoveAssignment, ID: id, Collections: Assignments})
	return true
}

// newID returns an id not seen before by this tracker. Caller holds t.mu.
func (t *Tracker) newID() string {
	for i := 0; i < maxIDAttempts; i++ {
		id := t.ids.Generate()
		if _, seen := t.used[id]; !seen {
			t.used[id] = struct{}{}
			return id
		}
	}
	panic("tracker: id generator keeps returning ids already in use")
}

// pickColor chooses uniformly from the palette. Caller holds t.mu.
func (t *Tracker) pickColor() string {
	if t.rnd != nil {
		return t.palette[t.rnd.IntN(len(t.palette))]
	}
	return t.palette[rand.IntN(len(t.palette))]
}

func (t *Tracker) subjectIndex(id string) int {
	for i := range t.subjects {
		if t.subjects[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) assignmentIndex(id string) int {
	for i := range t.assignments {
		if t.assignments[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) emit(c Change) {
	t.subsMu.Lock()
	keys := make([]int, 0, len(t.subs))
	for k := range t.subs {
		keys = append(keys, k)
	}
	t.subsMu.Unlock()

	// Registration order; ids only grow.
	slices.Sort(keys)
	for _, k := range keys {
		t.subsMu.Lock()
		fn, ok := t.subs[k]
		t.subsMu.Unlock()
		if ok {
			fn(c)
		}
	}
}
