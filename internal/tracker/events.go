package tracker

import "strings"

// Collection is a bit set naming the collections touched by a mutation.
type Collection uint8

const (
	Subjects Collection = 1 << iota
	Assignments
	Sessions
)

// AllCollections names every collection.
const AllCollections = Subjects | Assignments | Sessions

// Has reports whether c includes other.
func (c Collection) Has(other Collection) bool {
	return c&other != 0
}

func (c Collection) String() string {
	var parts []string
	if c.Has(Subjects) {
		parts = append(parts, "subjects")
	}
	if c.Has(Assignments) {
		parts = append(parts, "assignments")
	}
	if c.Has(Sessions) {
		parts = append(parts, "sessions")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Op names the mutation that produced a Change.
type Op string

const (
	OpAddSubject       Op = "add_subject"
	OpRemoveSubject    Op = "remove_subject"
	OpLogStudyTime     Op = "log_study_time"
	OpAddAssignment    Op = "add_assignment"
	OpToggleAssignment Op = "toggle_assignment"
	OpRemoveAssignment Op = "remove_assignment"
)

// Change is emitted after every successful mutation.
type Change struct {
	Op          Op
	ID          string // id of the entity the operation targeted or created
	Collections Collection
}

// Subscriber receives Change notifications. It should re-read state through
// Tracker.Snapshot rather than retaining anything from before the change.
type Subscriber func(Change)
