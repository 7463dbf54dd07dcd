package domain

import "time"

// DefaultTargetHours is the target assigned to every new Subject.
const DefaultTargetHours = 40.0

// Subject is a tracked area of study.
type Subject struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Color        string     `json:"color"`
	StudiedHours float64    `json:"studiedHours"`
	TargetHours  float64    `json:"targetHours"`
	LastStudied  *time.Time `json:"lastStudied,omitempty"`
}

// Progress returns StudiedHours as a percentage of TargetHours.
// The value is not clamped and may exceed 100.
func (s Subject) Progress() float64 {
	if s.TargetHours <= 0 {
		return 0
	}
	return s.StudiedHours / s.TargetHours * 100
}

// Assignment is a deadline-bound task.
type Assignment struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"` // free-text label
	Deadline  time.Time `json:"deadline"`
	Priority  Priority  `json:"priority"`
	Completed bool      `json:"completed"`
}

// StudySession records time spent on a Subject. Sessions are immutable.
type StudySession struct {
	ID          string    `json:"id"`
	SubjectID   string    `json:"subjectId"`
	SubjectName string    `json:"subjectName"` // name at the time of logging
	Duration    float64   `json:"duration"`    // hours
	Date        time.Time `json:"date"`
}

// Snapshot is a point-in-time copy of the three collections.
// Slices keep insertion order.
type Snapshot struct {
	Subjects    []Subject      `json:"subjects"`
	Assignments []Assignment   `json:"assignments"`
	Sessions    []StudySession `json:"sessions"`
}

// Clone returns a deep copy that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Subjects:    make([]Subject, len(s.Subjects)),
		Assignments: make([]Assignment, len(s.Assignments)),
		Sessions:    make([]StudySession, len(s.Sessions)),
	}
	for i, subj := range s.Subjects {
		if subj.LastStudied != nil {
			t := *subj.LastStudied
			subj.LastStudied = &t
		}
		out.Subjects[i] = subj
	}
	copy(out.Assignments, s.Assignments)
	copy(out.Sessions, s.Sessions)
	return out
}

// SubjectByID returns the Subject with the given id.
func (s Snapshot) SubjectByID(id string) (Subject, bool) {
	for _, subj := range s.Subjects {
		if subj.ID == id {
			return subj, true
		}
	}
	return Subject{}, false
}

// AssignmentByID returns the Assignment with the given id.
func (s Snapshot) AssignmentByID(id string) (Assignment, bool) {
	for _, a := range s.Assignments {
		if a.ID == id {
			return a, true
		}
	}
	return Assignment{}, false
}
