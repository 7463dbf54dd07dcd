package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/studyflow/internal/domain"
)

// timeLayout is the textual timestamp format written to the backend.
const timeLayout = "2006-01-02T15:04:05.000Z"

type subjectRecord struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	StudiedHours float64 `json:"studiedHours"`
	TargetHours  float64 `json:"targetHours"`
	LastStudied  *string `json:"lastStudied,omitempty"`
}

type assignmentRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Deadline  string `json:"deadline"`
	Priority  string `json:"priority"`
	Completed bool   `json:"completed"`
}

type sessionRecord struct {
	ID          string  `json:"id"`
	SubjectID   string  `json:"subjectId"`
	SubjectName string  `json:"subjectName"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime accepts any RFC 3339 timestamp, with or without fractional seconds.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func encodeSubjects(subjects []domain.Subject) (string, error) {
	recs := make([]subjectRecord, len(subjects))
	for i, s := range subjects {
		recs[i] = subjectRecord{
			ID:           s.ID,
			Name:         s.Name,
			Color:        s.Color,
			StudiedHours: s.StudiedHours,
			TargetHours:  s.TargetHours,
		}
		if s.LastStudied != nil {
			v := formatTime(*s.LastStudied)
			recs[i].LastStudied = &v
		}
	}
	return encode(recs)
}

func decodeSubjects(raw string) ([]domain.Subject, error) {
	var recs []subjectRecord
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return nil, err
	}
	out := make([]domain.Subject, len(recs))
	for i, r := range recs {
		out[i] = domain.Subject{
			ID:           r.ID,
			Name:         r.Name,
			Color:        r.Color,
			StudiedHours: r.StudiedHours,
			TargetHours:  r.TargetHours,
		}
		if r.LastStudied != nil {
			t, err := parseTime(*r.LastStudied)
			if err != nil {
				return nil, fmt.Errorf("subject %s lastStudied: %w", r.ID, err)
			}
			out[i].LastStudied = &t
		}
	}
	return out, nil
}

func encodeAssignments(assignments []domain.Assignment) (string, error) {
	recs := make([]assignmentRecord, len(assignments))
	for i, a := range assignments {
		recs[i] = assignmentRecord{
			ID:        a.ID,
			Title:     a.Title,
			Subject:   a.Subject,
			Deadline:  formatTime(a.Deadline),
			Priority:  string(a.Priority),
			Completed: a.Completed,
		}
	}
	return encode(recs)
}

// decodeAssignments maps an unrecognized priority to the default.
func decodeAssignments(raw string) ([]domain.Assignment, error) {
	var recs []assignmentRecord
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return nil, err
	}
	out := make([]domain.Assignment, len(recs))
	for i, r := range recs {
		due, err := parseTime(r.Deadline)
		if err != nil {
			return nil, fmt.Errorf("assignment %s deadline: %w", r.ID, err)
		}
		p := domain.Priority(r.Priority)
		if !p.Valid() {
			p = domain.DefaultPriority
		}
		out[i] = domain.Assignment{
			ID:        r.ID,
			Title:     r.Title,
			Subject:   r.Subject,
			Deadline:  due,
			Priority:  p,
			Completed: r.Completed,
		}
	}
	return out, nil
}

func encodeSessions(sessions []domain.StudySession) (string, error) {
	recs := make([]sessionRecord, len(sessions))
	for i, s := range sessions {
		recs[i] = sessionRecord{
			ID:          s.ID,
			SubjectID:   s.SubjectID,
			SubjectName: s.SubjectName,
			Duration:    s.Duration,
			Date:        formatTime(s.Date),
		}
	}
	return encode(recs)
}

func decodeSessions(raw string) ([]domain.StudySession, error) {
	var recs []sessionRecord
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return nil, err
	}
	out := make([]domain.StudySession, len(recs))
	for i, r := range recs {
		date, err := parseTime(r.Date)
		if err != nil {
			return nil, fmt.Errorf("session %s date: %w", r.ID, err)
		}
		out[i] = domain.StudySession{
			ID:          r.ID,
			SubjectID:   r.SubjectID,
			SubjectName: r.SubjectName,
			Duration:    r.Duration,
			Date:        date,
		}
	}
	return out, nil
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
