// Package plan imports study plans written in CUE.
//
// A plan lists subjects and assignments to create:
//
//	subjects: [{name: "DSA Practice"}, {name: "Operating Systems"}]
//	assignments: [{
//		title:    "Lab Report"
//		subject:  "Physics"
//		deadline: "2026-03-12"
//		priority: "High"
//	}]
//
// Plans are validated against an embedded schema before anything is created,
// and are applied only through the tracker's public operations.
package plan

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/studyflow/internal/domain"
)

//go:embed schema.cue
var schemaCUE string

// Plan is a decoded study plan.
type Plan struct {
	Subjects    []Subject    `json:"subjects"`
	Assignments []Assignment `json:"assignments"`
}

// Subject is a subject entry in a plan.
type Subject struct {
	Name string `json:"name"`
}

// Assignment is an assignment entry in a plan.
type Assignment struct {
	Title    string `json:"title"`
	Subject  string `json:"subject"`
	Deadline string `json:"deadline"`
	Priority string `json:"priority"`
}

// ValidationError reports plan entries that do not satisfy the schema.
// Details carries one line per CUE error, including file positions.
type ValidationError struct {
	Filename string
	Details  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid plan %s:\n%s", e.Filename, e.Details)
}

// LoadFile reads and validates the plan at path.
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return Parse(path, data)
}

// Parse validates data against the plan schema and decodes it.
// filename is used only in error positions.
func Parse(filename string, data []byte) (*Plan, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile plan schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Plan"))

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, &ValidationError{Filename: filename, Details: cueerrors.Details(err, nil)}
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &ValidationError{Filename: filename, Details: cueerrors.Details(err, nil)}
	}

	var p Plan
	if err := unified.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &p, nil
}

// Target is the subset of tracker operations a plan is applied through.
type Target interface {
	Snapshot() domain.Snapshot
	AddSubject(name string) (domain.Subject, bool)
	AddAssignment(title, subject, deadline string, priority domain.Priority) (domain.Assignment, bool)
}

// Result summarizes an Apply.
type Result struct {
	SubjectsAdded    int      `json:"subjectsAdded"`
	AssignmentsAdded int      `json:"assignmentsAdded"`
	Skipped          []string `json:"skipped"`
}

// Apply creates the plan's subjects and then its assignments.
// Subjects whose name already exists are skipped, so re-importing a plan
// does not duplicate them. Assignments are always added.
func Apply(t Target, p *Plan) Result {
	res := Result{Skipped: []string{}}

	existing := make(map[string]bool)
	for _, s := range t.Snapshot().Subjects {
		existing[s.Name] = true
	}

	for _, s := range p.Subjects {
		if existing[s.Name] {
			res.Skipped = append(res.Skipped, fmt.Sprintf("subject %q: already exists", s.Name))
			continue
		}
		added, ok := t.AddSubject(s.Name)
		if !ok {
			res.Skipped = append(res.Skipped, fmt.Sprintf("subject %q: rejected", s.Name))
			continue
		}
		existing[added.Name] = true
		res.SubjectsAdded++
	}

	for _, a := range p.Assignments {
		priority, err := domain.ParsePriority(a.Priority)
		if err != nil {
			priority = domain.DefaultPriority
		}
		if _, ok := t.AddAssignment(a.Title, a.Subject, a.Deadline, priority); !ok {
			res.Skipped = append(res.Skipped, fmt.Sprintf("assignment %q: rejected", a.Title))
			continue
		}
		res.AssignmentsAdded++
	}
	return res
}
