package harness

import (
	"time"

	"github.com/roach88/studyflow/internal/domain"
)

// StepTrace records the outcome of one flow step.
type StepTrace struct {
	Index       int    `json:"index"`
	Op          string `json:"op"`
	Outcome     string `json:"outcome"`               // ExpectOK or ExpectSkipped
	ID          string `json:"id,omitempty"`          // entity created or targeted
	Collections string `json:"collections,omitempty"` // touched collections, from the Change
	Detail      string `json:"detail,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step matched its expectation, every assertion
	// held and the persisted state reloaded identically.
	Pass bool `json:"pass"`

	Trace  []StepTrace `json:"trace"`
	Errors []string    `json:"errors,omitempty"`

	// Now is the clock reading after the last step.
	Now time.Time `json:"now"`

	// Final is the tracker snapshot after the last step.
	Final domain.Snapshot `json:"final"`

	// Recommendations evaluated on Final at Now.
	Recommendations []string `json:"recommendations"`

	// Refs maps scenario aliases to generated ids.
	Refs map[string]string `json:"refs"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []StepTrace{},
		Errors: []string{},
		Refs:   make(map[string]string),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// resolve maps an alias to its id, or returns ref unchanged.
func (r *Result) resolve(ref string) string {
	if id, ok := r.Refs[ref]; ok {
		return id
	}
	return ref
}
