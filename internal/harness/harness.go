package harness

import (
	"context"
	"fmt"
	"math/rand/v2"
	"reflect"
	"time"

	"github.com/roach88/studyflow/internal/domain"
	"github.com/roach88/studyflow/internal/gateway"
	"github.com/roach88/studyflow/internal/recommend"
	"github.com/roach88/studyflow/internal/store"
	"github.com/roach88/studyflow/internal/testutil"
	"github.com/roach88/studyflow/internal/tracker"
)

// Harness executes one scenario against a fresh tracker.
type Harness struct {
	tracker *tracker.Tracker
	clock   *testutil.FixedClock
	gateway *gateway.Gateway

	// last is the most recent Change, cleared before each step.
	last *tracker.Change
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database. The clock starts at
// scenario.Now, ids are id-1, id-2, ... and subject colors come from a seeded
// source, so repeated runs produce identical results.
func Run(scenario *Scenario) (*Result, error) {
	start := testutil.RefTime
	if scenario.Now != "" {
		t, err := time.Parse(time.RFC3339, scenario.Now)
		if err != nil {
			return nil, fmt.Errorf("invalid now: %w", err)
		}
		start = t.UTC()
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewFixedClock(start)
	tr := tracker.New(domain.Snapshot{},
		tracker.WithClock(clock),
		tracker.WithIDGenerator(tracker.NewSequenceGenerator("id")),
		tracker.WithRand(rand.New(rand.NewPCG(1, 2))),
		tracker.WithLocation(time.UTC),
	)

	h := &Harness{
		tracker: tr,
		clock:   clock,
		gateway: gateway.New(st),
	}
	detach := h.gateway.Attach(tr)
	defer detach()
	tr.Subscribe(func(c tracker.Change) { h.last = &c })

	result := NewResult()
	for i, step := range scenario.Flow {
		trace := h.execute(i+1, step, result)
		result.Trace = append(result.Trace, trace)

		want := step.Expect
		if want == "" {
			want = ExpectOK
		}
		if trace.Outcome != want {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected %s, got %s", i, step.Op, want, trace.Outcome))
		}
	}

	result.Now = clock.Now()
	result.Final = tr.Snapshot()
	result.Recommendations = recommend.Recommendations(result.Final, result.Now)

	if err := h.checkPersisted(result.Final); err != nil {
		result.AddError(err.Error())
	}

	for i, a := range scenario.Assertions {
		if err := evaluateAssertion(a, result); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d] %s: %v", i, a.Type, err))
		}
	}

	return result, nil
}

func (h *Harness) execute(index int, step Step, result *Result) StepTrace {
	h.last = nil
	trace := StepTrace{Index: index, Op: step.Op, Outcome: ExpectSkipped}

	ok := false
	switch step.Op {
	case OpAddSubject:
		var subj domain.Subject
		if subj, ok = h.tracker.AddSubject(step.Name); ok {
			trace.ID = subj.ID
			if step.As != "" {
				result.Refs[step.As] = subj.ID
			}
		}
		trace.Detail = fmt.Sprintf("%q", step.Name)

	case OpAddAssignment:
		priority, err := domain.ParsePriority(step.Priority)
		if err != nil {
			priority = domain.Priority(step.Priority)
		}
		var a domain.Assignment
		if a, ok = h.tracker.AddAssignment(step.Title, step.Subject, step.Deadline, priority); ok {
			trace.ID = a.ID
			if step.As != "" {
				result.Refs[step.As] = a.ID
			}
		}
		trace.Detail = fmt.Sprintf("%q", step.Title)

	case OpLogStudyTime:
		trace.ID = result.resolve(step.Ref)
		_, ok = h.tracker.LogStudyTime(trace.ID, step.Hours)
		trace.Detail = formatFloat(step.Hours) + "h"

	case OpRemoveSubject:
		trace.ID = result.resolve(step.Ref)
		ok = h.tracker.RemoveSubject(trace.ID)

	case OpToggleAssignment:
		trace.ID = result.resolve(step.Ref)
		ok = h.tracker.ToggleAssignmentCompletion(trace.ID)

	case OpRemoveAssignment:
		trace.ID = result.resolve(step.Ref)
		ok = h.tracker.RemoveAssignment(trace.ID)

	case OpAdvance:
		d, err := time.ParseDuration(step.By)
		if err == nil {
			now := h.clock.Advance(d)
			trace.Detail = fmt.Sprintf("%s -> %s", step.By, now.Format(time.RFC3339))
			ok = true
		}
	}

	if ok {
		trace.Outcome = ExpectOK
	}
	if h.last != nil {
		trace.Collections = h.last.Collections.String()
	}
	return trace
}

// checkPersisted reloads the store and compares it with want at millisecond
// precision, which is what the wire format keeps.
func (h *Harness) checkPersisted(want domain.Snapshot) error {
	got, err := h.gateway.Load(context.Background())
	if err != nil {
		return fmt.Errorf("persistence: reload failed: %w", err)
	}
	if !reflect.DeepEqual(normalize(want), normalize(got)) {
		return fmt.Errorf("persistence: reloaded state differs from tracker state")
	}
	return nil
}

func normalize(s domain.Snapshot) domain.Snapshot {
	out := s.Clone()
	for i := range out.Subjects {
		if ls := out.Subjects[i].LastStudied; ls != nil {
			t := wireTime(*ls)
			out.Subjects[i].LastStudied = &t
		}
	}
	for i := range out.Assignments {
		out.Assignments[i].Deadline = wireTime(out.Assignments[i].Deadline)
	}
	for i := range out.Sessions {
		out.Sessions[i].Date = wireTime(out.Sessions[i].Date)
	}
	return out
}

func wireTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
