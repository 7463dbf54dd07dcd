package harness

import (
	"fmt"
	"math"
	"slices"

	"github.com/roach88/studyflow/internal/analytics"
)

const floatTolerance = 1e-9

// evaluateAssertion checks one assertion against the final state in r.
func evaluateAssertion(a Assertion, r *Result) error {
	switch a.Type {
	case AssertCount:
		var got int
		switch a.Collection {
		case "subjects":
			got = len(r.Final.Subjects)
		case "assignments":
			got = len(r.Final.Assignments)
		case "sessions":
			got = len(r.Final.Sessions)
		}
		if got != *a.Count {
			return fmt.Errorf("%s: expected %d, got %d", a.Collection, *a.Count, got)
		}

	case AssertMetric:
		var got float64
		switch a.Field {
		case "total_hours":
			got = analytics.TotalStudyHours(r.Final)
		case "weekly_hours":
			got = analytics.WeeklyStudyHours(r.Final, r.Now)
		case "completion_rate":
			got = analytics.CompletionRate(r.Final)
		}
		return compareFloat(a.Field, *a.Value, got)

	case AssertSubject:
		id := r.resolve(a.Ref)
		subj, ok := r.Final.SubjectByID(id)
		if !ok {
			return fmt.Errorf("subject %q not found", a.Ref)
		}
		var got float64
		switch a.Field {
		case "studied_hours":
			got = subj.StudiedHours
		case "target_hours":
			got = subj.TargetHours
		case "progress":
			got = analytics.Progress(subj)
		}
		return compareFloat(a.Ref+"."+a.Field, *a.Value, got)

	case AssertCompleted:
		asg, ok := r.Final.AssignmentByID(r.resolve(a.Ref))
		if !ok {
			return fmt.Errorf("assignment %q not found", a.Ref)
		}
		if asg.Completed != *a.Is {
			return fmt.Errorf("%s: expected completed=%t, got %t", a.Ref, *a.Is, asg.Completed)
		}

	case AssertRecommendations:
		if !slices.Equal(a.Messages, r.Recommendations) {
			return fmt.Errorf("expected %q, got %q", a.Messages, r.Recommendations)
		}

	case AssertRecommendationContains:
		if !slices.Contains(r.Recommendations, a.Text) {
			return fmt.Errorf("%q not in %q", a.Text, r.Recommendations)
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func compareFloat(what string, want, got float64) error {
	if math.Abs(want-got) > floatTolerance {
		return fmt.Errorf("%s: expected %v, got %v", what, want, got)
	}
	return nil
}
