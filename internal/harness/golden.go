package harness

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/studyflow/internal/analytics"
)

// RenderTrace renders result as the stable text compared against golden files.
// Subject colors are omitted because they are random.
func RenderTrace(name string, r *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", name)

	b.WriteString("\nflow:\n")
	if len(r.Trace) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, s := range r.Trace {
		fmt.Fprintf(&b, "  %d. %s %s", s.Index, s.Op, s.Outcome)
		if s.ID != "" {
			fmt.Fprintf(&b, " %s", s.ID)
		}
		if s.Detail != "" {
			fmt.Fprintf(&b, " %s", s.Detail)
		}
		if s.Collections != "" {
			fmt.Fprintf(&b, " [%s]", s.Collections)
		}
		b.WriteString("\n")
	}

	snap := r.Final
	fmt.Fprintf(&b, "\nstate at %s:\n", r.Now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "  subjects: %d\n", len(snap.Subjects))
	for _, s := range snap.Subjects {
		fmt.Fprintf(&b, "    %s %q %s/%sh %.2f%%\n",
			s.ID, s.Name, formatFloat(s.StudiedHours), formatFloat(s.TargetHours), analytics.Progress(s))
	}
	fmt.Fprintf(&b, "  assignments: %d\n", len(snap.Assignments))
	for _, a := range snap.Assignments {
		state := "pending"
		if a.Completed {
			state = "completed"
		}
		fmt.Fprintf(&b, "    %s %q (%s) due %s %s %s\n",
			a.ID, a.Title, a.Subject, a.Deadline.UTC().Format(time.RFC3339), a.Priority, state)
	}
	fmt.Fprintf(&b, "  sessions: %d\n", len(snap.Sessions))
	for _, s := range snap.Sessions {
		fmt.Fprintf(&b, "    %s %s %q %sh at %s\n",
			s.ID, s.SubjectID, s.SubjectName, formatFloat(s.Duration), s.Date.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "  total_hours: %s\n", formatFloat(analytics.TotalStudyHours(snap)))
	fmt.Fprintf(&b, "  weekly_hours: %s\n", formatFloat(analytics.WeeklyStudyHours(snap, r.Now)))
	fmt.Fprintf(&b, "  completion_rate: %.2f%%\n", analytics.CompletionRate(snap))

	b.WriteString("\nrecommendations:\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against testdata/golden/{name}.golden.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, RenderTrace(name, result))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
