package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/studyflow/internal/analytics"
	"github.com/roach88/studyflow/internal/domain"
	"github.com/roach88/studyflow/internal/recommend"
)

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Show recent study sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			if limit < 0 {
				return NewExitError(ExitCommandError, "--limit must not be negative").WithErrCode(ErrCodeInvalidInput)
			}
			return a.out.Success(sessionTable(analytics.RecentSessions(a.tracker.Snapshot(), limit)))
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", analytics.DefaultRecentSessions, "number of sessions to show (0 for all)")
	return cmd
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show study totals, completion rate and upcoming deadlines",
		Args:  cobra.NoArgs,
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			return a.out.Success(summaryView(analytics.Summarize(a.tracker.Snapshot(), a.tracker.Now())))
		}),
	}
}

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Suggest what to work on next",
		Args:  cobra.NoArgs,
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			return a.out.Success(recommendationList(recommend.Recommendations(a.tracker.Snapshot(), a.tracker.Now())))
		}),
	}
}

type sessionTable []domain.StudySession

func (t sessionTable) String() string {
	if len(t) == 0 {
		return "No study sessions yet."
	}
	var b strings.Builder
	tw := newTable(&b, "DATE", "SUBJECT", "DURATION")
	for _, s := range t {
		tw.row(formatDateTime(s.Date), s.SubjectName, formatHours(s.Duration))
	}
	tw.flush()
	return strings.TrimRight(b.String(), "\n")
}

type summaryView analytics.Summary

func (v summaryView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total study time:  %s\n", formatHours(round1(v.TotalHours)))
	fmt.Fprintf(&b, "This week:         %s\n", formatHours(round1(v.WeeklyHours)))
	fmt.Fprintf(&b, "Completion rate:   %.0f%% (%d done, %d pending)\n", v.CompletionRate, v.CompletedCount, v.PendingCount)

	if len(v.Subjects) > 0 {
		b.WriteString("\n")
		b.WriteString(subjectTable(v.Subjects).String())
		b.WriteString("\n")
	}

	b.WriteString("\nUpcoming deadlines:\n")
	if len(v.UpcomingDeadlines) == 0 {
		b.WriteString("  none\n")
	}
	for _, a := range v.UpcomingDeadlines {
		fmt.Fprintf(&b, "  %s  %s (%s) [%s]\n", formatDate(a.Deadline), a.Title, a.Subject, a.Priority)
	}
	return strings.TrimRight(b.String(), "\n")
}

type recommendationList []string

func (l recommendationList) String() string {
	return strings.Join(l, "\n")
}

// round1 rounds to one decimal place for display.
func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
