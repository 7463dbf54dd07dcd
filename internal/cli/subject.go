package cli

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/studyflow/internal/analytics"
	"github.com/roach88/studyflow/internal/domain"
)

// QuickLogHours are the study durations accepted by "subject log" without --any.
var QuickLogHours = []float64{0.5, 1, 2}

// NewSubjectCommand creates the subject command group.
func NewSubjectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Manage subjects and log study time",
	}
	cmd.AddCommand(newSubjectAddCommand(rootOpts))
	cmd.AddCommand(newSubjectListCommand(rootOpts))
	cmd.AddCommand(newSubjectRemoveCommand(rootOpts))
	cmd.AddCommand(newSubjectLogCommand(rootOpts))
	return cmd
}

func newSubjectAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a subject with a 40 hour target",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			subj, ok := a.tracker.AddSubject(args[0])
			if !ok {
				return NewExitError(ExitFailure, "subject name must not be empty").WithErrCode(ErrCodeRejected)
			}
			return a.out.Success(subjectView(subj))
		}),
	}
}

func newSubjectListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List subjects with progress toward their targets",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			snap := a.tracker.Snapshot()
			rows := make(subjectTable, len(snap.Subjects))
			for i, s := range snap.Subjects {
				rows[i] = analytics.SubjectProgress(s)
			}
			return a.out.Success(rows)
		}),
	}
}

func newSubjectRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a subject and every session logged against it",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			if !a.tracker.RemoveSubject(args[0]) {
				return notFound("subject", args[0])
			}
			return a.out.Success(removedView{Kind: "subject", ID: args[0]})
		}),
	}
}

func newSubjectLogCommand(opts *RootOptions) *cobra.Command {
	var anyHours bool
	cmd := &cobra.Command{
		Use:   "log <id> <hours>",
		Short: "Log study time against a subject",
		Long: `Log study time against a subject.

Hours must be one of 0.5, 1 or 2 unless --any is given, in which case any
positive number is accepted.`,
		Args: cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			hours, err := parseHours(args[1], anyHours)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid hours", err).WithErrCode(ErrCodeInvalidInput)
			}
			session, ok := a.tracker.LogStudyTime(args[0], hours)
			if !ok {
				return notFound("subject", args[0])
			}
			return a.out.Success(sessionView(session))
		}),
	}
	cmd.Flags().BoolVar(&anyHours, "any", false, "accept any positive duration")
	return cmd
}

func parseHours(s string, anyHours bool) (float64, error) {
	hours, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if anyHours {
		if !(hours > 0) || math.IsInf(hours, 1) {
			return 0, fmt.Errorf("hours must be a positive finite number, got %s", s)
		}
		return hours, nil
	}
	if !slices.Contains(QuickLogHours, hours) {
		return 0, fmt.Errorf("hours must be one of 0.5, 1 or 2 (use --any for other values), got %s", s)
	}
	return hours, nil
}

func notFound(kind, id string) *ExitError {
	return NewExitError(ExitFailure, fmt.Sprintf("%s %q not found", kind, id)).WithErrCode(ErrCodeNotFound)
}

type subjectView domain.Subject

func (v subjectView) String() string {
	return fmt.Sprintf("Added subject %s (%s) %s", v.Name, v.ID, v.Color)
}

type sessionView domain.StudySession

func (v sessionView) String() string {
	return fmt.Sprintf("Logged %s to %s", formatHours(v.Duration), v.SubjectName)
}

type removedView struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func (v removedView) String() string {
	return fmt.Sprintf("Removed %s %s", v.Kind, v.ID)
}

type subjectTable []analytics.SubjectStats

func (t subjectTable) String() string {
	if len(t) == 0 {
		return "No subjects yet. Add one with: studyflow subject add <name>"
	}
	var b strings.Builder
	tw := newTable(&b, "ID", "NAME", "HOURS", "PROGRESS", "REMAINING")
	for _, s := range t {
		progress := fmt.Sprintf("%.0f%%", s.BoundedProgress)
		if s.TargetAchieved {
			progress += " done"
		}
		tw.row(s.ID, s.Name,
			fmt.Sprintf("%s/%s", trimFloat(s.StudiedHours), trimFloat(s.TargetHours)),
			progress,
			formatHours(s.RemainingHours))
	}
	tw.flush()
	return strings.TrimRight(b.String(), "\n")
}
