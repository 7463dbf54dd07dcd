package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/studyflow/internal/analytics"
	"github.com/roach88/studyflow/internal/domain"
)

// NewAssignmentCommand creates the assignment command group.
func NewAssignmentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assignment",
		Aliases: []string{"assignments"},
		Short:   "Manage assignments and deadlines",
	}
	cmd.AddCommand(newAssignmentAddCommand(rootOpts))
	cmd.AddCommand(newAssignmentListCommand(rootOpts))
	cmd.AddCommand(newAssignmentToggleCommand(rootOpts))
	cmd.AddCommand(newAssignmentRemoveCommand(rootOpts))
	return cmd
}

type assignmentAddOptions struct {
	title    string
	subject  string
	deadline string
	priority string
}

func newAssignmentAddCommand(opts *RootOptions) *cobra.Command {
	add := &assignmentAddOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an assignment",
		Long: `Add an assignment.

The deadline may be a date (2026-03-12), a local date and time
(2026-03-12T18:00) or an RFC 3339 timestamp.

Example:
  studyflow assignment add --title "Lab Report" --subject Physics --deadline 2026-03-12 --priority High`,
		Args: cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			priority, err := domain.ParsePriority(add.priority)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --priority", err).WithErrCode(ErrCodeInvalidInput)
			}
			asg, ok := a.tracker.AddAssignment(add.title, add.subject, add.deadline, priority)
			if !ok {
				return NewExitError(ExitFailure,
					"assignment rejected: --title, --subject and a valid --deadline are required").WithErrCode(ErrCodeRejected)
			}
			return a.out.Success(assignmentView(asg))
		}),
	}
	cmd.Flags().StringVar(&add.title, "title", "", "assignment title (required)")
	cmd.Flags().StringVar(&add.subject, "subject", "", "subject label (required)")
	cmd.Flags().StringVar(&add.deadline, "deadline", "", "due date (required)")
	cmd.Flags().StringVar(&add.priority, "priority", string(domain.DefaultPriority), "High|Medium|Low")
	return cmd
}

func newAssignmentListCommand(opts *RootOptions) *cobra.Command {
	var pendingOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments with deadline status",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			snap := a.tracker.Snapshot()
			list := snap.Assignments
			if pendingOnly {
				list = analytics.Pending(snap)
			}
			return a.out.Success(newAssignmentTable(list, a.tracker.Now()))
		}),
	}
	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "only incomplete assignments")
	return cmd
}

func newAssignmentToggleCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark an assignment complete, or incomplete again",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			if !a.tracker.ToggleAssignmentCompletion(args[0]) {
				return notFound("assignment", args[0])
			}
			asg, _ := a.tracker.Snapshot().AssignmentByID(args[0])
			return a.out.Success(toggledView(asg))
		}),
	}
}

func newAssignmentRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			if !a.tracker.RemoveAssignment(args[0]) {
				return notFound("assignment", args[0])
			}
			return a.out.Success(removedView{Kind: "assignment", ID: args[0]})
		}),
	}
}

type assignmentView domain.Assignment

func (v assignmentView) String() string {
	return fmt.Sprintf("Added assignment %s (%s) due %s [%s]", v.Title, v.ID, formatDateTime(v.Deadline), v.Priority)
}

type toggledView domain.Assignment

func (v toggledView) String() string {
	state := "pending"
	if v.Completed {
		state = "completed"
	}
	return fmt.Sprintf("Assignment %s is now %s", v.Title, state)
}

// assignmentRow is one line of the assignment list.
type assignmentRow struct {
	domain.Assignment
	DaysLeft int                      `json:"daysLeft"`
	Status   analytics.DeadlineStatus `json:"status,omitempty"` // empty when completed
}

type assignmentTable []assignmentRow

func newAssignmentTable(list []domain.Assignment, now time.Time) assignmentTable {
	rows := make(assignmentTable, len(list))
	for i, a := range list {
		rows[i] = assignmentRow{Assignment: a, DaysLeft: analytics.DaysUntilDeadline(a, now)}
		if !a.Completed {
			rows[i].Status = analytics.Status(a, now)
		}
	}
	return rows
}

func (t assignmentTable) String() string {
	if len(t) == 0 {
		return "No assignments."
	}
	var b strings.Builder
	tw := newTable(&b, "ID", "TITLE", "SUBJECT", "DUE", "PRIORITY", "STATUS")
	for _, r := range t {
		tw.row(r.ID, r.Title, r.Subject, formatDate(r.Deadline), string(r.Priority), r.statusText())
	}
	tw.flush()
	return strings.TrimRight(b.String(), "\n")
}

func (r assignmentRow) statusText() string {
	switch {
	case r.Completed:
		return "done"
	case r.Status == analytics.StatusOverdue:
		return "overdue"
	case r.DaysLeft == 0:
		return "due today"
	case r.DaysLeft == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", r.DaysLeft)
	}
}
