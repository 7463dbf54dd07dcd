package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/studyflow/internal/plan"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <plan.cue>",
		Short: "Create subjects and assignments from a CUE study plan",
		Long: `Create subjects and assignments from a CUE study plan.

The plan is validated before anything is created:

  subjects: [{name: "DSA Practice"}, {name: "Operating Systems"}]
  assignments: [{
  	title:    "Lab Report"
  	subject:  "Physics"
  	deadline: "2026-03-12"
  	priority: "High" // optional, defaults to Medium
  }]

Subjects that already exist by name are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, args []string) error {
			p, err := plan.LoadFile(args[0])
			if err != nil {
				var verr *plan.ValidationError
				if errors.As(err, &verr) {
					return WrapExitError(ExitCommandError, "plan failed validation", err).WithErrCode(ErrCodeInvalidPlan)
				}
				return WrapExitError(ExitCommandError, "failed to load plan", err).WithErrCode(ErrCodeInvalidInput)
			}
			a.writer.Hold()
			res := plan.Apply(a.tracker, p)
			if err := a.writer.Release(); err != nil {
				return WrapExitError(ExitCommandError, "imported plan was not saved", err).WithErrCode(ErrCodeStorage)
			}
			a.log.Info("plan imported",
				"file", args[0],
				"subjects", res.SubjectsAdded,
				"assignments", res.AssignmentsAdded,
				"skipped", len(res.Skipped))
			return a.out.Success(importView(res))
		}),
	}
}

type importView plan.Result

func (v importView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported %d subjects and %d assignments", v.SubjectsAdded, v.AssignmentsAdded)
	for _, s := range v.Skipped {
		fmt.Fprintf(&b, "\n  skipped %s", s)
	}
	return b.String()
}
