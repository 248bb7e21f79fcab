package cli

import (
	"github.com/spf13/cobra"

	"go-fieldtime/internal/sweeper"
)

func newSweepCommand(o *Options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Auto-close stale shifts and auto-approve clean entries once",
		Long: `sweep runs a single pass of the stale-shift sweeper. With --dry-run the
stale entries are reported but nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := o.Sweep(cmd.Context(), sweeper.Options{DryRun: dryRun})
			if err != nil {
				return err
			}
			return printJSON(o.Out, report)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report stale entries without closing them")
	return cmd
}
