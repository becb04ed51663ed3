package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denizgursoy/naica/pkg/executor"
	"github.com/denizgursoy/naica/pkg/runner"
)

// NewListCommand creates the list command printing the cases a run of the
// feature files would execute.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var tags string

	cmd := &cobra.Command{
		Use:   "list [feature-dirs...]",
		Short: "List the scenarios selected by a tag expression",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := rootOpts.logger(cmd.ErrOrStderr())

			cases, err := runner.NewFeatureLoader(executor.NewStepExecutor()).
				WithFeaturesDirectories(args...).
				Load(tags)
			if err != nil {
				return err
			}
			logger.Debug("Loaded scenarios", "count", len(cases), "tags", tags)

			out := cmd.OutOrStdout()
			for _, c := range cases {
				if _, err := fmt.Fprintf(out, "%s (%d steps)\n", c.ID(), len(c.Operations())); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tags, "tags", "t", "", `tag expression, e.g. "@smoke and not @slow"`)

	return cmd
}
