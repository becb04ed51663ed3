package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denizgursoy/naica/internal/generator"
)

type scaffoldOptions struct {
	output    string
	overwrite bool
}

// NewScaffoldCommand creates the scaffold command.
func NewScaffoldCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &scaffoldOptions{}

	cmd := &cobra.Command{
		Use:   "scaffold [feature-dirs...]",
		Short: "Generate step stubs and a test runner for feature files",
		Long: `Generate naica_test.go with one stub function per distinct step found in
the feature files and a TestNaica function running them with go test.

Feature directories default to the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := rootOpts.logger(cmd.ErrOrStderr())
			logger.Debug("Scaffolding", "features", args, "output", opts.output)

			path, err := generator.Scaffold(cmd.Context(), generator.Options{
				FeatureDirectories: args,
				OutputDirectory:    opts.output,
				Overwrite:          opts.overwrite,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "directory receiving "+generator.OutputFile)
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "replace an existing "+generator.OutputFile)

	return cmd
}
