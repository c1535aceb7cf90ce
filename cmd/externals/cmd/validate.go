package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"externals/pkg/externals"
)

var (
	validateComponents []string
	validateExclude    []string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check an externals description for errors",
	Long: `Runs the full pipeline — format detection, schema version gate, entry
build, and three-phase validation — and reports the first fatal problem.
Exit 0 when the description is valid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, err := externals.Load(cmd.Context(), rootDir, fileName, &externals.Options{
			Components: validateComponents,
			Exclude:    validateExclude,
		})
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d external(s), schema %s\n", fileName, desc.Len(), desc.Version())
		return nil
	},
}

func init() {
	validateCmd.Flags().StringSliceVar(&validateComponents, "components", nil, "only load the named externals")
	validateCmd.Flags().StringSliceVar(&validateExclude, "exclude", nil, "skip the named externals")

	rootCmd.AddCommand(validateCmd)
}
