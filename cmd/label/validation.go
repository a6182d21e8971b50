package label

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/files"
)

// validateLabelArgs validates the label arguments and fills context lines the user did not set from the config.
func validateLabelArgs(cmd *cobra.Command, options *RunOptionsLabel, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("the label command does not take positional arguments")
	}
	if options.Dataset != "" {
		if err := files.ValidatePath(options.Dataset); err != nil {
			return fmt.Errorf("invalid dataset path %q: %w", options.Dataset, err)
		}
	}

	before, after := config.GetContextLines(AppConfig)
	if !cmd.Flags().Changed("context-before") {
		options.ContextBefore = before
	}
	if !cmd.Flags().Changed("context-after") {
		options.ContextAfter = after
	}
	if options.ContextBefore < 0 || options.ContextAfter < 0 {
		return fmt.Errorf("context lines cannot be negative")
	}
	return nil
}
