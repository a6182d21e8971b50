package fixup

import (
	"fmt"

	"github.com/scan-io-git/class-pollution-detection/pkg/shared/files"
)

// validateFixUpArgs validates the arguments provided to the fixup command.
func validateFixUpArgs(options *RunOptionsFixUp, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("the fixup command does not take positional arguments")
	}
	if options.Dataset != "" {
		if err := files.ValidatePath(options.Dataset); err != nil {
			return fmt.Errorf("invalid dataset path %q: %w", options.Dataset, err)
		}
	}
	return nil
}
