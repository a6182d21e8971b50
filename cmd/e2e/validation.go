package e2e

import (
	"fmt"

	"github.com/scan-io-git/class-pollution-detection/pkg/shared/files"
)

// validateE2EArgs validates the arguments provided to the e2e command.
func validateE2EArgs(options *RunOptionsE2E, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("exactly one dataset file must be specified")
	}
	if err := files.ValidatePath(args[0]); err != nil {
		return fmt.Errorf("invalid dataset path %q: %w", args[0], err)
	}
	if options.Threads <= 0 {
		return fmt.Errorf("the 'threads' flag must be a positive integer")
	}
	return nil
}
