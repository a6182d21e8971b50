package results

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/scan-io-git/class-pollution-detection/internal/results"
	"github.com/scan-io-git/class-pollution-detection/internal/taint"
)

// validateResultsArgs validates the arguments provided to the results command.
func validateResultsArgs(options *RunOptionsResults, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("exactly one results directory must be specified")
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("invalid results directory %q: %w", args[0], err)
	}
	if !info.IsDir() {
		return fmt.Errorf("the results path is not a directory: %v", args[0])
	}
	if _, err := os.Stat(filepath.Join(args[0], taint.OutputFileName)); err != nil {
		return fmt.Errorf("no %s in %q", taint.OutputFileName, args[0])
	}

	if options.SarifPath != "" {
		sarifPath, err := results.ResolveSARIFPath(options.SarifPath)
		if err != nil {
			return err
		}
		options.SarifPath = sarifPath
	}
	return nil
}
