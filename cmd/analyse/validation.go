package analyse

import (
	"fmt"
	"os"
	"strings"

	"github.com/scan-io-git/class-pollution-detection/internal/results"
)

// validateAnalyseArgs validates the arguments provided to the analyse command.
func validateAnalyseArgs(options *RunOptionsAnalyse, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("exactly one target path must be specified")
	}

	info, err := os.Stat(args[0])
	if os.IsNotExist(err) {
		return fmt.Errorf("the target path does not exist: %v", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to check the target path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("the target path is not a directory: %v", args[0])
	}

	if strings.ContainsAny(options.Name, `/\`) || options.Name == "." || options.Name == ".." {
		return fmt.Errorf("the 'name' flag cannot contain path separators: %q", options.Name)
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
