package fixup

import (
	"github.com/spf13/cobra"

	"github.com/scan-io-git/class-pollution-detection/internal/dataset"
	"github.com/scan-io-git/class-pollution-detection/internal/report"
	"github.com/scan-io-git/class-pollution-detection/internal/results"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/logger"
)

// RunOptionsFixUp holds the arguments for the fixup command.
type RunOptionsFixUp struct {
	Dataset string
}

var (
	AppConfig         *config.Config
	fixUpOptions      RunOptionsFixUp
	exampleFixUpUsage = `  # Recomputing the classification of every stored report
  cpd fixup

  # Recomputing only the reports of a dataset
  cpd fixup --dataset /path/to/dataset.toml`
)

// FixUpCmd represents the fixup command.
var FixUpCmd = &cobra.Command{
	Use:                   "fixup [--dataset PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleFixUpUsage,
	Short:                 "Recompute the classification of stored reports from their raw analyzer output",
	Long: `Re-processes the raw analyzer output kept in the analysis directories and updates the
classification of every stored issue. Labels are preserved. A report whose issues cannot be
matched one to one is left untouched and reported as failed.`,
	RunE: runFixUpCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runFixUpCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-fixup")

	if err := validateFixUpArgs(&fixUpOptions, args); err != nil {
		logger.Error("invalid fixup arguments", "error", err)
		return err
	}

	allowed, err := dataset.LoadAllowed(fixUpOptions.Dataset)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		return err
	}

	fixUp := &report.FixUp{
		Workdir:     config.GetWorkdir(AppConfig),
		Allowed:     allowed,
		FileVersion: config.GetTaintFileVersion(AppConfig),
		Processor:   results.NewProcessorFromConfig(AppConfig, logger),
		Logger:      logger,
		Progress:    cmd.ErrOrStderr(),
	}
	stats, err := fixUp.Run()
	logger.Info("fixup finished", "updated", stats.Updated, "unchanged", stats.Unchanged, "skipped", stats.Skipped, "failed", stats.Failed)
	if err != nil {
		logger.Error("fixup command failed", "error", err)
		return err
	}
	return nil
}

func init() {
	FixUpCmd.Flags().BoolP("help", "h", false, "Show help for the fixup command.")
	FixUpCmd.Flags().StringVar(&fixUpOptions.Dataset, "dataset", "", "Path to a dataset file restricting which reports are fixed up.")
}
