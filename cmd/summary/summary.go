package summary

import (
	"github.com/spf13/cobra"

	"github.com/scan-io-git/class-pollution-detection/internal/dataset"
	"github.com/scan-io-git/class-pollution-detection/internal/summary"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/logger"
)

// RunOptionsSummary holds the arguments for the summary command.
type RunOptionsSummary struct {
	Dataset string
}

var (
	AppConfig           *config.Config
	summaryOptions      RunOptionsSummary
	exampleSummaryUsage = `  # Compiling summary.json from every stored report
  cpd summary

  # Compiling summary.json from the reports of a dataset
  cpd summary --dataset /path/to/dataset.toml`
)

// SummaryCmd represents the summary command.
var SummaryCmd = &cobra.Command{
	Use:                   "summary [--dataset PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleSummaryUsage,
	Short:                 "Compile summary.json from the stored reports",
	RunE:                  runSummaryCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runSummaryCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-summary")

	if err := validateSummaryArgs(&summaryOptions, args); err != nil {
		logger.Error("invalid summary arguments", "error", err)
		return err
	}

	allowed, err := dataset.LoadAllowed(summaryOptions.Dataset)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		return err
	}

	workdir := config.GetWorkdir(AppConfig)
	entries, err := summary.Compile(workdir, allowed, logger)
	if err != nil {
		logger.Error("failed to compile summary", "error", err)
		return err
	}
	path, err := summary.WriteJSON(workdir, entries)
	if err != nil {
		logger.Error("failed to write summary", "error", err)
		return err
	}

	logger.Info("wrote summary", "path", path, "entries", len(entries))
	return nil
}

func init() {
	SummaryCmd.Flags().BoolP("help", "h", false, "Show help for the summary command.")
	SummaryCmd.Flags().StringVar(&summaryOptions.Dataset, "dataset", "", "Path to a dataset file restricting which reports are summarised.")
}
