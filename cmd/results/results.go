package results

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/class-pollution-detection/internal/results"
	"github.com/scan-io-git/class-pollution-detection/internal/taint"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/errors"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/logger"
)

// ExitVersionMismatch is returned when the analyzer output has an unsupported file version.
const ExitVersionMismatch = 2

// RunOptionsResults holds the arguments for the results command.
type RunOptionsResults struct {
	SarifPath string
}

var (
	AppConfig           *config.Config
	resultsOptions      RunOptionsResults
	exampleResultsUsage = `  # Re-processing the raw output of an analysis
  cpd results /path/to/workdir/analysis/flask.1700000000000/pysa-results

  # Re-processing raw output and exporting the issues as SARIF
  cpd results --sarif /path/to/results.sarif /path/to/pysa-results`
)

// ResultsCmd represents the results command.
var ResultsCmd = &cobra.Command{
	Use:                   "results [--sarif PATH] RESULTS_DIR",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleResultsUsage,
	Short:                 "Process raw analyzer output and print the found issues",
	Long: `Parses taint-output.json from a results directory, reconstructs the issue traces and prints
them grouped by classification. Nothing in the working directory is modified.`,
	RunE: runResultsCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runResultsCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-results")

	if err := validateResultsArgs(&resultsOptions, args); err != nil {
		logger.Error("invalid results arguments", "error", err)
		return err
	}

	out, err := taint.ReadResultsDir(args[0], config.GetTaintFileVersion(AppConfig))
	if err != nil {
		logger.Error("failed to parse results", "error", err)
		var mismatch *errors.VersionMismatchError
		if stderrors.As(err, &mismatch) {
			return errors.NewCommandError(err, ExitVersionMismatch)
		}
		return err
	}

	processed := results.NewProcessorFromConfig(AppConfig, logger).Process(out)
	logger.Info("processed results", "raw", processed.RawIssueCount, "kept", len(processed.Issues))
	fmt.Fprintf(cmd.OutOrStdout(), "Summary:\n%s", processed.Summarise())

	if resultsOptions.SarifPath != "" {
		if err := results.WriteSARIFFile(resultsOptions.SarifPath, processed); err != nil {
			logger.Error("failed to write SARIF report", "error", err)
			return err
		}
		logger.Info("SARIF report written", "path", resultsOptions.SarifPath)
	}
	return nil
}

func init() {
	ResultsCmd.Flags().BoolP("help", "h", false, "Show help for the results command.")
	ResultsCmd.Flags().StringVar(&resultsOptions.SarifPath, "sarif", "", "File or folder to write the issues as a SARIF report to.")
}
