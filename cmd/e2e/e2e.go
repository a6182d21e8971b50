package e2e

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/class-pollution-detection/internal/analyzer"
	"github.com/scan-io-git/class-pollution-detection/internal/dataset"
	"github.com/scan-io-git/class-pollution-detection/internal/pipeline"
	"github.com/scan-io-git/class-pollution-detection/internal/results"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/files"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/logger"
)

// SummaryFileName is the markdown digest written next to the reports.
const SummaryFileName = "summary.md"

// RunOptionsE2E holds the arguments for the e2e command.
type RunOptionsE2E struct {
	Plugin              string
	Threads             int
	ResolveDependencies bool
}

var (
	AppConfig       *config.Config
	e2eOptions      RunOptionsE2E
	exampleE2EUsage = `  # Analysing every repository of a dataset
  cpd e2e /path/to/dataset.toml

  # Analysing a dataset with dependency resolution on 4 concurrent workers
  cpd e2e --resolve-deps -j 4 /path/to/dataset.toml

  # Analysing a dataset into a dedicated working directory
  cpd --workdir /data/cpd-run e2e /path/to/dataset.toml`
)

// E2ECmd represents the e2e command.
var E2ECmd = &cobra.Command{
	Use:                   "e2e [--plugin/-p PLUGIN_NAME] [-j THREADS_NUMBER] [--resolve-deps] DATASET",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleE2EUsage,
	Short:                 "Analyse every repository of a dataset and store one report per repository",
	Long: `Analyses every repository of a TOML dataset. Repositories that already have a report in the
working directory are not analysed again. A markdown digest of all reports is written to
summary.md in the working directory.`,
	RunE: runE2ECommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runE2ECommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-e2e")

	if err := validateE2EArgs(&e2eOptions, args); err != nil {
		logger.Error("invalid e2e arguments", "error", err)
		return err
	}

	ds, err := dataset.Load(args[0])
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		return err
	}

	threads := e2eOptions.Threads
	if !cmd.Flags().Changed("threads") {
		threads = config.GetAnalyzerThreads(AppConfig)
	}

	workdir := config.GetWorkdir(AppConfig)
	p := &pipeline.Pipeline{
		Workdir:             workdir,
		Dataset:             ds,
		Analyzer:            analyzer.New(AppConfig, e2eOptions.Plugin, logger),
		Processor:           results.NewProcessorFromConfig(AppConfig, logger),
		FileVersion:         config.GetTaintFileVersion(AppConfig),
		ResolveDependencies: e2eOptions.ResolveDependencies,
		Threads:             threads,
		Logger:              logger,
	}

	reports, runErr := p.Run(cmd.Context())

	summary := pipeline.GenerateSummary(reports)
	summaryPath := filepath.Join(workdir, SummaryFileName)
	if err := files.WriteFileAtomic(summaryPath, []byte(summary), 0o644); err != nil {
		logger.Error("failed to write summary", "path", summaryPath, "error", err)
	} else {
		logger.Info("wrote summary", "path", summaryPath)
	}
	fmt.Fprint(cmd.OutOrStdout(), summary)

	if runErr != nil {
		logger.Error("e2e command failed", "error", runErr)
		return runErr
	}

	logger.Info("e2e command completed successfully", "reports", len(reports))
	return nil
}

func init() {
	E2ECmd.Flags().BoolP("help", "h", false, "Show help for the e2e command.")
	E2ECmd.Flags().StringVarP(&e2eOptions.Plugin, "plugin", "p", "", "Name of the analyzer plugin to use (defaults to analyzer.plugin from the config).")
	E2ECmd.Flags().IntVarP(&e2eOptions.Threads, "threads", "j", 1, "Number of repositories analysed concurrently (defaults to analyzer.threads from the config).")
	E2ECmd.Flags().BoolVar(&e2eOptions.ResolveDependencies, "resolve-deps", false, "Install the dependencies of every repository before analysing.")
}
