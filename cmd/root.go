package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/class-pollution-detection/cmd/analyse"
	"github.com/scan-io-git/class-pollution-detection/cmd/e2e"
	"github.com/scan-io-git/class-pollution-detection/cmd/fixup"
	"github.com/scan-io-git/class-pollution-detection/cmd/label"
	"github.com/scan-io-git/class-pollution-detection/cmd/results"
	"github.com/scan-io-git/class-pollution-detection/cmd/summary"
	"github.com/scan-io-git/class-pollution-detection/cmd/version"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/errors"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/files"
)

var (
	cfgFile   string
	workdir   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "cpd [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "cpd detects class pollution in Python projects.",
		Long: `cpd runs a taint analyzer over Python projects, reconstructs the traces of class pollution
	issues from its output, classifies them and keeps per-project reports for manual labeling.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.PersistentFlags().StringVar(&workdir, "workdir", "", "working directory holding analysis folders and reports (overrides cpd.workdir)")

	rootCmd.AddCommand(analyse.AnalyseCmd)
	rootCmd.AddCommand(e2e.E2ECmd)
	rootCmd.AddCommand(results.ResultsCmd)
	rootCmd.AddCommand(label.LabelCmd)
	rootCmd.AddCommand(fixup.FixUpCmd)
	rootCmd.AddCommand(summary.SummaryCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)

		var cmdErr *errors.CommandError
		if stderrors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("initializing config file function is crashed - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	// the flag wins over both the config file and CPD_WORKDIR
	if workdir != "" {
		if err := overrideWorkdir(AppConfig, workdir); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	analyse.Init(AppConfig)
	e2e.Init(AppConfig)
	results.Init(AppConfig)
	label.Init(AppConfig)
	fixup.Init(AppConfig)
	summary.Init(AppConfig)
	version.Init(AppConfig)
}

func overrideWorkdir(cfg *config.Config, path string) error {
	expanded, err := files.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("failed to expand workdir %q: %w", path, err)
	}
	if err := files.CreateFolderIfNotExists(expanded); err != nil {
		return fmt.Errorf("failed to create workdir %q: %w", expanded, err)
	}
	cfg.CPD.Workdir = expanded
	return nil
}
