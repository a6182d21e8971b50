package analyse

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

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

// RunOptionsAnalyse holds the arguments for the analyse command.
type RunOptionsAnalyse struct {
	Plugin              string
	Name                string
	ResolveDependencies bool
	SarifPath           string
}

// Global variables for configuration and command arguments
var (
	AppConfig           *config.Config
	analyseOptions      RunOptionsAnalyse
	exampleAnalyseUsage = `  # Analysing a local project with the default analyzer plugin
  cpd analyse /path/to/my_project

  # Analysing a local project with its dependencies installed first
  cpd analyse --resolve-deps /path/to/my_project

  # Analysing a local project and exporting the issues as SARIF
  cpd analyse --sarif /path/to/results.sarif /path/to/my_project

  # Analysing with a specific analyzer plugin and analysis name
  cpd analyse --plugin pysa --name my_project /path/to/my_project`
)

// AnalyseCmd represents the analyse command.
var AnalyseCmd = &cobra.Command{
	Use:                   "analyse [--plugin/-p PLUGIN_NAME] [--name NAME] [--resolve-deps] [--sarif PATH] PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleAnalyseUsage,
	Short:                 "Analyse a single local project and print its class pollution issues",
	RunE:                  runAnalyseCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
	AnalyseCmd.Long = generateLongDescription(AppConfig)
}

// runAnalyseCommand executes the analyse command.
func runAnalyseCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-analyse")

	if err := validateAnalyseArgs(&analyseOptions, args); err != nil {
		logger.Error("invalid analyse arguments", "error", err)
		return err
	}
	targetPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve target path: %w", err)
	}

	repo := localRepository(targetPath, analyseOptions.Name)
	p := &pipeline.Pipeline{
		Workdir:             config.GetWorkdir(AppConfig),
		Analyzer:            analyzer.New(AppConfig, analyseOptions.Plugin, logger),
		Processor:           results.NewProcessorFromConfig(AppConfig, logger),
		FileVersion:         config.GetTaintFileVersion(AppConfig),
		ResolveDependencies: analyseOptions.ResolveDependencies,
		Logger:              logger,
	}

	r := p.Analyse(cmd.Context(), repo, func(srcDir string) error {
		return files.CopyDir(targetPath, srcDir)
	})
	if r.ErrorStage != nil {
		err := fmt.Errorf("analysis failed in %s stage: %s", *r.ErrorStage, strings.Join(r.Errors, "; "))
		logger.Error("analyse command failed", "error", err)
		return err
	}
	for _, warning := range r.Warnings {
		logger.Warn("analyzer warning", "warning", warning)
	}

	processed := &results.ProcessedResults{RawIssueCount: r.RawIssueCount, Issues: r.Issues}
	fmt.Fprintln(cmd.OutOrStdout(), processed.Summarise())

	if analyseOptions.SarifPath != "" {
		if err := results.WriteSARIFFile(analyseOptions.SarifPath, processed); err != nil {
			logger.Error("failed to write SARIF report", "error", err)
			return err
		}
		logger.Info("SARIF report written", "path", analyseOptions.SarifPath)
	}

	logger.Info("analyse command completed successfully")
	return nil
}

// localRepository describes a folder on disk the way dataset repositories are described.
func localRepository(path, name string) dataset.RepositoryConfig {
	if name == "" {
		name = filepath.Base(path)
	}
	return dataset.RepositoryConfig{
		ID:  name,
		Src: dataset.RepositorySrc{Kind: dataset.SourceLocal, Name: name},
	}
}

// generateLongDescription generates the long description dynamically with the list of available analyzer plugins.
func generateLongDescription(AppConfig *config.Config) string {
	pluginsMeta := shared.GetPluginVersions(config.GetPluginsHome(AppConfig), shared.PluginTypeAnalyzer)
	var plugins []string
	for plugin := range pluginsMeta {
		plugins = append(plugins, plugin)
	}
	sort.Strings(plugins)
	return fmt.Sprintf(`Copies a local project into the working directory, runs the analyzer plugin over it
and prints the found class pollution issues grouped by classification.

List of available analyzer plugins:
  %s`, strings.Join(plugins, "\n  "))
}

// Initialize flags for the analyse command.
func init() {
	AnalyseCmd.Flags().BoolP("help", "h", false, "Show help for the analyse command.")
	AnalyseCmd.Flags().StringVarP(&analyseOptions.Plugin, "plugin", "p", "", "Name of the analyzer plugin to use (defaults to analyzer.plugin from the config).")
	AnalyseCmd.Flags().StringVar(&analyseOptions.Name, "name", "", "Name of the analysis folder (defaults to the project folder name).")
	AnalyseCmd.Flags().BoolVar(&analyseOptions.ResolveDependencies, "resolve-deps", false, "Install the project dependencies before analysing.")
	AnalyseCmd.Flags().StringVar(&analyseOptions.SarifPath, "sarif", "", "File or folder to write the issues as a SARIF report to.")
}
