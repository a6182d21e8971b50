package label

import (
	"github.com/spf13/cobra"

	"github.com/scan-io-git/class-pollution-detection/internal/dataset"
	"github.com/scan-io-git/class-pollution-detection/internal/labeling"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/config"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/logger"
)

// RunOptionsLabel holds the arguments for the label command.
type RunOptionsLabel struct {
	Dataset       string
	ContextBefore int
	ContextAfter  int
}

var (
	AppConfig         *config.Config
	labelOptions      RunOptionsLabel
	exampleLabelUsage = `  # Labeling every unlabeled issue of the working directory
  cpd label

  # Labeling only the repositories of a dataset
  cpd label --dataset /path/to/dataset.toml

  # Labeling with less source context around the trace
  cpd label --context-before 10 --context-after 5`
)

// LabelCmd represents the label command.
var LabelCmd = &cobra.Command{
	Use:                   "label [--dataset PATH] [--context-before LINES] [--context-after LINES]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleLabelUsage,
	Short:                 "Interactively label the unlabeled issues of stored reports",
	Long: `Shows every unlabeled issue over the analysed source and asks for a verdict. Reports are
saved as soon as all issues of a project were prompted; aborting keeps what was labeled so far.`,
	RunE: runLabelCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runLabelCommand(cmd *cobra.Command, args []string) error {
	logger := logger.NewLogger(AppConfig, "core-label")

	if err := validateLabelArgs(cmd, &labelOptions, args); err != nil {
		logger.Error("invalid label arguments", "error", err)
		return err
	}

	allowed, err := dataset.LoadAllowed(labelOptions.Dataset)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		return err
	}

	session := &labeling.Session{
		Workdir:  config.GetWorkdir(AppConfig),
		Allowed:  allowed,
		Prompter: labeling.FormPrompter{},
		Renderer: &labeling.Renderer{Before: labelOptions.ContextBefore, After: labelOptions.ContextAfter},
		Out:      cmd.OutOrStdout(),
		Logger:   logger,
	}
	if err := session.PromptUnlabeled(); err != nil {
		logger.Error("label command failed", "error", err)
		return err
	}
	return nil
}

func init() {
	LabelCmd.Flags().BoolP("help", "h", false, "Show help for the label command.")
	LabelCmd.Flags().StringVar(&labelOptions.Dataset, "dataset", "", "Path to a dataset file restricting which reports are labeled.")
	LabelCmd.Flags().IntVar(&labelOptions.ContextBefore, "context-before", 0, "Source lines shown before the trace (defaults to labeling.context_before from the config).")
	LabelCmd.Flags().IntVar(&labelOptions.ContextAfter, "context-after", 0, "Source lines shown after the trace (defaults to labeling.context_after from the config).")
}
