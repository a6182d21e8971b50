package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scan-io-git/class-pollution-detection/pkg/shared/files"
)

const (
	pyreConfigurationFile = ".pyre_configuration"
	taintModelsDir        = "taint-models"
	taintConfigFile       = "taint.config"
	modelsFile            = "default.pysa"

	classPollutionCode = 6065
)

// pyreConfiguration is the project-level .pyre_configuration.
type pyreConfiguration struct {
	SitePackageSearchStrategy string   `json:"site_package_search_strategy"`
	SourceDirectories         []string `json:"source_directories"`
	TaintModelsPath           []string `json:"taint_models_path"`
	SiteRoots                 []string `json:"site_roots"`
}

type taintConfig struct {
	Sources  []taintEntry `json:"sources"`
	Sinks    []taintEntry `json:"sinks"`
	Features []taintEntry `json:"features"`
	Rules    []taintRule  `json:"rules"`
	Options  taintOptions `json:"options"`
}

type taintEntry struct {
	Name string `json:"name"`
}

type taintRule struct {
	Name          string   `json:"name"`
	Code          int      `json:"code"`
	Sources       []string `json:"sources"`
	Sinks         []string `json:"sinks"`
	MessageFormat string   `json:"message_format"`
}

type taintOptions struct {
	MaximumOverridesToAnalyze int `json:"maximum_overrides_to_analyze"`
	MaximumTraceLength        int `json:"maximum_trace_length"`
}

// defaultModels taints attribute lookups with a user controlled name and marks every
// hop through getattr so the core can count them.
const defaultModels = `def getattr(
    __o: TaintInTaintOut[LocalReturn, Via[customgetattr]],
    __name: TaintSource[UserControlled],
    __default = ...,
): ...

def setattr(
    __obj: TaintSink[AttributeWrite],
    __name: TaintSink[AttributeWrite],
    __value: TaintSink[AttributeWrite],
): ...
`

func defaultPyreConfiguration() pyreConfiguration {
	return pyreConfiguration{
		SitePackageSearchStrategy: "none",
		SourceDirectories:         []string{"src"},
		TaintModelsPath:           []string{taintModelsDir},
		SiteRoots:                 []string{},
	}
}

func defaultTaintConfig() taintConfig {
	return taintConfig{
		Sources:  []taintEntry{{Name: "UserControlled"}},
		Sinks:    []taintEntry{{Name: "AttributeWrite"}},
		Features: []taintEntry{{Name: "customgetattr"}},
		Rules: []taintRule{{
			Name:          "Class pollution",
			Code:          classPollutionCode,
			Sources:       []string{"UserControlled"},
			Sinks:         []string{"AttributeWrite"},
			MessageFormat: "Attribute chain controlled by {$sources} reaches an attribute write",
		}},
		Options: taintOptions{
			MaximumOverridesToAnalyze: 60,
			MaximumTraceLength:        20,
		},
	}
}

// writePyreSetup writes the pyre configuration, taint config and models into projectDir.
func writePyreSetup(projectDir string) error {
	if err := writeJSON(filepath.Join(projectDir, pyreConfigurationFile), defaultPyreConfiguration()); err != nil {
		return err
	}

	modelsDir := filepath.Join(projectDir, taintModelsDir)
	if err := files.CreateFolderIfNotExists(modelsDir); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(modelsDir, taintConfigFile), defaultTaintConfig()); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(modelsDir, modelsFile), []byte(defaultModels), 0o644); err != nil {
		return fmt.Errorf("failed to write taint models: %w", err)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %q: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}
