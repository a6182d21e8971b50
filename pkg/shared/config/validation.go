package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scan-io-git/class-pollution-detection/pkg/shared/files"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateLoggerConfig(&cfg.Logger); err != nil {
		return fmt.Errorf("YAML global config: logger directive is invalid: %w", err)
	}
	if err := ValidateCPDConfig(cfg); err != nil {
		return fmt.Errorf("YAML global config: cpd directive is invalid: %w", err)
	}
	if err := ValidateAnalyzerConfig(&cfg.Analyzer); err != nil {
		return fmt.Errorf("YAML global config: analyzer directive is invalid: %w", err)
	}
	if err := ValidateTaintConfig(&cfg.Taint); err != nil {
		return fmt.Errorf("YAML global config: taint directive is invalid: %w", err)
	}
	if err := ValidateLabelingConfig(&cfg.Labeling); err != nil {
		return fmt.Errorf("YAML global config: labeling directive is invalid: %w", err)
	}
	return nil
}

// ValidateLoggerConfig checks the log destination.
func ValidateLoggerConfig(logger *Logger) error {
	if logger == nil {
		return fmt.Errorf("logger configuration is nil")
	}
	switch strings.ToLower(logger.Output) {
	case "", LogOutputStdout, LogOutputStderr:
		return nil
	default:
		return fmt.Errorf("output must be %q or %q: %q", LogOutputStdout, LogOutputStderr, logger.Output)
	}
}

// ValidateCPDConfig resolves the tool folders from environment variables or defaults and creates them.
func ValidateCPDConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("cpd configuration is nil")
	}
	if err := updateHome(cfg); err != nil {
		return fmt.Errorf("failed to update home folder: %w", err)
	}
	if err := updateFolder(&cfg.CPD.Workdir, "CPD_WORKDIR", "work", cfg); err != nil {
		return fmt.Errorf("failed to update workdir: %w", err)
	}
	if err := updateFolder(&cfg.CPD.PluginsFolder, "CPD_PLUGINS_FOLDER", "plugins", cfg); err != nil {
		return fmt.Errorf("failed to update plugins folder: %w", err)
	}
	return nil
}

// ValidateAnalyzerConfig checks the analyzer plugin settings.
func ValidateAnalyzerConfig(analyzer *Analyzer) error {
	if analyzer == nil {
		return fmt.Errorf("analyzer configuration is nil")
	}
	if err := validateDuration(analyzer.Timeout, "timeout", 24*time.Hour); err != nil {
		return err
	}
	if analyzer.Threads < 0 {
		return fmt.Errorf("threads must be a positive integer: %d", analyzer.Threads)
	}
	return nil
}

// ValidateTaintConfig checks the taint output settings.
func ValidateTaintConfig(taint *Taint) error {
	if taint == nil {
		return fmt.Errorf("taint configuration is nil")
	}
	if taint.FileVersion < 0 {
		return fmt.Errorf("file_version cannot be negative: %d", taint.FileVersion)
	}
	for _, feature := range taint.UnreliableFeatures {
		if feature == "" {
			return fmt.Errorf("unreliable_features cannot contain empty values")
		}
	}
	return nil
}

// ValidateLabelingConfig checks the labeling session settings.
func ValidateLabelingConfig(labeling *Labeling) error {
	if labeling == nil {
		return fmt.Errorf("labeling configuration is nil")
	}
	if labeling.ContextBefore < 0 || labeling.ContextAfter < 0 {
		return fmt.Errorf("context lines cannot be negative: before=%d, after=%d", labeling.ContextBefore, labeling.ContextAfter)
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// updateHome updates the HomeFolder in the config from environment variables or sets a default value.
func updateHome(cfg *Config) error {
	if homeFolder := os.Getenv("CPD_HOME"); homeFolder != "" {
		cfg.CPD.HomeFolder = homeFolder
	} else if cfg.CPD.HomeFolder == "" {
		homeFolder, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to get user home folder: %w", err)
		}
		cfg.CPD.HomeFolder = filepath.Join(homeFolder, ".cpd")
	}

	expandedHomePath, err := files.ExpandPath(cfg.CPD.HomeFolder)
	if err != nil {
		return fmt.Errorf("failed to expand new home path %q: %w", cfg.CPD.HomeFolder, err)
	}
	cfg.CPD.HomeFolder = expandedHomePath

	if err := files.CreateFolderIfNotExists(expandedHomePath); err != nil {
		return fmt.Errorf("failed to create home folder %q: %w", cfg.CPD.HomeFolder, err)
	}
	return nil
}

// updateFolder updates a folder path in the configuration.
func updateFolder(folder *string, envVar, defaultSubFolder string, cfg *Config) error {
	if envVarValue := os.Getenv(envVar); envVarValue != "" {
		*folder = envVarValue
	} else if *folder == "" {
		*folder = filepath.Join(GetHome(cfg), defaultSubFolder)
	}

	expandedPath, err := files.ExpandPath(*folder)
	if err != nil {
		return fmt.Errorf("failed to expand path %q: %w", *folder, err)
	}
	*folder = expandedPath

	if err := files.CreateFolderIfNotExists(expandedPath); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", expandedPath, err)
	}
	return nil
}
