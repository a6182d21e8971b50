package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v2"
)

const (
	DefaultAnalyzerPlugin   = "pysa"
	DefaultTaintFileVersion = 3
	DefaultSourceFeature    = "customgetattr"
	DefaultContextBefore    = 100
	DefaultContextAfter     = 50
)

// DefaultUnreliableFeatures lists the analyzer features that mark an issue as indirect:
// taint broadened through an unresolved callee, or taint passing an obscure (unmodeled) function.
var DefaultUnreliableFeatures = []string{"obscure:unknown-callee", "obscure:model"}

type Config struct {
	Logger   Logger   `yaml:"logger"`
	CPD      CPD      `yaml:"cpd"`
	Analyzer Analyzer `yaml:"analyzer"`
	Taint    Taint    `yaml:"taint"`
	Labeling Labeling `yaml:"labeling"`
}

// Logger selects the level, destination and format of the tool logs.
type Logger struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"` // stdout (default) or stderr
	JSON   bool   `yaml:"json"`
}

const (
	LogOutputStdout = "stdout"
	LogOutputStderr = "stderr"
)

// CPD holds the folders used by the tool.
type CPD struct {
	HomeFolder    string `yaml:"home_folder"`
	Workdir       string `yaml:"workdir"`
	PluginsFolder string `yaml:"plugins_folder"`
}

// Analyzer describes how the external taint analyzer plugin is launched.
type Analyzer struct {
	Plugin  string        `yaml:"plugin"`
	Timeout time.Duration `yaml:"timeout"`
	Threads int           `yaml:"threads"`
}

// Taint tunes how the analyzer output is parsed and classified.
type Taint struct {
	FileVersion        int      `yaml:"file_version"`
	SourceFeature      string   `yaml:"source_feature"`
	UnreliableFeatures []string `yaml:"unreliable_features"`
}

type Labeling struct {
	ContextBefore int `yaml:"context_before"`
	ContextAfter  int `yaml:"context_after"`
}

func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

func NewConfig(configPath string) (*Config, error) {
	config := &Config{}

	if err := LoadYAML(configPath, config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfig reads the YAML config at configPath. A missing file is not an error:
// an empty configuration is returned and defaults are applied during validation.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return NewConfig(configPath)
}

// GetHome returns the home folder of the tool.
func GetHome(cfg *Config) string {
	if cfg == nil || cfg.CPD.HomeFolder == "" {
		return filepath.Join(os.TempDir(), ".cpd")
	}
	return cfg.CPD.HomeFolder
}

// GetWorkdir returns the folder that holds reports, analysis directories and summaries.
func GetWorkdir(cfg *Config) string {
	if cfg == nil || cfg.CPD.Workdir == "" {
		return filepath.Join(GetHome(cfg), "work")
	}
	return cfg.CPD.Workdir
}

// GetPluginsHome returns the folder with analyzer plugin binaries.
func GetPluginsHome(cfg *Config) string {
	if cfg == nil || cfg.CPD.PluginsFolder == "" {
		return filepath.Join(GetHome(cfg), "plugins")
	}
	return cfg.CPD.PluginsFolder
}

// GetTaintFileVersion returns the analyzer output version this build accepts.
func GetTaintFileVersion(cfg *Config) int {
	if cfg == nil {
		return DefaultTaintFileVersion
	}
	return SetThen(cfg.Taint.FileVersion, DefaultTaintFileVersion)
}

func GetSourceFeature(cfg *Config) string {
	if cfg == nil {
		return DefaultSourceFeature
	}
	return SetThen(cfg.Taint.SourceFeature, DefaultSourceFeature)
}

func GetUnreliableFeatures(cfg *Config) []string {
	if cfg == nil || cfg.Taint.UnreliableFeatures == nil {
		return DefaultUnreliableFeatures
	}
	return cfg.Taint.UnreliableFeatures
}

func GetAnalyzerPlugin(cfg *Config) string {
	if cfg == nil {
		return DefaultAnalyzerPlugin
	}
	return SetThen(cfg.Analyzer.Plugin, DefaultAnalyzerPlugin)
}

func GetAnalyzerThreads(cfg *Config) int {
	if cfg == nil {
		return 1
	}
	return SetThen(cfg.Analyzer.Threads, 1)
}

// GetContextLines returns how many source lines are shown before and after labelled code.
func GetContextLines(cfg *Config) (int, int) {
	if cfg == nil {
		return DefaultContextBefore, DefaultContextAfter
	}
	return SetThen(cfg.Labeling.ContextBefore, DefaultContextBefore), SetThen(cfg.Labeling.ContextAfter, DefaultContextAfter)
}
