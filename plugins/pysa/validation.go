package main

import (
	"fmt"

	"github.com/scan-io-git/class-pollution-detection/pkg/shared"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/files"
)

// validateAnalyze checks the necessary fields in AnalyzerRequest and returns errors if they are not set.
// Only already extracted sources are supported: fetching is left to other plugins.
func (g *AnalyzerPysa) validateAnalyze(req *shared.AnalyzerRequest) error {
	if req.ProjectDir == "" || req.SourceDir == "" || req.ResultsDir == "" {
		return fmt.Errorf("project, source and results folders must be set")
	}
	if req.Source.Kind != "local" {
		return fmt.Errorf("source kind %q is not supported by the pysa plugin, only local sources are", req.Source.Kind)
	}
	if err := files.CreateFolderIfNotExists(req.ResultsDir); err != nil {
		return err
	}
	return nil
}
