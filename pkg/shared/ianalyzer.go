package shared

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// Analyzer is implemented by analyzer plugins. A plugin prepares the project source,
// resolves its dependencies and runs the taint analyzer, leaving the raw
// taint output in the requested results folder.
type Analyzer interface {
	Analyze(req AnalyzerRequest) (AnalyzerResponse, error)
}

// ProjectSource tells the plugin where the project comes from.
// Kind is "github", "pypi" or "local"; for "local" SourceDir is already populated.
type ProjectSource struct {
	Kind        string
	FullName    string
	Rev         string
	Basedir     string
	Name        string
	Version     string
	DownloadURL string
	Filename    string
}

// AnalyzerRequest represents a single analysis request.
type AnalyzerRequest struct {
	ProjectID            string        // Identifier of the project in the dataset
	Source               ProjectSource // Where the project source comes from
	ProjectDir           string        // Analysis folder of this run
	SourceDir            string        // Folder the project source is extracted to
	ResultsDir           string        // Folder the raw analyzer output is written to
	ResolveDependencies  bool          // Whether to install dependencies before analysing
	ExtraDependencies    []string      // Additional packages to install
	DenylistedPackages   []string      // Packages never installed
	AdditionalWheelRepos []string      // Extra wheel repositories
}

// PipPackage is a resolved dependency of an analysed project.
type PipPackage struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// AnalyzerResponse carries the outcome of an analysis.
// A failed analysis sets Error and FailedStage instead of returning an RPC error,
// so the stage survives the plugin boundary.
type AnalyzerResponse struct {
	ResultsDir           string
	Warnings             []string
	ResolvedDependencies []PipPackage
	FailedStage          string
	Error                string
}

type AnalyzerRPCClient struct{ client *rpc.Client }

func (g *AnalyzerRPCClient) Analyze(req AnalyzerRequest) (AnalyzerResponse, error) {
	var resp AnalyzerResponse

	err := g.client.Call("Plugin.Analyze", req, &resp)
	if err != nil {
		return resp, err
	}

	return resp, nil
}

type AnalyzerRPCServer struct {
	Impl Analyzer
}

func (s *AnalyzerRPCServer) Analyze(args AnalyzerRequest, resp *AnalyzerResponse) error {
	var err error
	*resp, err = s.Impl.Analyze(args)
	return err
}

type AnalyzerPlugin struct {
	Impl Analyzer
}

func (p *AnalyzerPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &AnalyzerRPCServer{Impl: p.Impl}, nil
}

func (AnalyzerPlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &AnalyzerRPCClient{client: c}, nil
}
