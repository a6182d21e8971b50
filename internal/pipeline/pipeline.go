package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/scan-io-git/class-pollution-detection/internal/analyzer"
	"github.com/scan-io-git/class-pollution-detection/internal/dataset"
	"github.com/scan-io-git/class-pollution-detection/internal/report"
	"github.com/scan-io-git/class-pollution-detection/internal/results"
	"github.com/scan-io-git/class-pollution-detection/internal/taint"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared"
	"github.com/scan-io-git/class-pollution-detection/pkg/shared/errors"
)

// Pipeline analyses every repository of a dataset and stores one report per repository.
type Pipeline struct {
	Workdir             string
	Dataset             *dataset.Config
	Analyzer            analyzer.Analyzer
	Processor           *results.Processor
	FileVersion         int
	ResolveDependencies bool
	Threads             int
	Logger              hclog.Logger

	now func() time.Time
}

// Prepare fills the source folder of a run before the analyzer is called.
type Prepare func(srcDir string) error

// Run analyses the dataset. Existing reports are reused instead of running the analyzer again.
// A failing repository produces an error report; only report write failures and
// cancellation are returned.
func (p *Pipeline) Run(ctx context.Context) ([]*report.Report, error) {
	if p.Logger == nil {
		p.Logger = hclog.NewNullLogger()
	}
	total := len(p.Dataset.Repos)
	threads := p.Threads
	if threads < 1 {
		threads = 1
	}
	p.Logger.Info("starting end-to-end pipeline", "total", total, "threads", threads)

	reports := make([]*report.Report, total)
	var (
		mu   sync.Mutex
		errs []error
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i, repo := range p.Dataset.Repos {
		i, repo := i, repo
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			r, err := p.runOne(gCtx, i, repo)
			reports[i] = r
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return compact(reports), err
	}
	return compact(reports), stderrors.Join(errs...)
}

func (p *Pipeline) runOne(ctx context.Context, i int, repo dataset.RepositoryConfig) (*report.Report, error) {
	path := report.Path(p.Workdir, repo.ID)
	if _, err := os.Stat(path); err == nil {
		existing, err := report.Read(path)
		if err == nil {
			p.Logger.Info("skipping analysis because report already exists", "id", repo.ID)
			return existing, nil
		}
		p.Logger.Error("failed to read existing report", "path", path, "error", err)
	}

	p.Logger.Info("analysing", "id", repo.ID, "#", i+1, "total", len(p.Dataset.Repos))
	r := p.Analyse(ctx, repo, nil)

	if err := r.Write(path); err != nil {
		p.Logger.Error("failed to save report", "id", repo.ID, "error", err)
		return r, fmt.Errorf("%s: %w", repo.ID, err)
	}
	p.Logger.Info("saved report", "id", repo.ID, "path", path)
	return r, nil
}

// Analyse runs a single repository and always returns a report: failures are recorded
// in the report with the stage they happened in. prepare may be nil when the analyzer
// fetches the source itself.
func (p *Pipeline) Analyse(ctx context.Context, repo dataset.RepositoryConfig, prepare Prepare) *report.Report {
	if p.Logger == nil {
		p.Logger = hclog.NewNullLogger()
	}
	start := time.Now()
	r, err := p.runRepo(ctx, repo, prepare)
	elapsed := uint64(time.Since(start).Seconds())

	if err != nil {
		stage := errors.StageAnalysis
		var pipelineErr *errors.PipelineError
		if stderrors.As(err, &pipelineErr) {
			stage = pipelineErr.Stage
		}
		p.Logger.Error("failed to analyse", "id", repo.ID, "stage", stage, "error", err)
		r = report.NewFailed(repo, stage, err)
	}
	r.ElapsedSeconds = &elapsed
	return r
}

func (p *Pipeline) runRepo(ctx context.Context, repo dataset.RepositoryConfig, prepare Prepare) (*report.Report, error) {
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	projectDir := filepath.Join(p.Workdir, report.AnalysisDir, fmt.Sprintf("%s.%d", repo.ID, now().UnixMilli()))
	srcDir := filepath.Join(projectDir, report.SrcDir)
	resultsDir := filepath.Join(projectDir, report.ResultsDir)

	if err := os.MkdirAll(srcDir, os.ModePerm); err != nil {
		return nil, errors.WithStage(errors.StageSetup, err)
	}
	if prepare != nil {
		if err := prepare(srcDir); err != nil {
			return nil, errors.WithStage(errors.StageSetup, err)
		}
	}

	resp, err := p.Analyzer.Analyze(ctx, p.request(repo, projectDir, srcDir, resultsDir))
	if err != nil {
		var pipelineErr *errors.PipelineError
		if !stderrors.As(err, &pipelineErr) {
			err = errors.WithStage(errors.StageAnalysis, err)
		}
		return nil, err
	}
	if resp.ResultsDir != "" {
		resultsDir = resp.ResultsDir
	}

	out, err := taint.ReadResultsDir(resultsDir, p.FileVersion)
	if err != nil {
		return nil, errors.WithStage(errors.StageProcessing, err)
	}
	processed := p.Processor.Process(out)

	r := report.New(repo)
	r.Warnings = append(r.Warnings, resp.Warnings...)
	r.RawIssueCount = processed.RawIssueCount
	r.Issues = append(r.Issues, processed.Issues...)
	r.ResolvedDependencies = append(r.ResolvedDependencies, resp.ResolvedDependencies...)

	if len(r.Issues) == 0 {
		// nothing to review, drop the extracted source
		if err := os.RemoveAll(srcDir); err != nil {
			return nil, errors.WithStage(errors.StageCleanup, err)
		}
	}
	return r, nil
}

func (p *Pipeline) request(repo dataset.RepositoryConfig, projectDir, srcDir, resultsDir string) shared.AnalyzerRequest {
	opts := dataset.ResolveDependenciesOpts{}
	if p.Dataset != nil {
		opts = p.Dataset.ResolveDependenciesOpts
	}
	return shared.AnalyzerRequest{
		ProjectID: repo.ID,
		Source: shared.ProjectSource{
			Kind:        repo.Src.Kind,
			FullName:    repo.Src.FullName,
			Rev:         repo.Src.Rev,
			Basedir:     repo.Src.Basedir,
			Name:        repo.Src.Name,
			Version:     repo.Src.Version,
			DownloadURL: repo.Src.DownloadURL,
			Filename:    repo.Src.Filename,
		},
		ProjectDir:           projectDir,
		SourceDir:            srcDir,
		ResultsDir:           resultsDir,
		ResolveDependencies:  p.ResolveDependencies,
		ExtraDependencies:    repo.ExtraDependencies,
		DenylistedPackages:   opts.DenylistedPackages,
		AdditionalWheelRepos: opts.AdditionalWheelRepos,
	}
}

func compact(reports []*report.Report) []*report.Report {
	out := make([]*report.Report, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
