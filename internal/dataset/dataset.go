package dataset

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Source kinds of a repository.
const (
	SourceGitHub = "github"
	SourcePyPI   = "pypi"
	SourceLocal  = "local" // a folder on disk, analysed by the analyse command only
)

// Config is the dataset description read from a TOML file.
type Config struct {
	ResolveDependenciesOpts ResolveDependenciesOpts `toml:"resolve_dependencies_opts"`
	Repos                   []RepositoryConfig      `toml:"repos"`
}

// ResolveDependenciesOpts tunes dependency installation for every repository.
type ResolveDependenciesOpts struct {
	DenylistedPackages   []string `toml:"denylisted_packages" json:"denylisted_packages,omitempty"`
	AdditionalWheelRepos []string `toml:"additional_wheel_repos" json:"additional_wheel_repos,omitempty"`
}

// RepositoryConfig describes one project of the dataset. It is copied verbatim into reports.
type RepositoryConfig struct {
	ID                string         `toml:"id" json:"id"`
	Src               RepositorySrc  `toml:"src" json:"src"`
	ExtraDependencies []string       `toml:"extra_dependencies" json:"extra_dependencies"`
	Meta              RepositoryMeta `toml:"meta" json:"meta"`
}

// RepositorySrc tells where the project is downloaded from. Kind selects the used fields:
// FullName, Rev and Basedir for GitHub; Name, Version, DownloadURL and Filename for PyPI.
type RepositorySrc struct {
	Kind        string `toml:"kind" json:"kind"`
	FullName    string `toml:"full_name,omitempty" json:"full_name,omitempty"`
	Rev         string `toml:"rev,omitempty" json:"rev,omitempty"`
	Basedir     string `toml:"basedir,omitempty" json:"basedir,omitempty"`
	Name        string `toml:"name,omitempty" json:"name,omitempty"`
	Version     string `toml:"version,omitempty" json:"version,omitempty"`
	DownloadURL string `toml:"download_url,omitempty" json:"download_url,omitempty"`
	Filename    string `toml:"filename,omitempty" json:"filename,omitempty"`
}

type RepositoryMeta struct {
	RepoURL   *string `toml:"repo_url" json:"repo_url"`
	Stars     *uint32 `toml:"stars" json:"stars"`
	Downloads *uint32 `toml:"downloads" json:"downloads"`
	Homepage  *string `toml:"homepage" json:"homepage"`
}

// Load reads and validates the dataset at path.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %q: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dataset %q is invalid: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that repository ids are unique and usable as file names,
// and that each source carries the fields its kind requires.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Repos))
	for i, repo := range c.Repos {
		if repo.ID == "" {
			return fmt.Errorf("repos[%d]: id is required", i)
		}
		if strings.ContainsAny(repo.ID, `/\`) {
			return fmt.Errorf("repos[%d]: id %q must not contain path separators", i, repo.ID)
		}
		if _, ok := seen[repo.ID]; ok {
			return fmt.Errorf("repos[%d]: duplicate id %q", i, repo.ID)
		}
		seen[repo.ID] = struct{}{}

		if err := repo.Src.validate(); err != nil {
			return fmt.Errorf("repos[%d] (%s): %w", i, repo.ID, err)
		}
	}
	return nil
}

func (s RepositorySrc) validate() error {
	switch s.Kind {
	case SourceGitHub:
		if s.FullName == "" || s.Rev == "" {
			return fmt.Errorf("github source requires full_name and rev")
		}
	case SourcePyPI:
		if s.DownloadURL == "" || s.Filename == "" {
			return fmt.Errorf("pypi source requires download_url and filename")
		}
	default:
		return fmt.Errorf("unknown source kind %q", s.Kind)
	}
	return nil
}

// AllowedRepos restricts batch operations to a set of repository ids.
// The zero value allows everything.
type AllowedRepos struct {
	ids      []string
	filtered bool
}

// AllowAll returns a filter accepting every id.
func AllowAll() AllowedRepos {
	return AllowedRepos{}
}

// AllowOnly returns a filter accepting only ids.
func AllowOnly(ids []string) AllowedRepos {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return AllowedRepos{ids: sorted, filtered: true}
}

// AllowedFrom accepts the repositories of cfg, or everything when cfg is nil.
func AllowedFrom(cfg *Config) AllowedRepos {
	if cfg == nil {
		return AllowAll()
	}
	ids := make([]string, 0, len(cfg.Repos))
	for _, repo := range cfg.Repos {
		ids = append(ids, repo.ID)
	}
	return AllowOnly(ids)
}

// LoadAllowed restricts to the repositories of the dataset at path. An empty path allows everything.
func LoadAllowed(path string) (AllowedRepos, error) {
	if path == "" {
		return AllowAll(), nil
	}
	cfg, err := Load(path)
	if err != nil {
		return AllowedRepos{}, err
	}
	return AllowedFrom(cfg), nil
}

func (a AllowedRepos) IsAllowed(id string) bool {
	if !a.filtered {
		return true
	}
	i := sort.SearchStrings(a.ids, id)
	return i < len(a.ids) && a.ids[i] == id
}

// DisplayName returns the name the project is known by on its platform.
func (r RepositoryConfig) DisplayName() string {
	if r.Src.Kind == SourceGitHub {
		return r.Src.FullName
	}
	return r.Src.Name
}
