// Package app provides the dependency injection container for the application.
package app

import (
	"io"
	"os"

	"github.com/runoshun/tissue/internal/domain"
	"github.com/runoshun/tissue/internal/infra/config"
	"github.com/runoshun/tissue/internal/infra/csvsource"
	"github.com/runoshun/tissue/internal/infra/github"
	"github.com/runoshun/tissue/internal/infra/gitremote"
	"github.com/runoshun/tissue/internal/infra/logging"
	"github.com/runoshun/tissue/internal/infra/projects"
	"github.com/runoshun/tissue/internal/infra/report"
	"github.com/runoshun/tissue/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	WorkDir string // Directory tissue was started from; holds .tissue.toml
}

// APIFactory creates a GitHub client for a token.
type APIFactory func(token string, cfg domain.GitHubConfig) (domain.GitHubAPI, error)

// RunOptions configures the logger for a single run.
// Fields are ordered to minimize memory padding.
type RunOptions struct {
	Console io.Writer
	RunID   string
	Verbose bool
	Quiet   bool
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Clock         domain.Clock
	Records       domain.RecordSource
	Reports       domain.ReportWriter
	Repos         domain.RepoDetector

	// Factories
	NewAPI APIFactory

	// Configuration
	Config Config
}

// New creates a new Container rooted at dir.
func New(dir string) (*Container, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}

	return &Container{
		ConfigLoader:  config.NewLoader(dir),
		ConfigManager: config.NewManager(dir),
		Clock:         domain.RealClock{},
		Records:       csvsource.NewReader(),
		Reports:       report.NewWriter(),
		Repos:         gitremote.NewDetector(),
		NewAPI:        newGitHubAPI,
		Config:        Config{WorkDir: dir},
	}, nil
}

// NewWithDeps creates a new Container with the given dependencies.
// This is useful for testing.
func NewWithDeps(
	cfg Config,
	configLoader domain.ConfigLoader,
	configManager domain.ConfigManager,
	clock domain.Clock,
	records domain.RecordSource,
	reports domain.ReportWriter,
	repos domain.RepoDetector,
	newAPI APIFactory,
) *Container {
	return &Container{
		ConfigLoader:  configLoader,
		ConfigManager: configManager,
		Clock:         clock,
		Records:       records,
		Reports:       reports,
		Repos:         repos,
		NewAPI:        newAPI,
		Config:        cfg,
	}
}

func newGitHubAPI(token string, cfg domain.GitHubConfig) (domain.GitHubAPI, error) {
	return github.NewClient(token, cfg.APIURL)
}

// RunLogger creates the logger for one run from the [log] section of cfg.
// The caller must Close it.
func (c *Container) RunLogger(cfg *domain.Config, opts RunOptions) *logging.Logger {
	return logging.New(logging.Options{
		Console:    opts.Console,
		File:       cfg.Log.File,
		RunID:      opts.RunID,
		Level:      logging.ParseLevel(cfg.Log.Level),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Verbose:    opts.Verbose,
		Quiet:      opts.Quiet,
	})
}

// BoardsFactory returns a factory for project board clients backed by api.
func (c *Container) BoardsFactory(api domain.GraphQLRunner, logger domain.Logger) domain.BoardsFactory {
	return func(repo domain.RepoRef) domain.ProjectBoards {
		return projects.NewClient(api, repo, logger)
	}
}

// ImportIssuesUseCase returns a new ImportIssues use case.
// api may be nil for dry runs.
func (c *Container) ImportIssuesUseCase(api domain.GitHubAPI, cfg *domain.Config, logger domain.Logger, runID string) *usecase.ImportIssues {
	var boards domain.BoardsFactory
	if api != nil {
		boards = c.BoardsFactory(api, logger)
	}
	return usecase.NewImportIssues(api, boards, c.Records, c.Reports, c.Clock, logger, cfg, runID)
}

// ListProjectsUseCase returns a new ListProjects use case.
func (c *Container) ListProjectsUseCase(api domain.GitHubAPI, logger domain.Logger) *usecase.ListProjects {
	return usecase.NewListProjects(c.BoardsFactory(api, logger))
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}
