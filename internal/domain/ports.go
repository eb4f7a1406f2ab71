package domain

import (
	"context"
	"time"
)

// Tracker is the remote issue tracker (GitHub REST API).
type Tracker interface {
	// AuthenticatedUser returns the login of the token owner.
	AuthenticatedUser(ctx context.Context) (string, error)

	// GetRepository resolves the target repository.
	GetRepository(ctx context.Context, ref RepoRef) (*Repository, error)

	// ListOpenIssueTitles returns the titles of all open issues.
	ListOpenIssueTitles(ctx context.Context, ref RepoRef) ([]string, error)

	// ListLabels returns the names of all repository labels.
	ListLabels(ctx context.Context, ref RepoRef) ([]string, error)

	// CheckCollaborator returns nil if the user has access to the repository.
	CheckCollaborator(ctx context.Context, ref RepoRef, user string) error

	// CreateLabel creates a label and returns its canonical name.
	CreateLabel(ctx context.Context, ref RepoRef, label LabelSpec) (string, error)

	// CreateIssue creates an issue.
	CreateIssue(ctx context.Context, ref RepoRef, issue NewIssue) (*CreatedIssue, error)
}

// GraphQLRunner executes GraphQL documents against the project service.
type GraphQLRunner interface {
	// Run executes query with variables and decodes the "data" member into out.
	Run(ctx context.Context, query string, variables map[string]any, out any) error
}

// GitHubAPI is the full remote surface: REST tracker plus GraphQL.
type GitHubAPI interface {
	Tracker
	GraphQLRunner
}

// ProjectBoards discovers project boards and places items on them.
type ProjectBoards interface {
	// Discover returns all reachable projects. The result is cached for the run.
	Discover(ctx context.Context) []ProjectDescriptor

	// Find returns the project titled name (case-insensitive) or ErrProjectNotFound.
	Find(ctx context.Context, name string) (*ProjectDescriptor, error)

	// ResolveDefaultColumn returns the column new items should land in, or nil.
	ResolveDefaultColumn(p *ProjectDescriptor) *ProjectColumn

	// Validate checks status and field values against the project schema.
	Validate(p *ProjectDescriptor, status string, fields []FieldValue) (bool, []string)

	// Assign attaches content to the board and applies status and field values.
	Assign(ctx context.Context, p *ProjectDescriptor, contentID, status string, fields []FieldValue) (*AssignResult, error)
}

// BoardsFactory builds a ProjectBoards client scoped to a repository.
type BoardsFactory func(repo RepoRef) ProjectBoards

// RecordSource reads tabular input.
type RecordSource interface {
	// Read returns the header row and the data rows of the file at path.
	Read(path string) (header []string, rows [][]string, err error)
}

// RepoDetector finds the GitHub repository of a local checkout.
type RepoDetector interface {
	// Detect returns owner/repo of the origin remote for the checkout containing dir.
	Detect(dir string) (RepoRef, error)
}

// ReportWriter persists run reports.
type ReportWriter interface {
	// Write stores the report at path.
	Write(path string, report *RunReport) error
}

// Logger records progress and diagnostics under a category.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (global + local).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigInfo describes one configuration file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager inspects and initializes configuration files.
type ConfigManager interface {
	GetLocalConfigInfo() ConfigInfo
	GetGlobalConfigInfo() ConfigInfo
	InitLocalConfig(cfg *Config) error
	InitGlobalConfig(cfg *Config) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep pauses for d.
	Sleep(d time.Duration)
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Sleep pauses the calling goroutine for d.
func (RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
