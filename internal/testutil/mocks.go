// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/tissue/internal/domain"
)

// MockClock is a test double for domain.Clock.
// Sleep records the requested durations instead of pausing.
type MockClock struct {
	NowTime time.Time
	Slept   []time.Duration
}

// Ensure MockClock implements domain.Clock interface.
var _ domain.Clock = (*MockClock)(nil)

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Sleep records d.
func (m *MockClock) Sleep(d time.Duration) {
	m.Slept = append(m.Slept, d)
}

// LogEntry is one message recorded by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// MockLogger is a test double for domain.Logger that records every entry.
type MockLogger struct {
	Entries []LogEntry
}

// Ensure MockLogger implements domain.Logger interface.
var _ domain.Logger = (*MockLogger)(nil)

// Debug records a debug entry.
func (m *MockLogger) Debug(category, msg string) { m.add("debug", category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(category, msg string) { m.add("info", category, msg) }

// Warn records a warning entry.
func (m *MockLogger) Warn(category, msg string) { m.add("warn", category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(category, msg string) { m.add("error", category, msg) }

func (m *MockLogger) add(level, category, msg string) {
	m.Entries = append(m.Entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Messages returns the messages logged at level.
func (m *MockLogger) Messages(level string) []string {
	var msgs []string
	for _, e := range m.Entries {
		if e.Level == level {
			msgs = append(msgs, e.Msg)
		}
	}
	return msgs
}

// HasMessage reports whether any entry at level contains substr.
func (m *MockLogger) HasMessage(level, substr string) bool {
	for _, msg := range m.Messages(level) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// MockTracker is a test double for domain.Tracker.
// Fields are ordered to minimize memory padding.
type MockTracker struct {
	Repo            *domain.Repository
	AuthErr         error
	RepoErr         error
	TitlesErr       error
	LabelsErr       error
	CreateIssueErr  map[string]error // Keyed by issue title
	CreateLabelErr  map[string]error // Keyed by label name
	Collaborators   map[string]bool
	Login           string
	Titles          []string
	Labels          []string
	CreatedLabels   []domain.LabelSpec
	CreatedIssues   []domain.NewIssue
	CollabChecks    []string
	TitlesCalls     int
	LabelsCalls     int
	NextIssueNumber int
}

// NewMockTracker creates a MockTracker for acme/widgets authenticated as octocat.
func NewMockTracker() *MockTracker {
	return &MockTracker{
		Login:           "octocat",
		Repo:            &domain.Repository{FullName: "acme/widgets", NodeID: "R_1", Ref: domain.RepoRef{Owner: "acme", Name: "widgets"}},
		Collaborators:   make(map[string]bool),
		CreateIssueErr:  make(map[string]error),
		CreateLabelErr:  make(map[string]error),
		NextIssueNumber: 1,
	}
}

// Ensure MockTracker implements domain.Tracker interface.
var _ domain.Tracker = (*MockTracker)(nil)

// AuthenticatedUser returns the configured login or error.
func (m *MockTracker) AuthenticatedUser(_ context.Context) (string, error) {
	if m.AuthErr != nil {
		return "", m.AuthErr
	}
	return m.Login, nil
}

// GetRepository returns the configured repository or error.
func (m *MockTracker) GetRepository(_ context.Context, ref domain.RepoRef) (*domain.Repository, error) {
	if m.RepoErr != nil {
		return nil, m.RepoErr
	}
	if m.Repo == nil {
		return &domain.Repository{FullName: ref.String(), Ref: ref}, nil
	}
	return m.Repo, nil
}

// ListOpenIssueTitles returns the configured titles or error.
func (m *MockTracker) ListOpenIssueTitles(_ context.Context, _ domain.RepoRef) ([]string, error) {
	m.TitlesCalls++
	if m.TitlesErr != nil {
		return nil, m.TitlesErr
	}
	return m.Titles, nil
}

// ListLabels returns the configured labels or error.
func (m *MockTracker) ListLabels(_ context.Context, _ domain.RepoRef) ([]string, error) {
	m.LabelsCalls++
	if m.LabelsErr != nil {
		return nil, m.LabelsErr
	}
	return m.Labels, nil
}

// CheckCollaborator succeeds only for users marked in Collaborators.
func (m *MockTracker) CheckCollaborator(_ context.Context, _ domain.RepoRef, user string) error {
	m.CollabChecks = append(m.CollabChecks, user)
	if !m.Collaborators[user] {
		return &domain.APIError{Message: "Not Found", StatusCode: 404}
	}
	return nil
}

// CreateLabel records the label and returns its name.
func (m *MockTracker) CreateLabel(_ context.Context, _ domain.RepoRef, label domain.LabelSpec) (string, error) {
	if err := m.CreateLabelErr[label.Name]; err != nil {
		return "", err
	}
	m.CreatedLabels = append(m.CreatedLabels, label)
	return label.Name, nil
}

// CreateIssue records the issue and returns a numbered CreatedIssue.
func (m *MockTracker) CreateIssue(_ context.Context, ref domain.RepoRef, issue domain.NewIssue) (*domain.CreatedIssue, error) {
	if err := m.CreateIssueErr[issue.Title]; err != nil {
		return nil, err
	}
	m.CreatedIssues = append(m.CreatedIssues, issue)
	n := m.NextIssueNumber
	m.NextIssueNumber++
	return &domain.CreatedIssue{
		Number: n,
		URL:    fmt.Sprintf("https://github.com/%s/issues/%d", ref, n),
		NodeID: fmt.Sprintf("I_%d", n),
	}, nil
}

// GraphQLCall is one request recorded by MockGraphQL.
type GraphQLCall struct {
	Variables map[string]any
	Query     string
}

// MockGraphQL is a test double for domain.GraphQLRunner.
// Handler returns the JSON "data" member for a request; nil Handler returns no data.
type MockGraphQL struct {
	Handler func(query string, variables map[string]any) (string, error)
	Calls   []GraphQLCall
}

// Ensure MockGraphQL implements domain.GraphQLRunner interface.
var _ domain.GraphQLRunner = (*MockGraphQL)(nil)

// Run records the call and decodes the handler's response into out.
func (m *MockGraphQL) Run(_ context.Context, query string, variables map[string]any, out any) error {
	m.Calls = append(m.Calls, GraphQLCall{Query: query, Variables: variables})
	if m.Handler == nil {
		return nil
	}
	data, err := m.Handler(query, variables)
	if err != nil {
		return err
	}
	if out == nil || data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), out)
}

// CallsMatching returns the recorded calls whose query contains substr.
func (m *MockGraphQL) CallsMatching(substr string) []GraphQLCall {
	var calls []GraphQLCall
	for _, c := range m.Calls {
		if strings.Contains(c.Query, substr) {
			calls = append(calls, c)
		}
	}
	return calls
}

// MockGitHubAPI combines MockTracker and MockGraphQL into a domain.GitHubAPI.
type MockGitHubAPI struct {
	*MockTracker
	*MockGraphQL
}

// NewMockGitHubAPI creates a MockGitHubAPI with a fresh tracker and GraphQL double.
func NewMockGitHubAPI() *MockGitHubAPI {
	return &MockGitHubAPI{MockTracker: NewMockTracker(), MockGraphQL: &MockGraphQL{}}
}

// Ensure MockGitHubAPI implements domain.GitHubAPI interface.
var _ domain.GitHubAPI = (*MockGitHubAPI)(nil)

// AssignCall is one Assign invocation recorded by MockBoards.
type AssignCall struct {
	ProjectID string
	ContentID string
	Status    string
	Fields    []domain.FieldValue
}

// MockBoards is a test double for domain.ProjectBoards.
// Validate and ResolveDefaultColumn use the real domain rules.
// Fields are ordered to minimize memory padding.
type MockBoards struct {
	AssignResult  *domain.AssignResult
	AssignErr     error
	Projects      []domain.ProjectDescriptor
	AssignCalls   []AssignCall
	DiscoverCalls int
}

// Ensure MockBoards implements domain.ProjectBoards interface.
var _ domain.ProjectBoards = (*MockBoards)(nil)

// Discover returns the configured projects.
func (m *MockBoards) Discover(_ context.Context) []domain.ProjectDescriptor {
	m.DiscoverCalls++
	return m.Projects
}

// Find returns the configured project titled name.
func (m *MockBoards) Find(ctx context.Context, name string) (*domain.ProjectDescriptor, error) {
	for _, p := range m.Discover(ctx) {
		if strings.EqualFold(p.Title, name) {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrProjectNotFound, name)
}

// ResolveDefaultColumn returns domain.DefaultColumn(p).
func (m *MockBoards) ResolveDefaultColumn(p *domain.ProjectDescriptor) *domain.ProjectColumn {
	return domain.DefaultColumn(p)
}

// Validate returns domain.ValidateOverrides(p, status, fields).
func (m *MockBoards) Validate(p *domain.ProjectDescriptor, status string, fields []domain.FieldValue) (bool, []string) {
	return domain.ValidateOverrides(p, status, fields)
}

// Assign records the call and returns the configured result or error.
func (m *MockBoards) Assign(_ context.Context, p *domain.ProjectDescriptor, contentID, status string, fields []domain.FieldValue) (*domain.AssignResult, error) {
	m.AssignCalls = append(m.AssignCalls, AssignCall{ProjectID: p.ID, ContentID: contentID, Status: status, Fields: fields})
	if m.AssignErr != nil {
		return nil, m.AssignErr
	}
	if m.AssignResult != nil {
		return m.AssignResult, nil
	}
	return &domain.AssignResult{ItemID: "PVTI_" + contentID}, nil
}

// MockRecordSource is a test double for domain.RecordSource.
type MockRecordSource struct {
	Err      error
	ReadPath string
	Header   []string
	Rows     [][]string
}

// Ensure MockRecordSource implements domain.RecordSource interface.
var _ domain.RecordSource = (*MockRecordSource)(nil)

// Read records path and returns the configured header and rows.
func (m *MockRecordSource) Read(path string) ([]string, [][]string, error) {
	m.ReadPath = path
	if m.Err != nil {
		return nil, nil, m.Err
	}
	return m.Header, m.Rows, nil
}

// MockReportWriter is a test double for domain.ReportWriter.
type MockReportWriter struct {
	Err    error
	Report *domain.RunReport
	Path   string
}

// Ensure MockReportWriter implements domain.ReportWriter interface.
var _ domain.ReportWriter = (*MockReportWriter)(nil)

// Write records the report.
func (m *MockReportWriter) Write(path string, report *domain.RunReport) error {
	m.Path = path
	m.Report = report
	return m.Err
}

// MockRepoDetector is a test double for domain.RepoDetector.
type MockRepoDetector struct {
	Err  error
	Ref  domain.RepoRef
	Dirs []string
}

// Ensure MockRepoDetector implements domain.RepoDetector interface.
var _ domain.RepoDetector = (*MockRepoDetector)(nil)

// Detect returns the configured reference or error.
func (m *MockRepoDetector) Detect(dir string) (domain.RepoRef, error) {
	m.Dirs = append(m.Dirs, dir)
	if m.Err != nil {
		return domain.RepoRef{}, m.Err
	}
	return m.Ref, nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitLocalErr     error
	InitGlobalErr    error
	LocalConfigInfo  domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitLocalCalled  bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		LocalConfigInfo: domain.ConfigInfo{
			Path:   "/test/.tissue.toml",
			Exists: false,
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path:   "/home/test/.config/tissue/config.toml",
			Exists: false,
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetLocalConfigInfo returns the configured local config info.
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.LocalConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitLocalConfig records the call and returns configured error.
func (m *MockConfigManager) InitLocalConfig(_ *domain.Config) error {
	m.InitLocalCalled = true
	return m.InitLocalErr
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}
