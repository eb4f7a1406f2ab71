package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/runoshun/tissue/internal/app"
	"github.com/runoshun/tissue/internal/domain"
	"github.com/runoshun/tissue/internal/testutil"
)

// cliHarness wires a container from test doubles.
type cliHarness struct {
	api       *testutil.MockGitHubAPI
	loader    *testutil.MockConfigLoader
	manager   *testutil.MockConfigManager
	records   *testutil.MockRecordSource
	reports   *testutil.MockReportWriter
	repos     *testutil.MockRepoDetector
	clock     *testutil.MockClock
	container *app.Container
	apiErr    error
	tokens    []string
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()

	h := &cliHarness{
		api:     testutil.NewMockGitHubAPI(),
		loader:  testutil.NewMockConfigLoader(),
		manager: testutil.NewMockConfigManager(),
		records: &testutil.MockRecordSource{
			Header: []string{"Title", "Description", "Assignee", "Labels"},
			Rows: [][]string{
				{"Fix login", "Login fails on Safari", "", "bug"},
				{"Add export", "CSV export for reports", "", "feature, ui"},
			},
		},
		reports: &testutil.MockReportWriter{},
		repos:   &testutil.MockRepoDetector{Ref: domain.RepoRef{Owner: "acme", Name: "widgets"}},
		clock:   &testutil.MockClock{NowTime: time.Date(2025, 12, 30, 9, 32, 51, 0, time.UTC)},
	}
	h.container = app.NewWithDeps(
		app.Config{WorkDir: t.TempDir()},
		h.loader,
		h.manager,
		h.clock,
		h.records,
		h.reports,
		h.repos,
		func(token string, _ domain.GitHubConfig) (domain.GitHubAPI, error) {
			h.tokens = append(h.tokens, token)
			if h.apiErr != nil {
				return nil, h.apiErr
			}
			return h.api, nil
		},
	)
	return h
}

// run executes the root command and returns stdout and stderr.
func (h *cliHarness) run(args ...string) (string, string, error) {
	root := NewRootCommand(h.container, "test")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
