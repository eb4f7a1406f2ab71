package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/tissue/internal/domain"
)

const roadmapJSON = `{
  "id": "PVT_1", "number": 3, "title": "Roadmap", "url": "https://github.com/orgs/acme/projects/3",
  "fields": {"nodes": [
    {"__typename": "ProjectV2Field", "id": "F_title", "name": "Title", "dataType": "TITLE"},
    {"__typename": "ProjectV2SingleSelectField", "id": "F_status", "name": "Status", "dataType": "SINGLE_SELECT",
     "options": [{"id": "O_todo", "name": "Todo"}, {"id": "O_doing", "name": "In Progress"}, {"id": "O_done", "name": "Done"}]},
    {"__typename": "ProjectV2SingleSelectField", "id": "F_size", "name": "Size", "dataType": "SINGLE_SELECT",
     "options": [{"id": "O_s", "name": "S"}, {"id": "O_m", "name": "M"}]},
    {"__typename": "ProjectV2Field", "id": "F_estimate", "name": "Estimate", "dataType": "NUMBER"}
  ]},
  "views": {"nodes": []}
}`

// projectsHandler answers GraphQL documents for a repository with one project.
func projectsHandler(t *testing.T) func(string, map[string]any) (string, error) {
	t.Helper()
	return func(query string, vars map[string]any) (string, error) {
		switch {
		case strings.Contains(query, "repository(owner"):
			return `{"repository": {"projectsV2": {"nodes": [` + roadmapJSON + `]}}}`, nil
		case strings.Contains(query, "organization(login"):
			return `{"organization": {"projectsV2": {"nodes": []}}}`, nil
		case strings.Contains(query, "user(login"):
			return `{"user": null}`, nil
		case strings.Contains(query, "node(id"):
			switch vars["fieldId"] {
			case "F_status":
				return `{"node": {"options": [{"id": "O_todo", "name": "Todo"}, {"id": "O_doing", "name": "In Progress"}, {"id": "O_done", "name": "Done"}]}}`, nil
			case "F_size":
				return `{"node": {"options": [{"id": "O_s", "name": "S"}, {"id": "O_m", "name": "M"}]}}`, nil
			}
			return `{"node": null}`, nil
		case strings.Contains(query, "addProjectV2ItemById"):
			return `{"addProjectV2ItemById": {"item": {"id": "PVTI_1"}}}`, nil
		case strings.Contains(query, "updateProjectV2ItemFieldValue"):
			return `{}`, nil
		}
		t.Fatalf("unexpected query: %s", query)
		return "", nil
	}
}

func TestProjects_List(t *testing.T) {
	// Setup
	h := newHarness(t)
	h.api.Handler = projectsHandler(t)

	// Execute
	stdout, _, err := h.run("projects", "-r", "acme/widgets", "-t", "ghp_x")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "Projects for acme/widgets:")
	assert.Contains(t, stdout, "#3    Roadmap (repository)")
	assert.Contains(t, stdout, "https://github.com/orgs/acme/projects/3")
}

func TestProjects_List_Empty(t *testing.T) {
	// Setup
	h := newHarness(t)
	h.api.Handler = func(string, map[string]any) (string, error) {
		return `{}`, nil
	}

	// Execute
	stdout, _, err := h.run("projects", "-r", "acme/widgets", "-t", "ghp_x")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "No projects found for acme/widgets\n", stdout)
}

func TestProjects_Show(t *testing.T) {
	// Setup
	h := newHarness(t)
	h.api.Handler = projectsHandler(t)

	// Execute
	stdout, _, err := h.run("projects", "show", "ROADMAP", "-r", "acme/widgets", "-t", "ghp_x")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "Roadmap")
	assert.Contains(t, stdout, "Number: 3")
	assert.Contains(t, stdout, "  - Todo (default)")
	assert.Contains(t, stdout, "  - In Progress\n")
	assert.Contains(t, stdout, "  - Size [SINGLE_SELECT]: S, M")
	assert.Contains(t, stdout, "  - Estimate [NUMBER]")
	assert.NotContains(t, stdout, "Title [")
}

func TestProjects_Show_NotFound(t *testing.T) {
	// Setup
	h := newHarness(t)
	h.api.Handler = projectsHandler(t)

	// Execute
	_, _, err := h.run("projects", "show", "Backlog", "-r", "acme/widgets", "-t", "ghp_x")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	assert.Contains(t, err.Error(), "Roadmap")
}

func TestProjects_Show_RequiresName(t *testing.T) {
	// Setup
	h := newHarness(t)

	// Execute
	_, _, err := h.run("projects", "show", "-r", "acme/widgets", "-t", "ghp_x")

	// Assert
	assert.Error(t, err)
	assert.Empty(t, h.tokens)
}

func TestProjects_NoToken(t *testing.T) {
	// Setup
	h := newHarness(t)
	t.Setenv("GITHUB_TOKEN", "")

	// Execute
	_, _, err := h.run("projects", "-r", "acme/widgets")

	// Assert
	assert.ErrorIs(t, err, domain.ErrNoToken)
}
