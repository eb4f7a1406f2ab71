package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/tissue/internal/domain"
)

var testRepo = domain.RepoRef{Owner: "acme", Name: "widgets"}

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewClientWithHTTP(srv.Client(), "test-token", srv.URL+"/")
	require.NoError(t, err)
	return client
}

func TestGraphQLPath(t *testing.T) {
	tests := []struct {
		base     string
		expected string
	}{
		{"https://api.github.com/", "graphql"},
		{"https://github.example.com/api/v3/", "../graphql"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			u, err := url.Parse(tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, graphQLPath(u))

			resolved, err := u.Parse(graphQLPath(u))
			require.NoError(t, err)
			assert.Contains(t, []string{"/graphql", "/api/graphql"}, resolved.Path)
		})
	}
}

func TestClient_AuthenticatedUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = fmt.Fprint(w, `{"login":"octocat"}`)
	})
	client := newTestClient(t, mux)

	login, err := client.AuthenticatedUser(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
}

func TestClient_AuthenticatedUser_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"message":"Bad credentials"}`)
	})
	client := newTestClient(t, mux)

	_, err := client.AuthenticatedUser(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuth)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad credentials", apiErr.Message)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClient_GetRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"full_name":"acme/widgets","node_id":"R_1"}`)
	})
	mux.HandleFunc("GET /repos/acme/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	client := newTestClient(t, mux)

	repo, err := client.GetRepository(context.Background(), testRepo)
	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", repo.FullName)
	assert.Equal(t, "R_1", repo.NodeID)

	_, err = client.GetRepository(context.Background(), domain.RepoRef{Owner: "acme", Name: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_ListOpenIssueTitles_Paginates(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		if r.URL.Query().Get("page") == "2" {
			_, _ = fmt.Fprint(w, `[{"title":"Third"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/acme/widgets/issues?page=2>; rel="next"`, srvURL))
		_, _ = fmt.Fprint(w, `[{"title":"First"},{"title":"Second"}]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL
	client, err := NewClientWithHTTP(srv.Client(), "test-token", srv.URL+"/")
	require.NoError(t, err)

	titles, err := client.ListOpenIssueTitles(context.Background(), testRepo)

	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second", "Third"}, titles)
}

func TestClient_ListLabels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/labels", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `[{"name":"Bug"},{"name":"enhancement"}]`)
	})
	client := newTestClient(t, mux)

	labels, err := client.ListLabels(context.Background(), testRepo)

	require.NoError(t, err)
	assert.Equal(t, []string{"Bug", "enhancement"}, labels)
}

func TestClient_CheckCollaborator(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/collaborators/alice/permission", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"permission":"write"}`)
	})
	mux.HandleFunc("GET /repos/acme/widgets/collaborators/bob/permission", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"permission":"none"}`)
	})
	mux.HandleFunc("GET /repos/acme/widgets/collaborators/ghost/permission", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	assert.NoError(t, client.CheckCollaborator(ctx, testRepo, "alice"))
	assert.ErrorIs(t, client.CheckCollaborator(ctx, testRepo, "bob"), domain.ErrNotFound)
	assert.ErrorIs(t, client.CheckCollaborator(ctx, testRepo, "ghost"), domain.ErrNotFound)
}

func TestClient_CreateLabel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/labels", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "docs", body["name"])
		assert.Equal(t, "0075ca", body["color"])
		assert.Equal(t, "Label created automatically by tissue", body["description"])
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprint(w, `{"name":"docs"}`)
	})
	client := newTestClient(t, mux)

	name, err := client.CreateLabel(context.Background(), testRepo, domain.LabelSpec{
		Name:        "docs",
		Color:       domain.DefaultLabelColor,
		Description: domain.DefaultLabelDescription,
	})

	require.NoError(t, err)
	assert.Equal(t, "docs", name)
}

func TestClient_CreateIssue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/issues", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Fix login", body["title"])
		assert.Equal(t, "Users cannot log in", body["body"])
		assert.Equal(t, "alice", body["assignee"])
		assert.Equal(t, []any{"Bug"}, body["labels"])
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprint(w, `{"number":42,"html_url":"https://github.com/acme/widgets/issues/42","node_id":"I_42"}`)
	})
	client := newTestClient(t, mux)

	issue, err := client.CreateIssue(context.Background(), testRepo, domain.NewIssue{
		Title:    "Fix login",
		Body:     "Users cannot log in",
		Assignee: "alice",
		Labels:   []string{"Bug"},
	})

	require.NoError(t, err)
	assert.Equal(t, 42, issue.Number)
	assert.Equal(t, "https://github.com/acme/widgets/issues/42", issue.URL)
	assert.Equal(t, "I_42", issue.NodeID)
}

func TestClient_CreateIssue_OmitsEmptyAssigneeAndLabels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/issues", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "assignee")
		assert.NotContains(t, body, "labels")
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprint(w, `{"number":1}`)
	})
	client := newTestClient(t, mux)

	_, err := client.CreateIssue(context.Background(), testRepo, domain.NewIssue{Title: "Plain"})

	require.NoError(t, err)
}

func TestClient_CreateIssue_ValidationError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/issues", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = fmt.Fprint(w, `{"message":"Validation Failed","errors":[{"resource":"Issue","field":"assignee","code":"invalid"}]}`)
	})
	client := newTestClient(t, mux)

	_, err := client.CreateIssue(context.Background(), testRepo, domain.NewIssue{Title: "X", Assignee: "nobody"})

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Validation Failed: Issue.assignee invalid", apiErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestClient_Run(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req graphQLRequest
		require.NoError(t, json.Unmarshal(raw, &req))
		assert.Equal(t, "query { viewer { login } }", req.Query)
		assert.Equal(t, "acme", req.Variables["owner"])
		_, _ = fmt.Fprint(w, `{"data":{"viewer":{"login":"octocat"}}}`)
	})
	client := newTestClient(t, mux)

	var out struct {
		Viewer struct {
			Login string `json:"login"`
		} `json:"viewer"`
	}
	err := client.Run(context.Background(), "query { viewer { login } }", map[string]any{"owner": "acme"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "octocat", out.Viewer.Login)
}

func TestClient_Run_GraphQLErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"data":{"organization":null},"errors":[{"type":"NOT_FOUND","message":"Could not resolve to an Organization with the login of 'acme'."}]}`)
	})
	client := newTestClient(t, mux)

	var out map[string]any
	err := client.Run(context.Background(), "query { organization(login: \"acme\") { id } }", nil, &out)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGraphQL))
	assert.Contains(t, err.Error(), "Could not resolve to an Organization")
}
