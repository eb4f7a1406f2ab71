// Package github provides the GitHub REST and GraphQL adapter.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gogithub "github.com/google/go-github/v72/github"

	"github.com/runoshun/tissue/internal/domain"
)

// Ensure Client implements domain.GitHubAPI interface.
var _ domain.GitHubAPI = (*Client)(nil)

const pageSize = 100

// Client talks to GitHub through go-github.
// GraphQL documents are sent through the same client so that authentication,
// base URL and error handling are shared with the REST calls.
type Client struct {
	gh          *gogithub.Client
	graphQLPath string // Resolved against the REST base URL
}

// NewClient creates a client authenticated with token.
// apiURL overrides the REST base URL (GitHub Enterprise); empty means api.github.com.
func NewClient(token, apiURL string) (*Client, error) {
	return NewClientWithHTTP(http.DefaultClient, token, apiURL)
}

// NewClientWithHTTP creates a client using the given HTTP client. This is useful for testing.
func NewClientWithHTTP(httpClient *http.Client, token, apiURL string) (*Client, error) {
	gh := gogithub.NewClient(httpClient)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}

	if apiURL != "" {
		base, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid api_url %q: %w", apiURL, err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		gh.BaseURL = base
	}

	return &Client{gh: gh, graphQLPath: graphQLPath(gh.BaseURL)}, nil
}

// graphQLPath returns the GraphQL endpoint relative to the REST base URL.
// github.com serves it at /graphql; GitHub Enterprise at /api/graphql next to /api/v3/.
func graphQLPath(base *url.URL) string {
	if strings.HasSuffix(base.Path, "/api/v3/") {
		return "../graphql"
	}
	return "graphql"
}

// AuthenticatedUser returns the login of the token owner.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", wrapError(err)
	}
	return user.GetLogin(), nil
}

// GetRepository resolves the target repository.
func (c *Client) GetRepository(ctx context.Context, ref domain.RepoRef) (*domain.Repository, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, wrapError(err)
	}
	return &domain.Repository{
		FullName: repo.GetFullName(),
		NodeID:   repo.GetNodeID(),
		Ref:      ref,
	}, nil
}

// ListOpenIssueTitles returns the titles of all open issues, following pagination.
// Pull requests are part of the listing and are included.
func (c *Client) ListOpenIssueTitles(ctx context.Context, ref domain.RepoRef) ([]string, error) {
	opts := &gogithub.IssueListByRepoOptions{
		State:       "open",
		ListOptions: gogithub.ListOptions{PerPage: pageSize},
	}

	var titles []string
	for {
		issues, resp, err := c.gh.Issues.ListByRepo(ctx, ref.Owner, ref.Name, opts)
		if err != nil {
			return nil, wrapError(err)
		}
		for _, issue := range issues {
			titles = append(titles, issue.GetTitle())
		}
		if resp == nil || resp.NextPage == 0 {
			return titles, nil
		}
		opts.ListOptions.Page = resp.NextPage
	}
}

// ListLabels returns the names of all repository labels, following pagination.
func (c *Client) ListLabels(ctx context.Context, ref domain.RepoRef) ([]string, error) {
	opts := &gogithub.ListOptions{PerPage: pageSize}

	var names []string
	for {
		labels, resp, err := c.gh.Issues.ListLabels(ctx, ref.Owner, ref.Name, opts)
		if err != nil {
			return nil, wrapError(err)
		}
		for _, l := range labels {
			names = append(names, l.GetName())
		}
		if resp == nil || resp.NextPage == 0 {
			return names, nil
		}
		opts.Page = resp.NextPage
	}
}

// CheckCollaborator returns nil if user has any permission on the repository.
func (c *Client) CheckCollaborator(ctx context.Context, ref domain.RepoRef, user string) error {
	level, _, err := c.gh.Repositories.GetPermissionLevel(ctx, ref.Owner, ref.Name, user)
	if err != nil {
		return wrapError(err)
	}
	if p := level.GetPermission(); p == "" || p == "none" {
		return fmt.Errorf("%w: %s is not a collaborator on %s", domain.ErrNotFound, user, ref)
	}
	return nil
}

// CreateLabel creates a label and returns the name GitHub stored.
func (c *Client) CreateLabel(ctx context.Context, ref domain.RepoRef, label domain.LabelSpec) (string, error) {
	created, _, err := c.gh.Issues.CreateLabel(ctx, ref.Owner, ref.Name, &gogithub.Label{
		Name:        gogithub.Ptr(label.Name),
		Color:       gogithub.Ptr(label.Color),
		Description: gogithub.Ptr(label.Description),
	})
	if err != nil {
		return "", wrapError(err)
	}
	return created.GetName(), nil
}

// CreateIssue creates an issue.
func (c *Client) CreateIssue(ctx context.Context, ref domain.RepoRef, issue domain.NewIssue) (*domain.CreatedIssue, error) {
	req := &gogithub.IssueRequest{
		Title: gogithub.Ptr(issue.Title),
		Body:  gogithub.Ptr(issue.Body),
	}
	if issue.Assignee != "" {
		req.Assignee = gogithub.Ptr(issue.Assignee)
	}
	if len(issue.Labels) > 0 {
		labels := append([]string(nil), issue.Labels...)
		req.Labels = &labels
	}

	created, _, err := c.gh.Issues.Create(ctx, ref.Owner, ref.Name, req)
	if err != nil {
		return nil, wrapError(err)
	}
	return &domain.CreatedIssue{
		Number: created.GetNumber(),
		URL:    created.GetHTMLURL(),
		NodeID: created.GetNodeID(),
	}, nil
}

type graphQLRequest struct {
	Variables map[string]any `json:"variables,omitempty"`
	Query     string         `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Run executes a GraphQL document and decodes its "data" member into out.
// A response carrying an "errors" array is an error even when partial data is present.
func (c *Client) Run(ctx context.Context, query string, variables map[string]any, out any) error {
	req, err := c.gh.NewRequest(http.MethodPost, c.graphQLPath, &graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to build GraphQL request: %w", err)
	}

	var resp graphQLResponse
	if _, err := c.gh.Do(ctx, req, &resp); err != nil {
		return wrapError(err)
	}

	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("%w: %s", domain.ErrGraphQL, strings.Join(msgs, "; "))
	}

	if out == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to decode GraphQL response: %w", err)
	}
	return nil
}

// wrapError converts go-github errors into domain.APIError carrying the API message.
func wrapError(err error) error {
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return &domain.APIError{Message: rateErr.Message, StatusCode: statusCode(rateErr.Response)}
	}

	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &domain.APIError{Message: abuseErr.Message, StatusCode: statusCode(abuseErr.Response)}
	}

	var errResp *gogithub.ErrorResponse
	if errors.As(err, &errResp) {
		msg := errResp.Message
		for _, detail := range errResp.Errors {
			switch {
			case detail.Message != "":
				msg += ": " + detail.Message
			case detail.Field != "":
				msg += fmt.Sprintf(": %s.%s %s", detail.Resource, detail.Field, detail.Code)
			}
		}
		return &domain.APIError{Message: msg, StatusCode: statusCode(errResp.Response)}
	}

	return err
}

func statusCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
