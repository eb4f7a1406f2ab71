// Package projects provides the GitHub Projects v2 schema client.
// It discovers project boards reachable from a repository, describes their columns
// and custom fields, and places items on a board with typed field values.
package projects

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/runoshun/tissue/internal/domain"
)

// Ensure Client implements domain.ProjectBoards interface.
var _ domain.ProjectBoards = (*Client)(nil)

const logCategory = "project"

// Client discovers and updates project boards for one repository.
// Discovery results and resolved option IDs are cached for the lifetime of the client.
// Fields are ordered to minimize memory padding.
type Client struct {
	gql        domain.GraphQLRunner
	logger     domain.Logger
	options    map[string][]optionNode // Field ID -> options
	projects   []domain.ProjectDescriptor
	repo       domain.RepoRef
	discovered bool
}

// NewClient creates a project client scoped to repo.
func NewClient(gql domain.GraphQLRunner, repo domain.RepoRef, logger domain.Logger) *Client {
	return &Client{
		gql:     gql,
		repo:    repo,
		logger:  logger,
		options: make(map[string][]optionNode),
	}
}

type scopeQuery struct {
	variables map[string]any
	query     string
	scope     domain.ProjectScope
}

func (c *Client) scopes() []scopeQuery {
	return []scopeQuery{
		{
			scope:     domain.ScopeRepository,
			query:     repositoryProjectsQuery,
			variables: map[string]any{"owner": c.repo.Owner, "name": c.repo.Name},
		},
		{
			scope:     domain.ScopeOrganization,
			query:     organizationProjectsQuery,
			variables: map[string]any{"login": c.repo.Owner},
		},
		{
			scope:     domain.ScopeUser,
			query:     userProjectsQuery,
			variables: map[string]any{"login": c.repo.Owner},
		},
	}
}

// Discover returns every project reachable from the repository, its owning organization
// or its owning user. A failing scope contributes nothing. A project seen in several
// scopes is reported once, with the first scope it was found in.
func (c *Client) Discover(ctx context.Context) []domain.ProjectDescriptor {
	if c.discovered {
		return c.projects
	}

	seen := make(map[string]bool)
	var projects []domain.ProjectDescriptor
	for _, s := range c.scopes() {
		found, err := c.fetchScope(ctx, s)
		if err != nil {
			c.logger.Warn(logCategory, fmt.Sprintf("could not fetch %s projects: %v", s.scope, err))
			continue
		}
		for _, p := range found {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			projects = append(projects, p)
		}
	}

	if ctx.Err() != nil {
		return projects
	}
	c.projects = projects
	c.discovered = true
	c.logger.Debug(logCategory, fmt.Sprintf("discovered %d project(s) for %s", len(projects), c.repo))
	return projects
}

func (c *Client) fetchScope(ctx context.Context, s scopeQuery) ([]domain.ProjectDescriptor, error) {
	var resp scopeResponse
	if err := c.gql.Run(ctx, s.query, s.variables, &resp); err != nil {
		return nil, err
	}

	owner := resp.owner()
	if owner == nil {
		return nil, nil
	}

	var projects []domain.ProjectDescriptor
	for _, node := range owner.ProjectsV2.Nodes {
		if node == nil || node.ID == "" {
			continue
		}
		projects = append(projects, node.toDescriptor(s.scope))
	}
	return projects, nil
}

// Find returns the discovered project whose title matches name, ignoring case.
func (c *Client) Find(ctx context.Context, name string) (*domain.ProjectDescriptor, error) {
	projects := c.Discover(ctx)
	for i := range projects {
		if strings.EqualFold(projects[i].Title, name) {
			p := projects[i]
			return &p, nil
		}
	}

	titles := make([]string, 0, len(projects))
	for _, p := range projects {
		titles = append(titles, p.Title)
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("%w: %q (no projects available)", domain.ErrProjectNotFound, name)
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", domain.ErrProjectNotFound, name, strings.Join(titles, ", "))
}

// ResolveDefaultColumn returns the column new issues should land in, or nil.
func (c *Client) ResolveDefaultColumn(p *domain.ProjectDescriptor) *domain.ProjectColumn {
	return domain.DefaultColumn(p)
}

// Validate checks a status and custom field values against the project schema.
func (c *Client) Validate(p *domain.ProjectDescriptor, status string, fields []domain.FieldValue) (bool, []string) {
	return domain.ValidateOverrides(p, status, fields)
}

// Assign adds content to the project and applies status and field values.
// Only the attachment can fail the call; each value that cannot be set becomes a warning
// and does not prevent the others.
func (c *Client) Assign(ctx context.Context, p *domain.ProjectDescriptor, contentID, status string, fields []domain.FieldValue) (*domain.AssignResult, error) {
	itemID, err := c.addItem(ctx, p.ID, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to add item to project %q: %w", p.Title, err)
	}
	result := &domain.AssignResult{ItemID: itemID}

	if status != "" {
		if err := c.setStatus(ctx, p, itemID, status); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not set status %q: %v", status, err))
		} else {
			result.Applied = append(result.Applied, domain.StatusFieldName+"="+status)
		}
	}

	for _, fv := range fields {
		if err := c.setField(ctx, p, itemID, fv); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not set field %q: %v", fv.Name, err))
			continue
		}
		result.Applied = append(result.Applied, fv.Name+"="+fv.Value)
	}

	for _, w := range result.Warnings {
		c.logger.Warn(logCategory, w)
	}
	return result, nil
}

func (c *Client) addItem(ctx context.Context, projectID, contentID string) (string, error) {
	var resp addItemResponse
	vars := map[string]any{"projectId": projectID, "contentId": contentID}
	if err := c.gql.Run(ctx, addItemMutation, vars, &resp); err != nil {
		return "", err
	}
	id := resp.AddProjectV2ItemByID.Item.ID
	if id == "" {
		return "", fmt.Errorf("%w: no item id returned", domain.ErrGraphQL)
	}
	return id, nil
}

func (c *Client) setStatus(ctx context.Context, p *domain.ProjectDescriptor, itemID, status string) error {
	field, ok := p.StatusField()
	if !ok || field.DataType != domain.FieldTypeSingleSelect {
		return fmt.Errorf("%w: project %q has no single-select %s field", domain.ErrNotFound, p.Title, domain.StatusFieldName)
	}
	optionID, err := c.ResolveOptionID(ctx, field.ID, status)
	if err != nil {
		return err
	}
	return c.updateField(ctx, p.ID, itemID, field.ID, map[string]any{"singleSelectOptionId": optionID})
}

func (c *Client) setField(ctx context.Context, p *domain.ProjectDescriptor, itemID string, fv domain.FieldValue) error {
	field, ok := p.Field(fv.Name)
	if !ok {
		return fmt.Errorf("%w: field %q", domain.ErrNotFound, fv.Name)
	}

	var value map[string]any
	switch field.DataType {
	case domain.FieldTypeText:
		value = map[string]any{"text": fv.Value}
	case domain.FieldTypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(fv.Value), 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidFieldValue, fv.Value)
		}
		value = map[string]any{"number": n}
	case domain.FieldTypeDate:
		value = map[string]any{"date": fv.Value}
	case domain.FieldTypeSingleSelect:
		optionID, err := c.ResolveOptionID(ctx, field.ID, fv.Value)
		if err != nil {
			return err
		}
		value = map[string]any{"singleSelectOptionId": optionID}
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedField, field.DataType)
	}

	return c.updateField(ctx, p.ID, itemID, field.ID, value)
}

func (c *Client) updateField(ctx context.Context, projectID, itemID, fieldID string, value map[string]any) error {
	vars := map[string]any{
		"projectId": projectID,
		"itemId":    itemID,
		"fieldId":   fieldID,
		"value":     value,
	}
	return c.gql.Run(ctx, updateFieldMutation, vars, nil)
}

// ResolveOptionID returns the ID of the single-select option named name, ignoring case.
// Options are fetched once per field.
func (c *Client) ResolveOptionID(ctx context.Context, fieldID, name string) (string, error) {
	options, ok := c.options[fieldID]
	if !ok {
		var resp optionsResponse
		if err := c.gql.Run(ctx, fieldOptionsQuery, map[string]any{"fieldId": fieldID}, &resp); err != nil {
			return "", fmt.Errorf("failed to fetch field options: %w", err)
		}
		if resp.Node != nil {
			options = resp.Node.Options
		}
		c.options[fieldID] = options
	}

	for _, opt := range options {
		if strings.EqualFold(opt.Name, name) {
			return opt.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrOptionNotFound, name)
}
