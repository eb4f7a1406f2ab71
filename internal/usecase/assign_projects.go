package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/tissue/internal/domain"
)

const projectCategory = "project"

// statusColumnKeys are the source columns a board status is read from, in priority order.
var statusColumnKeys = []string{"status", "column", "project_status", "state"}

// PlacementOptions configures a ProjectAssignmentCoordinator.
type PlacementOptions struct {
	Columns       domain.ColumnMap // Headers consumed by the issue itself; never used as custom fields
	DefaultStatus bool             // Place rows without a status in the default column
}

// ProjectAssignmentCoordinator places created issues on a project board.
// Placement problems are recorded on the outcome and never change its kind.
type ProjectAssignmentCoordinator struct {
	boards domain.ProjectBoards
	logger domain.Logger
	opts   PlacementOptions
}

// NewProjectAssignmentCoordinator creates a new ProjectAssignmentCoordinator.
func NewProjectAssignmentCoordinator(boards domain.ProjectBoards, logger domain.Logger, opts PlacementOptions) *ProjectAssignmentCoordinator {
	return &ProjectAssignmentCoordinator{
		boards: boards,
		logger: logger,
		opts:   opts,
	}
}

// Place assigns every created issue in summary to project.
func (c *ProjectAssignmentCoordinator) Place(ctx context.Context, project *domain.ProjectDescriptor, summary *domain.BatchSummary) {
	for i := range summary.Outcomes {
		o := &summary.Outcomes[i]
		if o.Kind != domain.OutcomeCreated || o.Issue == nil {
			continue
		}
		o.Placement = c.placeOne(ctx, project, o)
	}
}

func (c *ProjectAssignmentCoordinator) placeOne(ctx context.Context, project *domain.ProjectDescriptor, o *domain.IssueOutcome) *domain.Placement {
	status, fields := c.ExtractOverrides(project, o.Record)
	if status == "" && c.opts.DefaultStatus {
		if col := c.boards.ResolveDefaultColumn(project); col != nil {
			status = col.Name
		}
	}

	placement := &domain.Placement{Project: project.Title, Status: status}

	if ok, errs := c.boards.Validate(project, status, fields); !ok {
		placement.Problems = append(placement.Problems, errs...)
		for _, e := range errs {
			c.logger.Warn(projectCategory, fmt.Sprintf("issue #%d: %s", o.Issue.Number, e))
		}
	}

	result, err := c.boards.Assign(ctx, project, o.Issue.NodeID, status, fields)
	if err != nil {
		placement.Problems = append(placement.Problems, err.Error())
		c.logger.Error(projectCategory, fmt.Sprintf("issue #%d: %v", o.Issue.Number, err))
		return placement
	}

	placement.Attached = true
	placement.Applied = result.Applied
	placement.Problems = append(placement.Problems, result.Warnings...)
	c.logger.Info(projectCategory, fmt.Sprintf("  Added issue #%d to project '%s'", o.Issue.Number, project.Title))
	for _, applied := range result.Applied {
		c.logger.Debug(projectCategory, "    "+applied)
	}
	return placement
}

// ExtractOverrides reads the board status and custom field values from a record's
// source columns. The status comes from the first non-empty status column. Custom
// fields are the remaining non-empty columns named like a project field, in board order.
func (c *ProjectAssignmentCoordinator) ExtractOverrides(project *domain.ProjectDescriptor, rec domain.IssueRecord) (string, []domain.FieldValue) {
	var status string
	for _, key := range statusColumnKeys {
		if v := strings.TrimSpace(rec.Columns[key]); v != "" {
			status = v
			break
		}
	}

	var fields []domain.FieldValue
	for _, field := range project.Fields {
		key := strings.ToLower(field.Name)
		if c.isReserved(key) {
			continue
		}
		v := strings.TrimSpace(rec.Columns[key])
		if v == "" {
			continue
		}
		fields = append(fields, domain.FieldValue{Name: field.Name, Value: v})
	}
	return status, fields
}

// isReserved reports whether a lower-cased header feeds the issue or the status.
func (c *ProjectAssignmentCoordinator) isReserved(key string) bool {
	for _, k := range statusColumnKeys {
		if k == key {
			return true
		}
	}
	for _, f := range domain.LogicalFields {
		if string(f) == key {
			return true
		}
	}
	return c.opts.Columns.IsStandard(key)
}
