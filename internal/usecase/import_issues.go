package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/runoshun/tissue/internal/domain"
)

const parseCategory = "parse"

// ImportIssuesInput contains the input for the ImportIssues use case.
// Fields are ordered to minimize memory padding.
type ImportIssuesInput struct {
	Path       string         // CSV file to import
	Project    string         // Project board title; empty skips placement
	ReportPath string         // Optional report file (.json, .yaml)
	Repo       domain.RepoRef // Target repository
	DryRun     bool           // Parse and preview only
}

// ImportIssuesOutput contains the output of the ImportIssues use case.
// Fields are ordered to minimize memory padding.
type ImportIssuesOutput struct {
	Summary *domain.BatchSummary      // Nil for a dry run
	Project *domain.ProjectDescriptor // Nil when no project was requested
	Report  *domain.RunReport         // Nil unless a report path was given
	Columns domain.ColumnMap
	RunID   string
	Header  []string
	Records []domain.IssueRecord
}

// ImportIssues reads a CSV file and creates one issue per row, optionally placing the
// created issues on a project board.
// Fields are ordered to minimize memory padding.
type ImportIssues struct {
	api     domain.GitHubAPI
	boards  domain.BoardsFactory
	records domain.RecordSource
	reports domain.ReportWriter
	clock   domain.Clock
	logger  domain.Logger
	cfg     *domain.Config
	runID   string
}

// NewImportIssues creates a new ImportIssues use case.
// api may be nil for dry runs.
func NewImportIssues(
	api domain.GitHubAPI,
	boards domain.BoardsFactory,
	records domain.RecordSource,
	reports domain.ReportWriter,
	clock domain.Clock,
	logger domain.Logger,
	cfg *domain.Config,
	runID string,
) *ImportIssues {
	return &ImportIssues{
		api:     api,
		boards:  boards,
		records: records,
		reports: reports,
		clock:   clock,
		logger:  logger,
		cfg:     cfg,
		runID:   runID,
	}
}

// Execute runs the import.
// Parsing problems and connection failures abort the run. Per-issue failures are
// reported in the summary and do not make Execute fail.
func (uc *ImportIssues) Execute(ctx context.Context, in ImportIssuesInput) (*ImportIssuesOutput, error) {
	started := uc.clock.Now()

	header, rows, err := uc.records.Read(in.Path)
	if err != nil {
		return nil, err
	}

	records, columns, err := domain.NormalizeRecords(header, rows, uc.logger)
	if err != nil {
		return nil, err
	}
	uc.logger.Info(parseCategory, fmt.Sprintf("Parsed %d issues from %s", len(records), in.Path))
	uc.logger.Debug(parseCategory, "Column mapping: "+DescribeColumns(header, columns))

	if len(records) == 0 {
		return nil, domain.ErrNoRecords
	}

	out := &ImportIssuesOutput{
		RunID:   uc.runID,
		Header:  header,
		Columns: columns,
		Records: records,
	}
	if in.DryRun {
		return out, nil
	}

	sync := NewIssueSynchronizer(uc.api, uc.clock, uc.logger, SyncOptionsFromConfig(uc.cfg.Sync))
	if err := sync.Connect(ctx, in.Repo); err != nil {
		return nil, err
	}

	var boards domain.ProjectBoards
	if in.Project != "" {
		boards = uc.boards(in.Repo)
		project, err := boards.Find(ctx, in.Project)
		if err != nil {
			return nil, err
		}
		out.Project = project
		uc.logger.Info(projectCategory, fmt.Sprintf("Using project: %s (%s)", project.Title, project.URL))
	}

	summary, err := sync.Synchronize(ctx, records)
	if err != nil {
		return nil, err
	}
	out.Summary = summary

	if out.Project != nil {
		coordinator := NewProjectAssignmentCoordinator(boards, uc.logger, PlacementOptions{
			Columns:       columns,
			DefaultStatus: uc.cfg.Project.DefaultStatus,
		})
		coordinator.Place(ctx, out.Project, summary)
	}

	if in.ReportPath != "" {
		project := ""
		if out.Project != nil {
			project = out.Project.Title
		}
		out.Report = domain.NewRunReport(uc.runID, in.Path, in.Repo, project, started, uc.clock.Now(), summary)
		if err := uc.reports.Write(in.ReportPath, out.Report); err != nil {
			return out, fmt.Errorf("failed to write report: %w", err)
		}
		uc.logger.Info(syncCategory, "Report written to "+in.ReportPath)
	}

	return out, nil
}

// DescribeColumns renders the column mapping, e.g.
// "title <- Title, description <- Desc; extra: Status, Size".
func DescribeColumns(header []string, columns domain.ColumnMap) string {
	parts := make([]string, 0, len(domain.LogicalFields))
	for _, f := range domain.LogicalFields {
		if h, ok := columns[f]; ok {
			parts = append(parts, fmt.Sprintf("%s <- %s", f, strings.TrimSpace(h)))
		}
	}

	var extra []string
	for _, h := range header {
		if h = strings.TrimSpace(h); h != "" && !columns.IsStandard(h) {
			extra = append(extra, h)
		}
	}
	sort.Strings(extra)

	desc := strings.Join(parts, ", ")
	if len(extra) > 0 {
		desc += "; extra: " + strings.Join(extra, ", ")
	}
	return desc
}
