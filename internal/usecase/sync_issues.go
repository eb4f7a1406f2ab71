package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/runoshun/tissue/internal/domain"
)

const syncCategory = "sync"

// SyncOptions configures an IssueSynchronizer.
type SyncOptions struct {
	LabelColor       string        // Color for labels created on the fly
	LabelDescription string        // Description for labels created on the fly
	Delay            time.Duration // Pause between records
}

// SyncOptionsFromConfig builds SyncOptions from the [sync] config section.
// Empty values fall back to the defaults.
func SyncOptionsFromConfig(cfg domain.SyncConfig) SyncOptions {
	opts := SyncOptions{
		LabelColor:       cfg.LabelColor,
		LabelDescription: cfg.LabelDescription,
		Delay:            cfg.Delay(),
	}
	if opts.LabelColor == "" {
		opts.LabelColor = domain.DefaultLabelColor
	}
	if opts.LabelDescription == "" {
		opts.LabelDescription = domain.DefaultLabelDescription
	}
	return opts
}

// IssueSynchronizer creates issues from records, one at a time, against a connected repository.
// It owns the run-scoped title snapshot and label cache.
// Fields are ordered to minimize memory padding.
type IssueSynchronizer struct {
	tracker domain.Tracker
	clock   domain.Clock
	logger  domain.Logger
	repo    *domain.Repository
	titles  *domain.TitleIndex
	labels  *domain.LabelCache
	opts    SyncOptions
}

// NewIssueSynchronizer creates a new IssueSynchronizer.
func NewIssueSynchronizer(tracker domain.Tracker, clock domain.Clock, logger domain.Logger, opts SyncOptions) *IssueSynchronizer {
	return &IssueSynchronizer{
		tracker: tracker,
		clock:   clock,
		logger:  logger,
		opts:    opts,
	}
}

// Connect verifies the token and resolves the target repository.
// It returns domain.ErrAuth when the token owner cannot be identified and
// domain.ErrRepoNotFound when the repository is missing or not accessible.
func (s *IssueSynchronizer) Connect(ctx context.Context, ref domain.RepoRef) error {
	login, err := s.tracker.AuthenticatedUser(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAuth, err)
	}
	s.logger.Info(syncCategory, fmt.Sprintf("Connected to GitHub as: %s", login))

	repo, err := s.tracker.GetRepository(ctx, ref)
	if err != nil {
		var apiErr *domain.APIError
		switch {
		case errors.Is(err, domain.ErrAuth):
			return fmt.Errorf("%w: %w", domain.ErrAuth, err)
		case errors.Is(err, domain.ErrNotFound),
			errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %s", domain.ErrRepoNotFound, ref)
		default:
			return fmt.Errorf("failed to connect to %s: %w", ref, err)
		}
	}
	s.logger.Info(syncCategory, fmt.Sprintf("Repository: %s", repo.FullName))

	s.repo = repo
	s.titles = nil
	s.labels = nil
	return nil
}

// Repository returns the connected repository, or nil before Connect.
func (s *IssueSynchronizer) Repository() *domain.Repository {
	return s.repo
}

// Synchronize creates one issue per record, in order, and returns one outcome per record.
// Per-record failures never abort the batch. If ctx is cancelled between records, the
// remaining records are reported as failed.
func (s *IssueSynchronizer) Synchronize(ctx context.Context, records []domain.IssueRecord) (*domain.BatchSummary, error) {
	if s.repo == nil {
		return nil, domain.ErrNotConnected
	}

	s.logger.Info(syncCategory, fmt.Sprintf("Starting batch creation of %d issues...", len(records)))
	s.ensureSnapshot(ctx)

	summary := domain.NewBatchSummary()
	for i, rec := range records {
		if i > 0 && s.opts.Delay > 0 {
			s.clock.Sleep(s.opts.Delay)
		}
		if err := ctx.Err(); err != nil {
			for _, rest := range records[i:] {
				summary.Add(domain.Failed(rest, fmt.Sprintf("cancelled: %v", err)))
			}
			s.logger.Warn(syncCategory, fmt.Sprintf("cancelled after %d of %d issues", i, len(records)))
			break
		}

		s.logger.Info(syncCategory, fmt.Sprintf("Processing issue %d/%d: %s", i+1, len(records), rec.Title))
		outcome := s.syncOne(ctx, rec)
		switch outcome.Kind {
		case domain.OutcomeCreated:
			s.logger.Info(syncCategory, fmt.Sprintf("  ✓ Created: %s", outcome.Issue.URL))
		case domain.OutcomeSkipped:
			s.logger.Info(syncCategory, fmt.Sprintf("  ⊝ Skipped: %s", outcome.Reason))
		default:
			s.logger.Error(syncCategory, fmt.Sprintf("  ✗ Failed: %s", outcome.Reason))
		}
		summary.Add(outcome)
	}

	return summary, nil
}

func (s *IssueSynchronizer) syncOne(ctx context.Context, rec domain.IssueRecord) domain.IssueOutcome {
	if s.titles.Contains(rec.Title) {
		return domain.Skipped(rec, fmt.Sprintf("Issue with title '%s' already exists", rec.Title))
	}

	issue, err := s.tracker.CreateIssue(ctx, s.repo.Ref, domain.NewIssue{
		Title:    rec.Title,
		Body:     rec.Description,
		Assignee: s.validateAssignee(ctx, rec.Assignee),
		Labels:   s.EnsureLabelsExist(ctx, rec.Labels),
	})
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			return domain.Failed(rec, "GitHub API error: "+apiErr.Message)
		}
		return domain.Failed(rec, "Unexpected error: "+err.Error())
	}
	return domain.Created(rec, issue)
}

// ensureSnapshot fetches existing titles and labels once per connection.
func (s *IssueSynchronizer) ensureSnapshot(ctx context.Context) {
	s.ensureTitles(ctx)
	s.ensureLabels(ctx)
}

// ensureTitles builds the title snapshot. A failing fetch leaves it empty.
func (s *IssueSynchronizer) ensureTitles(ctx context.Context) {
	if s.titles != nil {
		return
	}
	titles, err := s.tracker.ListOpenIssueTitles(ctx, s.repo.Ref)
	if err != nil {
		s.logger.Warn(syncCategory, fmt.Sprintf("Could not cache existing issues: %v", err))
	}
	s.titles = domain.NewTitleIndex(titles)
	s.logger.Debug(syncCategory, fmt.Sprintf("Found %d existing open issues", s.titles.Len()))
}

// ensureLabels builds the label cache. A failing fetch leaves it empty.
func (s *IssueSynchronizer) ensureLabels(ctx context.Context) {
	if s.labels != nil {
		return
	}
	labels, err := s.tracker.ListLabels(ctx, s.repo.Ref)
	if err != nil {
		s.logger.Warn(syncCategory, fmt.Sprintf("Could not cache existing labels: %v", err))
	}
	s.labels = domain.NewLabelCache(labels)
	s.logger.Debug(syncCategory, fmt.Sprintf("Found %d existing labels", s.labels.Len()))
}

// validateAssignee returns the assignee if they can be assigned, or "" with a warning.
func (s *IssueSynchronizer) validateAssignee(ctx context.Context, assignee string) string {
	if assignee == "" {
		return ""
	}
	if err := s.tracker.CheckCollaborator(ctx, s.repo.Ref, assignee); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn(syncCategory, fmt.Sprintf("Assignee '%s' not found or no repo access. Creating issue without assignee.", assignee))
		} else {
			s.logger.Warn(syncCategory, fmt.Sprintf("Could not validate assignee '%s': %v. Creating issue without assignee.", assignee, err))
		}
		return ""
	}
	return assignee
}

// EnsureLabelsExist maps labels to their canonical repository spelling, creating
// missing ones. Labels that cannot be created are dropped with a warning.
// Created labels are visible to later calls. It returns nil before Connect.
func (s *IssueSynchronizer) EnsureLabelsExist(ctx context.Context, labels []string) []string {
	if len(labels) == 0 || s.repo == nil {
		return nil
	}
	s.ensureLabels(ctx)

	valid := make([]string, 0, len(labels))
	for _, label := range labels {
		if canonical, ok := s.labels.Lookup(label); ok {
			valid = append(valid, canonical)
			continue
		}

		name, err := s.tracker.CreateLabel(ctx, s.repo.Ref, domain.LabelSpec{
			Name:        label,
			Color:       s.opts.LabelColor,
			Description: s.opts.LabelDescription,
		})
		if err != nil {
			s.logger.Warn(syncCategory, fmt.Sprintf("Could not create label '%s': %v", label, err))
			continue
		}
		s.labels.Add(name)
		valid = append(valid, name)
		s.logger.Info(syncCategory, fmt.Sprintf("  Created new label: '%s'", label))
	}
	return valid
}
