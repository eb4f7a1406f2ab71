package domain

import (
	"time"

	"github.com/google/uuid"
)

// NewRunID returns a fresh identifier for one import run.
func NewRunID() string {
	return uuid.NewString()
}

// ShortRunID returns the first block of a run ID for log prefixes.
func ShortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RunReport is the persisted record of one import run.
// Fields are ordered to minimize memory padding.
type RunReport struct {
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time     `json:"finished_at" yaml:"finished_at"`
	RunID      string        `json:"run_id" yaml:"run_id"`
	Repository string        `json:"repository" yaml:"repository"`
	Project    string        `json:"project,omitempty" yaml:"project,omitempty"`
	Source     string        `json:"source" yaml:"source"`
	Entries    []ReportEntry `json:"entries" yaml:"entries"`
	Total      int           `json:"total" yaml:"total"`
	Successful int           `json:"successful" yaml:"successful"`
	Failed     int           `json:"failed" yaml:"failed"`
	Skipped    int           `json:"skipped" yaml:"skipped"`
}

// ReportEntry is one record's line in a RunReport.
// Fields are ordered to minimize memory padding.
type ReportEntry struct {
	Issue     *CreatedIssue `json:"issue,omitempty" yaml:"issue,omitempty"`
	Placement *Placement    `json:"placement,omitempty" yaml:"placement,omitempty"`
	Title     string        `json:"title" yaml:"title"`
	Outcome   OutcomeKind   `json:"outcome" yaml:"outcome"`
	Reason    string        `json:"reason,omitempty" yaml:"reason,omitempty"`
	Line      int           `json:"line,omitempty" yaml:"line,omitempty"`
}

// NewRunReport builds a report from a batch summary.
func NewRunReport(runID, source string, repo RepoRef, project string, started, finished time.Time, s *BatchSummary) *RunReport {
	r := &RunReport{
		RunID:      runID,
		Source:     source,
		Repository: repo.String(),
		Project:    project,
		StartedAt:  started,
		FinishedAt: finished,
		Entries:    make([]ReportEntry, 0, len(s.Outcomes)),
		Total:      s.Total,
		Successful: s.Successful,
		Failed:     s.Failed,
		Skipped:    s.Skipped,
	}
	for _, o := range s.Outcomes {
		r.Entries = append(r.Entries, ReportEntry{
			Title:     o.Record.Title,
			Line:      o.Record.Line,
			Outcome:   o.Kind,
			Reason:    o.Reason,
			Issue:     o.Issue,
			Placement: o.Placement,
		})
	}
	return r
}
