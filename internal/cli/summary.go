package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/tissue/internal/domain"
)

// Summary palette.
var (
	colorSuccess = lipgloss.Color("#00B894") // Green
	colorError   = lipgloss.Color("#D63031") // Red
	colorWarning = lipgloss.Color("#FDCB6E") // Yellow
	colorMuted   = lipgloss.Color("#636E72") // Gray
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	ruleStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
)

const summaryWidth = 60

// printSummary prints the full batch summary: counts, failed and skipped
// issues, and project placement problems.
func printSummary(w io.Writer, s *domain.BatchSummary) {
	rule := ruleStyle.Render(strings.Repeat("=", summaryWidth))

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, rule)
	_, _ = fmt.Fprintln(w, headingStyle.Render("BATCH ISSUE CREATION SUMMARY"))
	_, _ = fmt.Fprintln(w, rule)
	_, _ = fmt.Fprintf(w, "Total issues processed: %d\n", s.Total)
	_, _ = fmt.Fprintf(w, "Successfully created:   %d\n", s.Successful)
	_, _ = fmt.Fprintf(w, "Skipped (duplicates):   %d\n", s.Skipped)
	_, _ = fmt.Fprintf(w, "Failed:                 %d\n", s.Failed)
	_, _ = fmt.Fprintln(w, rule)

	if failed := s.ByKind(domain.OutcomeFailed); len(failed) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, errorStyle.Render("FAILED ISSUES:"))
		for _, o := range failed {
			_, _ = fmt.Fprintf(w, "  • %s: %s\n", o.Record.Title, o.Reason)
		}
	}

	if skipped := s.ByKind(domain.OutcomeSkipped); len(skipped) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, warningStyle.Render("SKIPPED ISSUES:"))
		for _, o := range skipped {
			_, _ = fmt.Fprintf(w, "  • %s: %s\n", o.Record.Title, o.Reason)
		}
	}

	printPlacementProblems(w, s)

	if s.Successful > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✓ Successfully created %d issues!", s.Successful)))
	}
	_, _ = fmt.Fprintln(w)
}

// printPlacementProblems lists created issues whose project placement was incomplete.
func printPlacementProblems(w io.Writer, s *domain.BatchSummary) {
	var incomplete []domain.IssueOutcome
	for _, o := range s.ByKind(domain.OutcomeCreated) {
		if o.Placement != nil && !o.Placement.OK() {
			incomplete = append(incomplete, o)
		}
	}
	if len(incomplete) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, warningStyle.Render("PROJECT PLACEMENT ISSUES:"))
	for _, o := range incomplete {
		label := o.Record.Title
		if o.Issue != nil {
			label = fmt.Sprintf("#%d %s", o.Issue.Number, o.Record.Title)
		}
		if !o.Placement.Attached {
			_, _ = fmt.Fprintf(w, "  • %s: not added to %s\n", label, o.Placement.Project)
		} else {
			_, _ = fmt.Fprintf(w, "  • %s:\n", label)
		}
		for _, p := range o.Placement.Problems {
			_, _ = fmt.Fprintf(w, "      - %s\n", p)
		}
	}
}

// printQuietSummary prints only the count lines. Failures go to errW.
func printQuietSummary(w, errW io.Writer, s *domain.BatchSummary) {
	if s.Successful > 0 {
		_, _ = fmt.Fprintf(w, "Successfully created %d issues\n", s.Successful)
	}
	if s.Failed > 0 {
		_, _ = fmt.Fprintf(errW, "Failed to create %d issues\n", s.Failed)
	}
	if s.Skipped > 0 {
		_, _ = fmt.Fprintf(w, "Skipped %d duplicate issues\n", s.Skipped)
	}
}
