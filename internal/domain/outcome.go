package domain

// OutcomeKind classifies the result of attempting to create one record.
type OutcomeKind string

// Outcome kinds.
const (
	OutcomeCreated OutcomeKind = "created"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeFailed  OutcomeKind = "failed"
)

// IssueOutcome is the result for one record.
// Issue is set only for OutcomeCreated; Reason holds the skip reason or failure message.
// Fields are ordered to minimize memory padding.
type IssueOutcome struct {
	Issue     *CreatedIssue
	Placement *Placement // Project board diagnostics; never changes Kind
	Kind      OutcomeKind
	Reason    string
	Record    IssueRecord
}

// Created returns a created outcome.
func Created(rec IssueRecord, issue *CreatedIssue) IssueOutcome {
	return IssueOutcome{Kind: OutcomeCreated, Record: rec, Issue: issue}
}

// Skipped returns a skipped outcome.
func Skipped(rec IssueRecord, reason string) IssueOutcome {
	return IssueOutcome{Kind: OutcomeSkipped, Record: rec, Reason: reason}
}

// Failed returns a failed outcome.
func Failed(rec IssueRecord, message string) IssueOutcome {
	return IssueOutcome{Kind: OutcomeFailed, Record: rec, Reason: message}
}

// Placement records what happened when a created issue was placed on a project board.
// Fields are ordered to minimize memory padding.
type Placement struct {
	Project  string   `json:"project" yaml:"project"`
	Status   string   `json:"status,omitempty" yaml:"status,omitempty"`
	Applied  []string `json:"applied,omitempty" yaml:"applied,omitempty"`
	Problems []string `json:"problems,omitempty" yaml:"problems,omitempty"`
	Attached bool     `json:"attached" yaml:"attached"`
}

// OK reports whether the placement completed without any problem.
func (p *Placement) OK() bool {
	return p != nil && p.Attached && len(p.Problems) == 0
}

// BatchSummary aggregates the outcomes of one batch.
// Total always equals Successful+Failed+Skipped and len(Outcomes); Outcomes keep input order.
type BatchSummary struct {
	Outcomes   []IssueOutcome
	Total      int
	Successful int
	Failed     int
	Skipped    int
}

// NewBatchSummary builds a summary from outcomes.
func NewBatchSummary(outcomes ...IssueOutcome) *BatchSummary {
	s := &BatchSummary{Outcomes: make([]IssueOutcome, 0, len(outcomes))}
	for _, o := range outcomes {
		s.Add(o)
	}
	return s
}

// Add appends an outcome and updates the counts.
func (s *BatchSummary) Add(o IssueOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	s.Total++
	switch o.Kind {
	case OutcomeCreated:
		s.Successful++
	case OutcomeSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// ByKind returns the outcomes of the given kind in input order.
func (s *BatchSummary) ByKind(kind OutcomeKind) []IssueOutcome {
	var out []IssueOutcome
	for _, o := range s.Outcomes {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// HasFailures reports whether any record failed.
func (s *BatchSummary) HasFailures() bool {
	return s.Failed > 0
}
