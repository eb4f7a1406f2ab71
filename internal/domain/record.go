package domain

import (
	"fmt"
	"strings"
)

// IssueRecord is one normalized issue specification derived from one input row.
// Fields are ordered to minimize memory padding.
type IssueRecord struct {
	Columns     map[string]string `json:"-" yaml:"-"` // Source row keyed by lower-cased header
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Assignee    string            `json:"assignee,omitempty" yaml:"assignee,omitempty"` // Empty means no assignee
	Labels      []string          `json:"labels,omitempty" yaml:"labels,omitempty"`
	Line        int               `json:"line,omitempty" yaml:"line,omitempty"` // 1-based line in the source file
}

// LogicalField is one of the four fields an input row maps onto.
type LogicalField string

// Logical fields.
const (
	FieldTitle       LogicalField = "title"
	FieldDescription LogicalField = "description"
	FieldAssignee    LogicalField = "assignee"
	FieldLabels      LogicalField = "labels"
)

// LogicalFields lists the logical fields in resolution order.
var LogicalFields = []LogicalField{FieldTitle, FieldDescription, FieldAssignee, FieldLabels}

// columnAliases maps each logical field to its accepted header names.
// Earlier aliases win when several are present.
var columnAliases = map[LogicalField][]string{
	FieldTitle:       {"issue title", "title", "issue", "summary", "name"},
	FieldDescription: {"description", "desc", "details", "body", "content"},
	FieldAssignee:    {"assignee", "assigned to", "owner", "responsible"},
	FieldLabels:      {"label", "labels", "tags", "category", "type"},
}

// requiredFields must resolve for a file to be accepted.
var requiredFields = []LogicalField{FieldTitle, FieldDescription}

// labelSeparators are tried in priority order; only the first one found is used.
var labelSeparators = []string{",", ";", "|"}

// ColumnAliases returns the accepted header names for a logical field.
func ColumnAliases(field LogicalField) []string {
	return append([]string(nil), columnAliases[field]...)
}

// ColumnMap maps logical fields to the header that provides them.
type ColumnMap map[LogicalField]string

// IsStandard reports whether the header was consumed by one of the logical fields.
func (m ColumnMap) IsStandard(header string) bool {
	for _, h := range m {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(header)) {
			return true
		}
	}
	return false
}

// ResolveColumns maps the four logical fields onto the given header row.
// Matching is case-insensitive and ignores surrounding whitespace.
// Title and description are required; a missing one yields ErrValidation.
func ResolveColumns(header []string) (ColumnMap, error) {
	m := make(ColumnMap, len(LogicalFields))
	for _, field := range LogicalFields {
		if h, ok := firstAliasMatch(header, columnAliases[field]); ok {
			m[field] = h
		}
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := m[field]; !ok {
			missing = append(missing, string(field))
		}
	}
	if len(missing) > 0 {
		available := make([]string, 0, len(header))
		for _, h := range header {
			available = append(available, strings.TrimSpace(h))
		}
		return nil, fmt.Errorf("%w: %w: %s (available columns: %s)",
			ErrValidation, ErrMissingColumns, strings.Join(missing, ", "), strings.Join(available, ", "))
	}
	return m, nil
}

func firstAliasMatch(header []string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		for _, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				return h, true
			}
		}
	}
	return "", false
}

// ParseLabels splits a raw label cell into label names.
// The first separator kind present (comma, then semicolon, then pipe) is the only one
// used to split, so "a,b;c" yields ["a", "b;c"].
func ParseLabels(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := []string{raw}
	for _, sep := range labelSeparators {
		if strings.Contains(raw, sep) {
			parts = strings.Split(raw, sep)
			break
		}
	}

	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}

// NormalizeRecords converts raw rows into issue records.
// Column resolution happens before any row is read, so a missing required column fails
// the whole input. Rows with an empty title are dropped with a warning; fully empty rows
// are dropped silently. logger may be nil.
func NormalizeRecords(header []string, rows [][]string, logger Logger) ([]IssueRecord, ColumnMap, error) {
	columns, err := ResolveColumns(header)
	if err != nil {
		return nil, nil, err
	}

	index := make(map[LogicalField]int, len(columns))
	for field, h := range columns {
		for i, candidate := range header {
			if candidate == h {
				index[field] = i
				break
			}
		}
	}

	cell := func(row []string, field LogicalField) string {
		i, ok := index[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]IssueRecord, 0, len(rows))
	for i, row := range rows {
		line := i + 2 // header is line 1
		if isBlankRow(row) {
			continue
		}

		title := cell(row, FieldTitle)
		if title == "" {
			if logger != nil {
				logger.Warn("parse", fmt.Sprintf("skipping row %d with empty title", line))
			}
			continue
		}

		records = append(records, IssueRecord{
			Title:       title,
			Description: cell(row, FieldDescription),
			Assignee:    cell(row, FieldAssignee),
			Labels:      ParseLabels(cell(row, FieldLabels)),
			Columns:     rowColumns(header, row),
			Line:        line,
		})
	}

	return records, columns, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// rowColumns keys a row by lower-cased header. The first occurrence of a header wins.
func rowColumns(header, row []string) map[string]string {
	cols := make(map[string]string, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, seen := cols[key]; seen {
			continue
		}
		value := ""
		if i < len(row) {
			value = strings.TrimSpace(row[i])
		}
		cols[key] = value
	}
	return cols
}
