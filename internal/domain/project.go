package domain

import (
	"fmt"
	"strings"
)

// FieldDataType is the data type reported for a project field.
type FieldDataType string

// Field data types handled by the field mutation dispatch.
// Other types reported by the API are kept verbatim and treated as unsupported.
const (
	FieldTypeText         FieldDataType = "TEXT"
	FieldTypeSingleSelect FieldDataType = "SINGLE_SELECT"
	FieldTypeNumber       FieldDataType = "NUMBER"
	FieldTypeDate         FieldDataType = "DATE"
	FieldTypeIteration    FieldDataType = "ITERATION"
)

// ProjectScope is the ownership context a project was discovered in.
type ProjectScope string

// Discovery scopes.
const (
	ScopeRepository   ProjectScope = "repository"
	ScopeOrganization ProjectScope = "organization"
	ScopeUser         ProjectScope = "user"
)

// StatusFieldName is the conventional name of the board status field.
const StatusFieldName = "Status"

// builtinFieldNames are project fields that map onto issue properties and are never
// treated as custom fields.
var builtinFieldNames = map[string]bool{
	"title":      true,
	"assignees":  true,
	"labels":     true,
	"repository": true,
}

// defaultColumnHints mark a synthesized status column as a default candidate.
var defaultColumnHints = map[string]bool{"todo": true, "backlog": true, "new": true}

// defaultColumnNames are the names ResolveDefaultColumn falls back to.
var defaultColumnNames = []string{"backlog", "todo", "to do", "new", "inbox", "triage"}

// IsBuiltinField reports whether a field name is one of the built-in issue fields.
func IsBuiltinField(name string) bool {
	return builtinFieldNames[strings.ToLower(name)]
}

// ProjectField is a custom field of a project board.
// Options is non-empty only for single-select fields.
type ProjectField struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	DataType FieldDataType `json:"data_type" yaml:"data_type"`
	Options  []string      `json:"options,omitempty" yaml:"options,omitempty"`
}

// Option returns the declared option matching name case-insensitively.
func (f ProjectField) Option(name string) (string, bool) {
	for _, opt := range f.Options {
		if strings.EqualFold(opt, name) {
			return opt, true
		}
	}
	return "", false
}

// ProjectColumn is a board column, either a view or a synthesized status option.
type ProjectColumn struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	IsDefault bool   `json:"is_default,omitempty" yaml:"is_default,omitempty"`
}

// ProjectDescriptor describes a discovered project board and its schema.
// Fields are ordered to minimize memory padding.
type ProjectDescriptor struct {
	ID      string
	Title   string
	URL     string
	Scope   ProjectScope
	Columns []ProjectColumn
	Fields  []ProjectField
	Number  int
}

// Field returns the custom field matching name case-insensitively.
func (p *ProjectDescriptor) Field(name string) (*ProjectField, bool) {
	for i := range p.Fields {
		if strings.EqualFold(p.Fields[i].Name, name) {
			return &p.Fields[i], true
		}
	}
	return nil, false
}

// StatusField returns the field named "Status", if any.
func (p *ProjectDescriptor) StatusField() (*ProjectField, bool) {
	return p.Field(StatusFieldName)
}

// Column returns the column matching name case-insensitively.
func (p *ProjectDescriptor) Column(name string) (*ProjectColumn, bool) {
	for i := range p.Columns {
		if strings.EqualFold(p.Columns[i].Name, name) {
			return &p.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns column names in board order.
func (p *ProjectDescriptor) ColumnNames() []string {
	names := make([]string, 0, len(p.Columns))
	for _, c := range p.Columns {
		names = append(names, c.Name)
	}
	return names
}

// FieldNames returns custom field names in board order.
func (p *ProjectDescriptor) FieldNames() []string {
	names := make([]string, 0, len(p.Fields))
	for _, f := range p.Fields {
		names = append(names, f.Name)
	}
	return names
}

// StatusColumns synthesizes one column per option of a single-select Status field.
// The first option and options named like a starting column are default candidates.
func StatusColumns(fields []ProjectField) []ProjectColumn {
	var status *ProjectField
	for i := range fields {
		if strings.EqualFold(fields[i].Name, StatusFieldName) {
			status = &fields[i]
			break
		}
	}
	if status == nil || status.DataType != FieldTypeSingleSelect {
		return nil
	}

	cols := make([]ProjectColumn, 0, len(status.Options))
	for i, opt := range status.Options {
		lower := strings.ToLower(opt)
		cols = append(cols, ProjectColumn{
			ID:        "status-" + strings.ReplaceAll(lower, " ", "-"),
			Name:      opt,
			IsDefault: i == 0 || defaultColumnHints[lower],
		})
	}
	return cols
}

// DefaultColumn picks the column new issues should land in: an explicit default,
// else the first column with a conventional starting name, else the first column.
// It returns nil for a project without columns.
func DefaultColumn(p *ProjectDescriptor) *ProjectColumn {
	for i := range p.Columns {
		if p.Columns[i].IsDefault {
			return &p.Columns[i]
		}
	}
	for _, name := range defaultColumnNames {
		if col, ok := p.Column(name); ok {
			return col
		}
	}
	if len(p.Columns) > 0 {
		return &p.Columns[0]
	}
	return nil
}

// FieldValue is a requested custom field value, keyed by field name.
type FieldValue struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ValidateOverrides checks a status and custom field values against a project schema.
// It never fails early: every violation is reported.
func ValidateOverrides(p *ProjectDescriptor, status string, fields []FieldValue) (bool, []string) {
	var errs []string

	if status != "" {
		if _, ok := p.Column(status); !ok {
			errs = append(errs, fmt.Sprintf("invalid status %q (available: %s)",
				status, strings.Join(p.ColumnNames(), ", ")))
		}
	}

	for _, fv := range fields {
		field, ok := p.Field(fv.Name)
		if !ok {
			errs = append(errs, fmt.Sprintf("invalid field %q (available: %s)",
				fv.Name, strings.Join(p.FieldNames(), ", ")))
			continue
		}
		if field.DataType == FieldTypeSingleSelect && len(field.Options) > 0 {
			if _, ok := field.Option(fv.Value); !ok {
				errs = append(errs, fmt.Sprintf("invalid value %q for field %q (available: %s)",
					fv.Value, fv.Name, strings.Join(field.Options, ", ")))
			}
		}
	}

	return len(errs) == 0, errs
}

// AssignResult describes a completed board assignment.
// Applied lists the values set; Warnings lists values that could not be set.
type AssignResult struct {
	ItemID   string
	Applied  []string
	Warnings []string
}
