// Package report writes run reports as JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/tissue/internal/domain"
)

// Ensure Writer implements domain.ReportWriter interface.
var _ domain.ReportWriter = (*Writer)(nil)

// Format is a report serialization format.
type Format string

// Report formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from the file extension. Unknown extensions use JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Writer writes reports to files.
type Writer struct{}

// NewWriter creates a new report writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write serializes report in the format implied by path and writes it atomically.
func (w *Writer) Write(path string, report *domain.RunReport) error {
	content, err := Marshal(FormatFor(path), report)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Marshal serializes a report.
func Marshal(format Format, report *domain.RunReport) ([]byte, error) {
	switch format {
	case FormatYAML:
		content, err := yaml.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("marshal report: %w", err)
		}
		return content, nil
	default:
		content, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal report: %w", err)
		}
		return append(content, '\n'), nil
	}
}
