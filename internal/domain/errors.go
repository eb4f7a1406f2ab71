package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrValidation        = errors.New("validation error")
	ErrMissingColumns    = errors.New("missing required columns")
	ErrAuth              = errors.New("invalid GitHub token or insufficient permissions")
	ErrNotFound          = errors.New("not found")
	ErrRepoNotFound      = errors.New("repository not found or no access")
	ErrNotConnected      = errors.New("not connected (call Connect first)")
	ErrProjectNotFound   = errors.New("project not found")
	ErrOptionNotFound    = errors.New("field option not found")
	ErrInvalidRepoRef    = errors.New("invalid repository format (expected owner/repo-name)")
	ErrNoRecords         = errors.New("no valid issues found in file")
	ErrBatchFailures     = errors.New("one or more issues failed to be created")
	ErrNoToken           = errors.New("no GitHub token provided")
	ErrConflictingFlags  = errors.New("--quiet and --verbose cannot be used together")
	ErrNoRemote          = errors.New("no origin remote found")
	ErrGraphQL           = errors.New("GraphQL errors")
	ErrConfigExists      = errors.New("config file already exists")
	ErrEmptyFile         = errors.New("file is empty")
	ErrUnsupportedField  = errors.New("unsupported field type")
	ErrInvalidFieldValue = errors.New("invalid field value")
)

// APIError is an error reported by the remote tracker API.
// Fields are ordered to minimize memory padding.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// Unwrap maps well-known status codes onto domain errors so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 401:
		return ErrAuth
	case 404:
		return ErrNotFound
	default:
		return nil
	}
}
