package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// RepoRef identifies a repository as owner/name.
type RepoRef struct {
	Owner string
	Name  string
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// IsZero reports whether the reference is unset.
func (r RepoRef) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}

// GitHub limits for account and repository names.
const (
	maxOwnerLength = 39
	maxRepoLength  = 100
)

var repoRefPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+/[a-zA-Z0-9._-]+$`)

// ParseRepoRef parses and validates an "owner/repo" string.
func ParseRepoRef(s string) (RepoRef, error) {
	s = strings.TrimSpace(s)
	if !repoRefPattern.MatchString(s) {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoRef, s)
	}
	owner, name, _ := strings.Cut(s, "/")
	if len(owner) > maxOwnerLength || len(name) > maxRepoLength {
		return RepoRef{}, fmt.Errorf("%w: %q exceeds GitHub name limits", ErrInvalidRepoRef, s)
	}
	return RepoRef{Owner: owner, Name: name}, nil
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
// Supported forms:
//
//	https://github.com/owner/repo(.git)
//	ssh://git@github.com/owner/repo(.git)
//	git@github.com:owner/repo(.git)
func ParseRemoteURL(raw string) (RepoRef, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	var path string
	if i := strings.Index(s, "://"); i >= 0 {
		rest := s[i+3:]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoRef, raw)
		}
		path = rest[slash+1:]
	} else if at := strings.Index(s, "@"); at >= 0 {
		_, after, ok := strings.Cut(s[at:], ":")
		if !ok {
			return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoRef, raw)
		}
		path = after
	} else {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoRef, raw)
	}

	// Keep only the last two segments (GitHub Enterprise may prefix a path).
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoRef, raw)
	}
	return ParseRepoRef(parts[len(parts)-2] + "/" + parts[len(parts)-1])
}

// Repository is the resolved target repository.
type Repository struct {
	FullName string
	NodeID   string
	Ref      RepoRef
}

// NewIssue is the payload for issue creation.
// Fields are ordered to minimize memory padding.
type NewIssue struct {
	Title    string
	Body     string
	Assignee string // Empty means unassigned
	Labels   []string
}

// LabelSpec is the payload for label creation.
type LabelSpec struct {
	Name        string
	Color       string
	Description string
}

// CreatedIssue is the tracker's view of a newly created issue.
// Fields are ordered to minimize memory padding.
type CreatedIssue struct {
	URL    string `json:"url" yaml:"url"`
	NodeID string `json:"node_id" yaml:"node_id"`
	Number int    `json:"number" yaml:"number"`
}
