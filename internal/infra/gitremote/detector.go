// Package gitremote detects the GitHub repository of a local checkout.
package gitremote

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/runoshun/tissue/internal/domain"
)

// Ensure Detector implements domain.RepoDetector interface.
var _ domain.RepoDetector = (*Detector)(nil)

const originRemote = "origin"

// Detector reads the origin remote with go-git.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns owner/repo of the origin remote for the checkout containing dir.
// Parent directories are searched for the .git directory.
func (d *Detector) Detect(dir string) (domain.RepoRef, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return domain.RepoRef{}, fmt.Errorf("not a git repository (%s): %w", dir, err)
	}

	remote, err := repo.Remote(originRemote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return domain.RepoRef{}, domain.ErrNoRemote
		}
		return domain.RepoRef{}, fmt.Errorf("failed to read remote %s: %w", originRemote, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return domain.RepoRef{}, domain.ErrNoRemote
	}
	return domain.ParseRemoteURL(urls[0])
}
