package gitremote

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/tissue/internal/domain"
)

func initRepo(t *testing.T, remoteURL string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	if remoteURL != "" {
		_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{remoteURL}})
		require.NoError(t, err)
	}
	return dir
}

func TestDetector_Detect(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"https", "https://github.com/acme/widgets.git"},
		{"ssh scp form", "git@github.com:acme/widgets.git"},
		{"ssh url", "ssh://git@github.com/acme/widgets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := initRepo(t, tt.url)

			ref, err := NewDetector().Detect(dir)

			require.NoError(t, err)
			assert.Equal(t, domain.RepoRef{Owner: "acme", Name: "widgets"}, ref)
		})
	}
}

func TestDetector_Detect_Subdirectory(t *testing.T) {
	dir := initRepo(t, "https://github.com/acme/widgets")
	sub := filepath.Join(dir, "docs", "issues")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	ref, err := NewDetector().Detect(sub)

	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", ref.String())
}

func TestDetector_Detect_NoRemote(t *testing.T) {
	dir := initRepo(t, "")

	_, err := NewDetector().Detect(dir)

	assert.ErrorIs(t, err, domain.ErrNoRemote)
}

func TestDetector_Detect_NotARepository(t *testing.T) {
	_, err := NewDetector().Detect(t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a git repository")
}
