package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RepoRef
		wantErr bool
	}{
		{name: "simple", input: "acme/widgets", want: RepoRef{Owner: "acme", Name: "widgets"}},
		{name: "dots and dashes", input: " my-org/my.repo_v2 ", want: RepoRef{Owner: "my-org", Name: "my.repo_v2"}},
		{name: "no slash", input: "widgets", wantErr: true},
		{name: "empty owner", input: "/widgets", wantErr: true},
		{name: "three segments", input: "a/b/c", wantErr: true},
		{name: "space", input: "acme/wid gets", wantErr: true},
		{name: "owner too long", input: strings.Repeat("a", 40) + "/widgets", wantErr: true},
		{name: "name too long", input: "acme/" + strings.Repeat("w", 101), wantErr: true},
		{name: "limits", input: strings.Repeat("a", 39) + "/" + strings.Repeat("w", 100),
			want: RepoRef{Owner: strings.Repeat("a", 39), Name: strings.Repeat("w", 100)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepoRef(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRepoRef)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepoRef_String(t *testing.T) {
	assert.Equal(t, "acme/widgets", RepoRef{Owner: "acme", Name: "widgets"}.String())
}

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "https", url: "https://github.com/acme/widgets.git", want: "acme/widgets"},
		{name: "https without suffix", url: "https://github.com/acme/widgets/", want: "acme/widgets"},
		{name: "scp style", url: "git@github.com:acme/widgets.git", want: "acme/widgets"},
		{name: "ssh scheme", url: "ssh://git@github.com/acme/widgets", want: "acme/widgets"},
		{name: "enterprise path prefix", url: "https://ghe.example.com/scm/acme/widgets.git", want: "acme/widgets"},
		{name: "local path", url: "/srv/git/widgets", wantErr: true},
		{name: "host only", url: "https://github.com", wantErr: true},
		{name: "owner only", url: "https://github.com/acme", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRemoteURL(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRepoRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    *APIError
		msg    string
		target error
	}{
		{name: "unauthorized", err: &APIError{Message: "Bad credentials", StatusCode: 401}, msg: "Bad credentials (HTTP 401)", target: ErrAuth},
		{name: "not found", err: &APIError{Message: "Not Found", StatusCode: 404}, msg: "Not Found (HTTP 404)", target: ErrNotFound},
		{name: "no status", err: &APIError{Message: "rate limited"}, msg: "rate limited"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.msg, tt.err.Error())
			if tt.target != nil {
				assert.ErrorIs(t, tt.err, tt.target)
			} else {
				assert.NoError(t, tt.err.Unwrap())
			}
		})
	}
}
