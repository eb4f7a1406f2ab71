package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/tissue/internal/app"
	"github.com/runoshun/tissue/internal/domain"
)

// resolveToken returns the --token value, or the value of the environment
// variable named by [github] token_env.
func resolveToken(flag string, cfg *domain.Config) (string, error) {
	if token := strings.TrimSpace(flag); token != "" {
		return token, nil
	}
	env := cfg.GitHub.TokenEnv
	if env == "" {
		env = domain.DefaultTokenEnv
	}
	if token := strings.TrimSpace(os.Getenv(env)); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("%w: use --token or set %s", domain.ErrNoToken, env)
}

// resolveRepo returns the --repo value, or the origin remote of the
// repository containing the working directory.
func resolveRepo(c *app.Container, flag string) (domain.RepoRef, error) {
	if flag != "" {
		return domain.ParseRepoRef(flag)
	}
	ref, err := c.Repos.Detect(c.Config.WorkDir)
	if err != nil {
		return domain.RepoRef{}, fmt.Errorf("no --repo given and the repository could not be detected: %w", err)
	}
	return ref, nil
}
