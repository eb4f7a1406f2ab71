package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/tissue/internal/app"
	"github.com/runoshun/tissue/internal/domain"
	"github.com/runoshun/tissue/internal/usecase"
)

// projectsFlags are shared by projects and projects show.
type projectsFlags struct {
	repo  string
	token string
}

// newProjectsCommand creates the projects command.
func newProjectsCommand(c *app.Container) *cobra.Command {
	var flags projectsFlags

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List project boards reachable from a repository",
		Long: `List the project boards linked to the repository, its owning organization
and the authenticated user.

Use "tissue projects show NAME" to see the columns and custom fields of a board.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, repo, err := listProjects(cmd, c, flags, "")
			if err != nil {
				return err
			}
			printProjectList(cmd.OutOrStdout(), repo, out.Projects)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.repo, "repo", "r", "", `GitHub repository in format "owner/repo-name"`)
	cmd.PersistentFlags().StringVarP(&flags.token, "token", "t", "", "GitHub personal access token")

	cmd.AddCommand(newProjectsShowCommand(c, &flags))

	return cmd
}

// newProjectsShowCommand creates the projects show subcommand.
func newProjectsShowCommand(c *app.Container, flags *projectsFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show columns and custom fields of a project board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _, err := listProjects(cmd, c, *flags, args[0])
			if err != nil {
				return err
			}
			printProjectDetails(cmd.OutOrStdout(), &out.Projects[0])
			return nil
		},
	}
}

func listProjects(cmd *cobra.Command, c *app.Container, flags projectsFlags, name string) (*usecase.ListProjectsOutput, domain.RepoRef, error) {
	cfg, err := c.ConfigLoader.Load()
	if err != nil {
		return nil, domain.RepoRef{}, err
	}
	repo, err := resolveRepo(c, flags.repo)
	if err != nil {
		return nil, domain.RepoRef{}, err
	}
	token, err := resolveToken(flags.token, cfg)
	if err != nil {
		return nil, domain.RepoRef{}, err
	}
	api, err := c.NewAPI(token, cfg.GitHub)
	if err != nil {
		return nil, domain.RepoRef{}, fmt.Errorf("failed to initialize GitHub client: %w", err)
	}

	logger := c.RunLogger(cfg, app.RunOptions{Console: cmd.ErrOrStderr()})
	defer func() { _ = logger.Close() }()

	out, err := c.ListProjectsUseCase(api, logger).Execute(cmd.Context(), usecase.ListProjectsInput{
		Name: name,
		Repo: repo,
	})
	return out, repo, err
}

func printProjectList(w io.Writer, repo domain.RepoRef, projects []domain.ProjectDescriptor) {
	if len(projects) == 0 {
		_, _ = fmt.Fprintf(w, "No projects found for %s\n", repo)
		return
	}
	_, _ = fmt.Fprintf(w, "Projects for %s:\n", repo)
	for _, p := range projects {
		_, _ = fmt.Fprintf(w, "  #%-4d %s (%s)\n", p.Number, p.Title, p.Scope)
		_, _ = fmt.Fprintf(w, "        %s\n", p.URL)
	}
}

func printProjectDetails(w io.Writer, p *domain.ProjectDescriptor) {
	_, _ = fmt.Fprintln(w, headingStyle.Render(p.Title))
	_, _ = fmt.Fprintf(w, "Number: %d\n", p.Number)
	_, _ = fmt.Fprintf(w, "Scope:  %s\n", p.Scope)
	_, _ = fmt.Fprintf(w, "URL:    %s\n", p.URL)

	_, _ = fmt.Fprintln(w, "\nColumns:")
	if len(p.Columns) == 0 {
		_, _ = fmt.Fprintln(w, "  (none)")
	}
	def := domain.DefaultColumn(p)
	for _, col := range p.Columns {
		if def != nil && col.ID == def.ID {
			_, _ = fmt.Fprintf(w, "  - %s (default)\n", col.Name)
			continue
		}
		_, _ = fmt.Fprintf(w, "  - %s\n", col.Name)
	}

	_, _ = fmt.Fprintln(w, "\nFields:")
	if len(p.Fields) == 0 {
		_, _ = fmt.Fprintln(w, "  (none)")
	}
	for _, f := range p.Fields {
		if len(f.Options) > 0 {
			_, _ = fmt.Fprintf(w, "  - %s [%s]: %s\n", f.Name, f.DataType, strings.Join(f.Options, ", "))
			continue
		}
		_, _ = fmt.Fprintf(w, "  - %s [%s]\n", f.Name, f.DataType)
	}
}
