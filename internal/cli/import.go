package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/tissue/internal/app"
	"github.com/runoshun/tissue/internal/domain"
	"github.com/runoshun/tissue/internal/infra/logging"
	"github.com/runoshun/tissue/internal/usecase"
)

const cliCategory = "cli"

// importOptions holds the flags of the import command.
// Fields are ordered to minimize memory padding.
type importOptions struct {
	file    string
	repo    string
	token   string
	project string
	report  string
	dryRun  bool
	verbose bool
	quiet   bool
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import -f FILE",
		Short: "Create issues from a CSV file",
		Long: `Create one GitHub issue per CSV row.

Recognized headers (case-insensitive, first match wins):
  title:        issue title, title, issue, summary, name (required)
  description:  description, desc, details, body, content (required)
  assignee:     assignee, assigned to, owner, responsible
  labels:       label, labels, tags, category, type

Labels are split on the first separator found among "," ";" "|".
Rows whose title matches an open issue are skipped. Missing labels are created.

With --project, created issues are added to the named project board. A "status"
(or "column", "project_status", "state") column picks the board column; any other
unrecognized column whose header matches a project field sets that field.

The repository defaults to the origin remote of the current git repository.
The token defaults to the environment variable named by [github] token_env.

Exit status is 1 when any issue failed to be created.`,
		Example: `  tissue import -f issues.csv -r myorg/myproject
  tissue import -f issues.csv --project Roadmap --report run.json
  tissue import -f issues.csv --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd, c, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to CSV file containing issue data")
	cmd.Flags().StringVarP(&opts.repo, "repo", "r", "", `GitHub repository in format "owner/repo-name"`)
	cmd.Flags().StringVarP(&opts.token, "token", "t", "", "GitHub personal access token")
	cmd.Flags().StringVar(&opts.project, "project", "", "Project board to place created issues on")
	cmd.Flags().StringVar(&opts.report, "report", "", "Write a run report (.json, .yaml)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Parse the file and preview issues without contacting GitHub")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output showing detailed progress")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress all output except errors and final summary")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runImport(cmd *cobra.Command, c *app.Container, opts importOptions) error {
	if opts.quiet && opts.verbose {
		return domain.ErrConflictingFlags
	}

	cfg, err := c.ConfigLoader.Load()
	if err != nil {
		return err
	}
	// Flags override [output]
	if opts.verbose {
		cfg.Output.Verbose, cfg.Output.Quiet = true, false
	}
	if opts.quiet {
		cfg.Output.Verbose, cfg.Output.Quiet = false, true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	project := opts.project
	if project == "" {
		project = cfg.Project.Name
	}

	runID := domain.NewRunID()
	logger := c.RunLogger(cfg, app.RunOptions{
		Console: cmd.ErrOrStderr(),
		RunID:   domain.ShortRunID(runID),
		Verbose: cfg.Output.Verbose,
		Quiet:   cfg.Output.Quiet,
	})
	defer func() { _ = logger.Close() }()

	logger.Debug(cliCategory, "File: "+opts.file)

	var repo domain.RepoRef
	var api domain.GitHubAPI
	if opts.dryRun {
		if opts.repo != "" {
			if repo, err = domain.ParseRepoRef(opts.repo); err != nil {
				return err
			}
		}
	} else {
		if repo, err = resolveRepo(c, opts.repo); err != nil {
			return err
		}
		token, err := resolveToken(opts.token, cfg)
		if err != nil {
			return err
		}
		logger.Debug(cliCategory, "Repository: "+repo.String())
		logger.Debug(cliCategory, "Token: "+logging.MaskToken(token))

		if api, err = c.NewAPI(token, cfg.GitHub); err != nil {
			return fmt.Errorf("failed to initialize GitHub client: %w", err)
		}
	}

	uc := c.ImportIssuesUseCase(api, cfg, logger, runID)
	out, err := uc.Execute(cmd.Context(), usecase.ImportIssuesInput{
		Path:       opts.file,
		Repo:       repo,
		Project:    project,
		ReportPath: opts.report,
		DryRun:     opts.dryRun,
	})
	if out == nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.dryRun {
		printPreview(w, opts.file, out)
		return nil
	}

	if cfg.Output.Quiet {
		printQuietSummary(w, cmd.ErrOrStderr(), out.Summary)
	} else {
		printSummary(w, out.Summary)
	}
	logger.Debug(cliCategory, "Operation completed")

	// A report that could not be written still leaves the issues created
	if err != nil {
		return err
	}
	if out.Summary.HasFailures() {
		return domain.ErrBatchFailures
	}
	return nil
}

// printPreview shows what an import would create.
func printPreview(w io.Writer, path string, out *usecase.ImportIssuesOutput) {
	_, _ = fmt.Fprintf(w, "Dry run: %d issues parsed from %s (nothing was sent to GitHub)\n", len(out.Records), path)
	_, _ = fmt.Fprintf(w, "Column mapping: %s\n\n", usecase.DescribeColumns(out.Header, out.Columns))

	for i, rec := range out.Records {
		_, _ = fmt.Fprintf(w, "%3d. %s\n", i+1, rec.Title)
		if rec.Assignee != "" {
			_, _ = fmt.Fprintf(w, "     assignee: %s\n", rec.Assignee)
		}
		if len(rec.Labels) > 0 {
			_, _ = fmt.Fprintf(w, "     labels:   %s\n", strings.Join(rec.Labels, ", "))
		}
	}
}
