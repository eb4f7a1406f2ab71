// Package cli provides the command-line interface for tissue.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/tissue/internal/app"
)

// Command group IDs.
const (
	groupIssues = "issues"
	groupSetup  = "setup"
)

// NewRootCommand creates the root command for tissue.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "tissue",
		Short: "Create GitHub issues from CSV files",
		Long: `tissue reads issue rows from a CSV file and creates one GitHub issue per row.

Headers are matched flexibly (e.g. "Issue Title", "Desc", "Owner", "Tags").
Rows whose title matches an existing open issue are skipped, missing labels
are created on the fly, and created issues can be placed on a project board
with per-row status and custom field values.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// init and template must work with a broken config
			if cmd.Name() == "init" || cmd.Name() == "template" {
				return nil
			}
			if c == nil {
				return nil
			}

			cfg, err := c.ConfigLoader.Load()
			if err != nil {
				// Reported by the command itself
				return nil
			}
			for _, w := range cfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupIssues, Title: "Issue Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	importCmd := newImportCommand(c)
	importCmd.GroupID = groupIssues

	projectsCmd := newProjectsCommand(c)
	projectsCmd.GroupID = groupIssues

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	root.AddCommand(importCmd, projectsCmd, configCmd)

	return root
}
