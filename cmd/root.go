package cmd

import (
	"context"

	"github.com/compozy/autotag/pkg/version"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the autotag command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "autotag",
		Short: "Tag the current commit with the next semantic version",
		Long: `autotag finds the pull or merge request a commit belongs to, reads its
major, minor or patch label and publishes the next version tag.

Use "local" inside a checked-out repository or "remote" to work purely
through the forge API.`,
		Version:       version.Summary(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.String("forge", "github", "Code forge hosting the repository (github or gitlab)")
	flags.String("base-url", "", "Forge URL for GitHub Enterprise or self-hosted GitLab")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("state-dir", "", "Directory for run journals (disabled when empty)")
	flags.Bool("ci-output", false, "Print key=value results for CI")

	rootCmd.AddCommand(
		newLocalCmd(),
		newRemoteCmd(),
		newLastRunCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
