package cmd

import (
	"github.com/compozy/autotag/internal/domain"
	"github.com/compozy/autotag/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newLocalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Tag HEAD of a checked-out repository and push the tag",
		Long: `Tag HEAD of the repository at --directory with the next version.

The latest tag reachable from HEAD is bumped according to the labels of the
pull or merge request containing HEAD. The annotated tag is pushed to origin.
The repository must already carry at least one version tag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTagging(cmd, domain.ModeLocal)
		},
	}
	cmd.Flags().StringP("directory", "d", "", "Path to the checked-out repository")
	cmd.Flags().StringP("token", "t", "", "Forge API token (or AUTOTAG_TOKEN, GITHUB_TOKEN, GITLAB_TOKEN)")
	return cmd
}

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Tag the default branch through the forge API",
		Long: `Tag the tip of the default branch of --name with the next version.

The first tag listed by the forge is bumped according to the labels of the
pull or merge request containing the commit. A repository without tags gets
v0.0.0. A release is created alongside the tag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTagging(cmd, domain.ModeRemote)
		},
	}
	cmd.Flags().StringP("name", "n", "", "Repository full name (org/repo)")
	cmd.Flags().StringP("token", "t", "", "Forge API token (or AUTOTAG_TOKEN, GITHUB_TOKEN, GITLAB_TOKEN)")
	return cmd
}

func runTagging(cmd *cobra.Command, mode domain.Mode) error {
	c, err := newContainer(cmd, mode)
	if err != nil {
		return err
	}
	defer func() { _ = c.logger.Sync() }()
	orch := orchestrator.NewTagReleaseOrchestrator(c.source, c.forge, c.stateRepo, c.logger)
	orch.SetOutput(cmd.OutOrStdout())
	_, err = orch.Execute(cmd.Context(), orchestrator.TagReleaseConfig{
		Mode:       mode,
		Repository: c.cfg.FullName(),
		CIOutput:   c.cfg.CIOutput,
		Timeout:    c.cfg.WorkflowTimeout,
	})
	return err
}
