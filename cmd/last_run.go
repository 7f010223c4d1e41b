package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/compozy/autotag/internal/domain"
	"github.com/compozy/autotag/internal/repository"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newLastRunCmd() *cobra.Command {
	var (
		sessionID string
		remove    bool
	)
	cmd := &cobra.Command{
		Use:   "last-run",
		Short: "Print a journaled tagging run",
		Long: `Print the run journal written by a previous local or remote run.

Runs are only journaled when --state-dir (or AUTOTAG_STATE_DIR) is set.
The latest run is shown unless --session-id is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			if err := v.BindPFlag("state_dir", cmd.Flags().Lookup("state-dir")); err != nil {
				return err
			}
			if err := v.BindEnv("state_dir", "AUTOTAG_STATE_DIR"); err != nil {
				return err
			}
			v.SetDefault("state_dir", repository.DefaultStateDir)
			repo := repository.NewJSONStateRepository(afero.NewOsFs(), v.GetString("state_dir"), nil)
			var state *domain.RunState
			var err error
			if sessionID != "" {
				state, err = repo.Load(cmd.Context(), sessionID)
			} else {
				state, err = repo.LoadLatest(cmd.Context())
			}
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render run journal: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			if remove {
				return repo.Delete(cmd.Context(), state.SessionID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session-id", "", "Run ID to show (latest if not specified)")
	cmd.Flags().BoolVar(&remove, "delete", false, "Delete the journal after printing it")
	return cmd
}
