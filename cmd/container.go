package cmd

import (
	"fmt"

	"github.com/compozy/autotag/internal/config"
	"github.com/compozy/autotag/internal/domain"
	"github.com/compozy/autotag/internal/logger"
	"github.com/compozy/autotag/internal/orchestrator"
	"github.com/compozy/autotag/internal/repository"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// flagKeys maps config keys to the flags that can set them.
var flagKeys = map[string]string{
	"token":     "token",
	"directory": "directory",
	"name":      "name",
	"forge":     "forge",
	"base_url":  "base-url",
	"log_level": "log-level",
	"state_dir": "state-dir",
	"ci_output": "ci-output",
}

// container holds all the dependencies of a tagging run.
type container struct {
	cfg    *config.Config
	logger *zap.Logger

	fsRepo    repository.FileSystemRepository
	source    repository.VersionSource
	forge     repository.ForgeRepository
	stateRepo repository.StateRepository
}

// newContainer loads configuration for mode and wires the repositories.
// Nothing here talks to the forge.
func newContainer(cmd *cobra.Command, mode domain.Mode) (*container, error) {
	v := viper.New()
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}
	cfg, err := config.LoadConfig(v, mode)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	c := &container{
		cfg:    cfg,
		logger: log,
		fsRepo: repository.FileSystemRepository(afero.NewOsFs()),
	}
	var git repository.GitRepository
	if mode == domain.ModeLocal {
		// Local mode fails on a bad directory before any forge call.
		ok, err := afero.IsDir(c.fsRepo, cfg.Directory)
		if err != nil || !ok {
			return nil, fmt.Errorf("directory %s does not exist or is not a directory", cfg.Directory)
		}
		git, err = repository.NewGitRepository(cfg.Directory, repository.GitOptions{
			Remote:   cfg.Remote,
			Token:    cfg.Token,
			Username: pushUsername(cfg.Forge),
		})
		if err != nil {
			return nil, err
		}
	} else if err := orchestrator.ValidateBranchName(cfg.DefaultBranch); err != nil {
		return nil, fmt.Errorf("invalid default branch: %w", err)
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("cannot determine repository: pass --name or configure the %s remote", cfg.Remote)
	}
	c.forge, err = newForge(cfg)
	if err != nil {
		return nil, err
	}
	if mode == domain.ModeLocal {
		c.source = repository.NewLocalSource(git)
	} else {
		c.source = repository.NewRemoteSource(c.forge, cfg.DefaultBranch)
	}
	if cfg.StateDir != "" {
		c.stateRepo = repository.NewJSONStateRepository(c.fsRepo, cfg.StateDir, log)
	}
	log.Debug("configuration loaded",
		zap.String("mode", string(mode)),
		zap.String("forge", cfg.Forge),
		zap.String("repository", cfg.FullName()),
	)
	return c, nil
}

func newForge(cfg *config.Config) (repository.ForgeRepository, error) {
	switch cfg.Forge {
	case config.ForgeGitLab:
		return repository.NewGitlabRepository(cfg.Token, cfg.Owner, cfg.Repo, cfg.BaseURL)
	case config.ForgeGitHub:
		return repository.NewGithubRepository(cfg.Token, cfg.Owner, cfg.Repo, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported forge: %s", cfg.Forge)
	}
}

// pushUsername is the basic-auth user each forge expects alongside a token.
func pushUsername(forge string) string {
	if forge == config.ForgeGitLab {
		return "oauth2"
	}
	return "x-access-token"
}
