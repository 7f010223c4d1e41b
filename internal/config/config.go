package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/compozy/autotag/internal/domain"
	"github.com/go-git/go-git/v5"
	"github.com/spf13/viper"
)

const (
	ForgeGitHub = "github"
	ForgeGitLab = "gitlab"
)

type Config struct {
	Mode            domain.Mode   `mapstructure:"-"`
	Token           string        `mapstructure:"token"`
	Directory       string        `mapstructure:"directory"`
	Name            string        `mapstructure:"name"`
	Forge           string        `mapstructure:"forge"`
	BaseURL         string        `mapstructure:"base_url"`
	DefaultBranch   string        `mapstructure:"default_branch"`
	Remote          string        `mapstructure:"remote"`
	StateDir        string        `mapstructure:"state_dir"`
	LogLevel        string        `mapstructure:"log_level"`
	CIOutput        bool          `mapstructure:"ci_output"`
	WorkflowTimeout time.Duration `mapstructure:"workflow_timeout"`

	// Owner and Repo are derived from Name, or from the origin remote in local mode.
	Owner string `mapstructure:"-"`
	Repo  string `mapstructure:"-"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Forge:           ForgeGitHub,
		DefaultBranch:   "master",
		Remote:          "origin",
		LogLevel:        "info",
		WorkflowTimeout: 10 * time.Minute,
	}
}

// FullName returns the owner/repo slug.
func (c *Config) FullName() string {
	return c.Owner + "/" + c.Repo
}

// Validate validates the configuration for the selected mode
func (c *Config) Validate() error {
	if err := ValidateToken(c.Token); err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	switch c.Forge {
	case ForgeGitHub, ForgeGitLab:
	default:
		return fmt.Errorf("unsupported forge: %s", c.Forge)
	}
	if c.DefaultBranch == "" {
		return fmt.Errorf("default_branch cannot be empty")
	}
	switch c.Mode {
	case domain.ModeLocal:
		if c.Directory == "" {
			return fmt.Errorf("directory is required in local mode")
		}
	case domain.ModeRemote:
		if c.Name == "" {
			return fmt.Errorf("repository name is required in remote mode")
		}
	default:
		return fmt.Errorf("unknown mode: %q", c.Mode)
	}
	if c.Owner != "" || c.Repo != "" {
		if err := ValidateOwnerRepo(c.Owner, c.Repo, c.Forge); err != nil {
			return fmt.Errorf("invalid repository configuration: %w", err)
		}
	}
	return nil
}

// ValidateToken validates an API token (exported for reuse)
func ValidateToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if strings.ContainsAny(token, " \t\r\n") {
		return fmt.Errorf("token contains whitespace")
	}
	if len(token) < 8 {
		return fmt.Errorf("token too short: expected at least 8 characters")
	}
	return nil
}

var validName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)

// ValidateOwnerRepo validates owner and repository names (exported for reuse).
// GitLab owners may be nested groups separated by slashes.
func ValidateOwnerRepo(owner, repo, forge string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	segments := []string{owner}
	if forge == ForgeGitLab {
		segments = strings.Split(owner, "/")
	}
	for _, s := range segments {
		if !validName.MatchString(s) {
			return fmt.Errorf("invalid owner format: %s", owner)
		}
	}
	if forge != ForgeGitLab && len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

// SplitFullName splits "owner/repo" into its parts. The last segment is the
// repository, everything before it the owner.
func SplitFullName(name string) (string, string, error) {
	name = strings.Trim(strings.TrimSpace(name), "/")
	idx := strings.LastIndex(name, "/")
	if idx <= 0 || idx == len(name)-1 {
		return "", "", fmt.Errorf("repository name must be in owner/repo form: %q", name)
	}
	return name[:idx], name[idx+1:], nil
}

// LoadConfig reads configuration from v for the given mode. Flags must already be bound to v.
func LoadConfig(v *viper.Viper, mode domain.Mode) (*Config, error) {
	v.SetConfigName(".autotag")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	// Configure environment variables
	v.SetEnvPrefix("AUTOTAG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	// BindEnv allows multiple env vars - it will check them in order
	bindings := map[string][]string{
		"token":            {"AUTOTAG_TOKEN", "GITHUB_TOKEN", "GITLAB_TOKEN"},
		"name":             {"AUTOTAG_NAME", "GITHUB_REPOSITORY"},
		"forge":            {"AUTOTAG_FORGE"},
		"base_url":         {"AUTOTAG_BASE_URL"},
		"state_dir":        {"AUTOTAG_STATE_DIR"},
		"workflow_timeout": {"AUTOTAG_WORKFLOW_TIMEOUT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s env: %w", key, err)
		}
	}
	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("forge", defaults.Forge)
	v.SetDefault("default_branch", defaults.DefaultBranch)
	v.SetDefault("remote", defaults.Remote)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("workflow_timeout", defaults.WorkflowTimeout)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Mode = mode
	cfg.Token = strings.TrimSpace(cfg.Token)
	if err := populateRepositoryDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// populateRepositoryDefaults fills Owner and Repo. An explicit name wins, then
// GITHUB_REPOSITORY_OWNER / GITHUB_REPOSITORY_NAME, then the git remote of the
// configured directory (or the working directory).
func populateRepositoryDefaults(cfg *Config) error {
	if cfg.Owner != "" && cfg.Repo != "" {
		return nil
	}
	name := cfg.Name
	if name == "" {
		name = os.Getenv("GITHUB_REPOSITORY")
	}
	if name != "" {
		owner, repo, err := SplitFullName(name)
		if err != nil {
			return err
		}
		cfg.Owner, cfg.Repo = owner, repo
		return nil
	}
	if owner, repo := os.Getenv("GITHUB_REPOSITORY_OWNER"), os.Getenv("GITHUB_REPOSITORY_NAME"); owner != "" &&
		repo != "" {
		cfg.Owner, cfg.Repo = owner, repo
		return nil
	}
	dir := cfg.Directory
	if dir == "" {
		dir = "."
	}
	remoteName := cfg.Remote
	if remoteName == "" {
		remoteName = "origin"
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		// Not a repository: local mode reports this itself when it opens the directory.
		return nil
	}
	remote, err := repo.Remote(remoteName)
	if err != nil || len(remote.Config().URLs) == 0 {
		return nil
	}
	owner, name, err := parseGitRemoteURL(remote.Config().URLs[0])
	if err != nil {
		return err
	}
	cfg.Owner, cfg.Repo = owner, name
	return nil
}

var scpLikeURL = regexp.MustCompile(`^(?:[\w.\-]+@)?[\w.\-]+:(.+)$`)

// parseGitRemoteURL extracts owner and repository from a remote URL.
func parseGitRemoteURL(raw string) (string, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", fmt.Errorf("empty remote url")
	}
	var path string
	switch {
	case strings.Contains(raw, "://"):
		rest := raw[strings.Index(raw, "://")+3:]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return "", "", fmt.Errorf("remote url has no path: %s", raw)
		}
		path = rest[slash+1:]
	case scpLikeURL.MatchString(raw) && !filepath.IsAbs(raw):
		path = scpLikeURL.FindStringSubmatch(raw)[1]
	default:
		path = filepath.ToSlash(raw)
	}
	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("cannot parse owner/repo from remote url: %s", raw)
	}
	if strings.Contains(raw, "://") || scpLikeURL.MatchString(raw) {
		// Hosted remotes keep nested groups in the owner.
		return strings.Join(parts[:len(parts)-1], "/"), parts[len(parts)-1], nil
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
