package domain

import (
	"bytes"
	_ "embed"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// ConfigFileName is the file name used for both the local and the global config.
const ConfigFileName = "config.toml"

// LocalConfigFileName is the per-directory config file.
const LocalConfigFileName = ".tissue.toml"

// Defaults.
const (
	DefaultTokenEnv         = "GITHUB_TOKEN"
	DefaultDelay            = 100 * time.Millisecond
	DefaultLabelColor       = "0075ca"
	DefaultLabelDescription = "Label created automatically by tissue"
	DefaultLogLevel         = "info"
	DefaultLogMaxSizeMB     = 10
	DefaultLogMaxBackups    = 3
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	GitHub   GitHubConfig  `toml:"github"`
	Sync     SyncConfig    `toml:"sync"`
	Project  ProjectConfig `toml:"project"`
	Log      LogConfig     `toml:"log"`
	Output   OutputConfig  `toml:"output"`
}

// GitHubConfig holds settings from the [github] section.
type GitHubConfig struct {
	APIURL   string `toml:"api_url,omitempty"`   // REST base URL; empty means api.github.com
	TokenEnv string `toml:"token_env,omitempty"` // Environment variable holding the token
}

// SyncConfig holds settings from the [sync] section.
type SyncConfig struct {
	LabelColor       string `toml:"label_color,omitempty"`       // Color for labels created on the fly
	LabelDescription string `toml:"label_description,omitempty"` // Description for labels created on the fly
	DelayMS          int    `toml:"delay_ms"`                    // Pause between issue creations
}

// Delay returns the pause between issue creations.
func (s SyncConfig) Delay() time.Duration {
	if s.DelayMS < 0 {
		return 0
	}
	return time.Duration(s.DelayMS) * time.Millisecond
}

// ProjectConfig holds settings from the [project] section.
type ProjectConfig struct {
	Name          string `toml:"name,omitempty"`           // Project board to place created issues on
	DefaultStatus bool   `toml:"default_status,omitempty"` // Use the default column when a row has no status
}

// LogConfig holds settings from the [log] section.
type LogConfig struct {
	Level      string `toml:"level,omitempty"` // debug, info, warn, error
	File       string `toml:"file,omitempty"`  // Optional log file (rotated)
	MaxSizeMB  int    `toml:"max_size_mb,omitempty"`
	MaxBackups int    `toml:"max_backups,omitempty"`
}

// OutputConfig holds console verbosity from the [output] section.
type OutputConfig struct {
	Verbose bool `toml:"verbose,omitempty"`
	Quiet   bool `toml:"quiet,omitempty"`
}

// NewDefaultConfig returns the configuration used when no file overrides it.
func NewDefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			TokenEnv: DefaultTokenEnv,
		},
		Sync: SyncConfig{
			DelayMS:          int(DefaultDelay / time.Millisecond),
			LabelColor:       DefaultLabelColor,
			LabelDescription: DefaultLabelDescription,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}

// Validate checks settings that cannot be combined.
func (c *Config) Validate() error {
	if c.Output.Quiet && c.Output.Verbose {
		return ErrConflictingFlags
	}
	return nil
}

// GlobalConfigDir returns the global config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, "tissue")
}

// RenderConfigTemplate renders the commented config template with values from cfg.
func RenderConfigTemplate(cfg *Config) string {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	tmpl := template.Must(template.New("config").Parse(configTemplateContent))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return configTemplateContent
	}
	return buf.String()
}
