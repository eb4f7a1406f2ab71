// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/tissue/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// knownKeys lists the accepted keys per section.
var knownKeys = map[string][]string{
	"github":  {"api_url", "token_env"},
	"sync":    {"delay_ms", "label_color", "label_description"},
	"project": {"name", "default_status"},
	"log":     {"level", "file", "max_size_mb", "max_backups"},
	"output":  {"verbose", "quiet"},
}

// Loader loads configuration from TOML files.
type Loader struct {
	workDir       string // Directory holding the local .tissue.toml
	globalConfDir string // Path to global config directory (e.g., ~/.config/tissue)
}

// NewLoader creates a new Loader.
func NewLoader(workDir string) *Loader {
	return &Loader{
		workDir:       workDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(workDir, globalConfDir string) *Loader {
	return &Loader{
		workDir:       workDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

func (l *Loader) localPath() string {
	return filepath.Join(l.workDir, domain.LocalConfigFileName)
}

func (l *Loader) globalPath() string {
	if l.globalConfDir == "" {
		return ""
	}
	return filepath.Join(l.globalConfDir, domain.ConfigFileName)
}

// Load returns the merged configuration.
// Merge order: default <- global <- local (later takes precedence).
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()
	for _, path := range []string{l.globalPath(), l.localPath()} {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadGlobal returns the default configuration overlaid with the global file only.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()
	if err := applyFile(cfg, l.globalPath()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile decodes the file at path onto cfg. Keys absent from the file keep their
// current value. A missing file is not an error.
func applyFile(cfg *domain.Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Warnings = append(cfg.Warnings, unknownKeyWarnings(path, raw)...)
	return nil
}

// unknownKeyWarnings reports sections and keys the configuration does not define.
func unknownKeyWarnings(path string, raw map[string]any) []string {
	var warnings []string
	for section, value := range raw {
		keys, ok := knownKeys[section]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: unknown section: %s", path, section))
			continue
		}
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: [%s] must be a table", path, section))
			continue
		}
		for k := range m {
			if !contains(keys, k) {
				warnings = append(warnings, fmt.Sprintf("%s: unknown key in [%s]: %s", path, section, k))
			}
		}
	}
	sort.Strings(warnings)
	return warnings
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
