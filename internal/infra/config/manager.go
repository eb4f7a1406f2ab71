package config

import (
	"errors"
	"os"

	"github.com/runoshun/tissue/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager inspects and creates configuration files.
type Manager struct {
	loader *Loader
}

// NewManager creates a new Manager.
func NewManager(workDir string) *Manager {
	return &Manager{loader: NewLoader(workDir)}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(workDir, globalConfDir string) *Manager {
	return &Manager{loader: NewLoaderWithGlobalDir(workDir, globalConfDir)}
}

// GetLocalConfigInfo returns information about the local config file.
func (m *Manager) GetLocalConfigInfo() domain.ConfigInfo {
	return getConfigInfo(m.loader.localPath())
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	path := m.loader.globalPath()
	if path == "" {
		return domain.ConfigInfo{}
	}
	return getConfigInfo(path)
}

// getConfigInfo reads a config file and returns its info.
func getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitLocalConfig creates the local config file from the template.
func (m *Manager) InitLocalConfig(cfg *domain.Config) error {
	return initConfig(m.loader.localPath(), cfg)
}

// InitGlobalConfig creates the global config file from the template.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	if m.loader.globalConfDir == "" {
		return errors.New("global config directory not available")
	}

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(m.loader.globalConfDir, 0700); err != nil {
		return err
	}

	return initConfig(m.loader.globalPath(), cfg)
}

// initConfig creates a config file with the rendered template.
func initConfig(path string, cfg *domain.Config) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}

	content := domain.RenderConfigTemplate(cfg)

	return os.WriteFile(path, []byte(content), 0600)
}
