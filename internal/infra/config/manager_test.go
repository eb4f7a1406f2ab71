package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/tissue/internal/domain"
)

func TestManager_GetLocalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		workDir := t.TempDir()
		configContent := "[project]\nname = \"Roadmap\""
		err := os.WriteFile(filepath.Join(workDir, domain.LocalConfigFileName), []byte(configContent), 0644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir(workDir, "")
		info := manager.GetLocalConfigInfo()

		assert.Equal(t, filepath.Join(workDir, domain.LocalConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		workDir := t.TempDir()

		manager := NewManagerWithGlobalDir(workDir, "")
		info := manager.GetLocalConfigInfo()

		assert.Equal(t, filepath.Join(workDir, domain.LocalConfigFileName), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		configContent := "[log]\nlevel = \"debug\""
		err := os.WriteFile(filepath.Join(globalDir, domain.ConfigFileName), []byte(configContent), 0644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir("", globalDir)
		info := manager.GetGlobalConfigInfo()

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns empty info without global dir", func(t *testing.T) {
		manager := NewManagerWithGlobalDir(t.TempDir(), "")
		info := manager.GetGlobalConfigInfo()

		assert.Empty(t, info.Path)
		assert.False(t, info.Exists)
	})
}

func TestManager_InitLocalConfig(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		workDir := t.TempDir()
		manager := NewManagerWithGlobalDir(workDir, "")

		err := manager.InitLocalConfig(domain.NewDefaultConfig())
		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(workDir, domain.LocalConfigFileName))
		require.NoError(t, err)
		assert.Contains(t, string(content), "[sync]")
		assert.Contains(t, string(content), `token_env = "GITHUB_TOKEN"`)
		assert.Contains(t, string(content), "delay_ms = 100")
	})

	t.Run("returns error if file exists", func(t *testing.T) {
		workDir := t.TempDir()
		err := os.WriteFile(filepath.Join(workDir, domain.LocalConfigFileName), []byte("existing"), 0644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir(workDir, "")
		err = manager.InitLocalConfig(domain.NewDefaultConfig())

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates config file and directory", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), "nested", "tissue")
		manager := NewManagerWithGlobalDir("", globalDir)

		err := manager.InitGlobalConfig(domain.NewDefaultConfig())
		require.NoError(t, err)

		info := manager.GetGlobalConfigInfo()
		assert.True(t, info.Exists)
		assert.Contains(t, info.Content, "[log]")
	})

	t.Run("returns error if file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		err := os.WriteFile(filepath.Join(globalDir, domain.ConfigFileName), []byte("existing"), 0644)
		require.NoError(t, err)

		manager := NewManagerWithGlobalDir("", globalDir)
		err = manager.InitGlobalConfig(domain.NewDefaultConfig())

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})

	t.Run("returns error without global dir", func(t *testing.T) {
		manager := NewManagerWithGlobalDir("", "")

		err := manager.InitGlobalConfig(domain.NewDefaultConfig())

		assert.Error(t, err)
	})
}
