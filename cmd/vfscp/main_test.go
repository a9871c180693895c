package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Alishankhan/cryptomator/config"
	"github.com/Alishankhan/cryptomator/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, util.InfoLevel, cfg.LogLvl)
	assert.Equal(t, config.DefaultPageSize, cfg.PageSize)
}

func TestLoadConfig_FileVerbosityTakesEffect(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "config.yaml", "verbose: 5\npage_size: 8\n")

	cfg, err := loadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, util.TraceLevel, cfg.LogLvl)
	assert.Equal(t, 8, cfg.PageSize)
}

func TestLoadConfig_ExplicitFlagWinsOverFile(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "config.yaml", "verbose: 5\n")

	cfg, err := loadConfig(path, util.Pointer(config.ErrorVerbose))
	require.NoError(t, err)
	assert.Equal(t, util.ErrorLevel, cfg.LogLvl)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}
