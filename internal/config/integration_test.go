package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfig(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	t.Setenv(EnvOutput, "")
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	cfg := GetGlobalConfig()
	assert.NotNil(t, cfg)
	assert.Equal(t, DefaultOutputFormat, cfg.Output.DefaultFormat)

	cfg2 := GetGlobalConfig()
	assert.Same(t, cfg, cfg2)

	ResetGlobalConfigForTest()
	cfg3 := GetGlobalConfig()
	assert.NotSame(t, cfg, cfg3)

	replacement := Default()
	replacement.Output.DefaultFormat = "json"
	SetGlobalConfig(replacement)
	assert.Equal(t, "json", GetDefaultOutputFormat())
}

func TestConfigGetters(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	cfg := GetGlobalConfig()
	cfg.AWS.Region = "ap-southeast-2"
	cfg.Logging.Level = "debug"
	cfg.History.MaxEntries = 3

	assert.Equal(t, "ap-southeast-2", GetAWSConfig().Region)
	assert.Equal(t, "debug", GetLoggingConfig().Level)
	assert.Equal(t, 3, GetHistoryConfig().MaxEntries)
}

func TestGetConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)

	t.Setenv(EnvHome, "")
	t.Setenv("HOME", home)
	dir, err = GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".pipesctl"), dir)
}

func TestEnsureConfigDir(t *testing.T) {
	home := filepath.Join(t.TempDir(), "nested", "home")
	t.Setenv(EnvHome, home)

	require.NoError(t, EnsureConfigDir())
	info, err := os.Stat(home)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureLogDir(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	require.NoError(t, EnsureLogDir(), "no log file configured is a no-op")

	logDir := filepath.Join(t.TempDir(), "logs")
	GetGlobalConfig().Logging.File = filepath.Join(logDir, "pipesctl.log")
	require.NoError(t, EnsureLogDir())
	_, err := os.Stat(logDir)
	require.NoError(t, err)
}

func TestGetHistoryDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Cleanup(func() { SetResolvedProjectDir("") })

	SetResolvedProjectDir("")
	dir, err := GetHistoryDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "history"), dir)

	project := filepath.Join(t.TempDir(), ProjectDirName)
	SetResolvedProjectDir(project)
	dir, err = GetHistoryDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(project, "history"), dir)
}

func TestGetAuditLogPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	path, err := GetAuditLogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "audit.log"), path)

	GetGlobalConfig().Logging.Audit.File = "/var/log/pipesctl-audit.log"
	path, err = GetAuditLogPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/log/pipesctl-audit.log", path)
}

func TestToLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, "stderr", got.Output)
	assert.Equal(t, "debug", got.Level)

	lc.File = "/tmp/pipesctl.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, "file", got.Output)
	assert.Equal(t, "/tmp/pipesctl.log", got.File)
}
