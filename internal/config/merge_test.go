package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pipesctl/internal/config"
)

// newDefaultTarget returns a Config with known non-zero values so tests can
// verify that absent overlay keys leave the original values intact.
func newDefaultTarget() *config.Config {
	return &config.Config{
		AWS: config.AWSConfig{Region: "us-east-1", Profile: "dev"},
		Output: config.OutputConfig{
			DefaultFormat: "table",
		},
		Logging: config.LoggingConfig{
			Level:  "info",
			Format: "console",
			Audit:  config.AuditConfig{Enabled: true},
		},
		History: config.HistoryConfig{
			Enabled:    true,
			TTLSeconds: 3600,
			MaxEntries: 50,
		},
	}
}

// writeOverlay is a test helper that writes YAML content to a temp file
// and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
output:
  default_format: json
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "json", target.Output.DefaultFormat)
	assert.Equal(t, "info", target.Logging.Level)
	assert.Equal(t, "us-east-1", target.AWS.Region)
	assert.Equal(t, 3600, target.History.TTLSeconds)
}

func TestShallowMergeYAML_SectionReplacedWhole(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
aws:
  region: eu-west-1
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "eu-west-1", target.AWS.Region)
	assert.Empty(t, target.AWS.Profile, "shallow merge replaces the entire section")
}

func TestShallowMergeYAML_MultipleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
logging:
  level: debug
  format: json
history:
  enabled: false
  ttl_seconds: 60
  max_entries: 5
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "debug", target.Logging.Level)
	assert.False(t, target.Logging.Audit.Enabled)
	assert.False(t, target.History.Enabled)
	assert.Equal(t, 60, target.History.TTLSeconds)
	assert.Equal(t, "table", target.Output.DefaultFormat)
}

func TestShallowMergeYAML_EmptyAndCommentOnly(t *testing.T) {
	for _, content := range []string{"", "# nothing here\n"} {
		target := newDefaultTarget()
		require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, content)))
		assert.Equal(t, newDefaultTarget(), target)
	}
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	require.Error(t, config.ShallowMergeYAML(nil, "x"))
	require.Error(t, config.ShallowMergeYAML(newDefaultTarget(), filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, config.ShallowMergeYAML(newDefaultTarget(), writeOverlay(t, "output: [unclosed")))
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
plugins:
  anything: true
output:
  default_format: yaml
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, "yaml", target.Output.DefaultFormat)
}
