package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTargets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTargets(t *testing.T) {
	path := writeTargets(t, `
targets:
  - label: team-schedule
    source: schedules/team.xlsx
    calendar: Team
  - label: on-call
    source: s3://sheets/oncall.csv
    calendar: OnCall
`)

	targets, err := LoadTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 2)

	assert.Equal(t, Target{Label: "team-schedule", Source: "schedules/team.xlsx", Calendar: "Team"}, targets[0])
	assert.Equal(t, "on-call", targets[1].Label)
}

func TestLoadTargets_MissingFieldsRejected(t *testing.T) {
	path := writeTargets(t, `
targets:
  - label: team-schedule
    source: schedules/team.xlsx
`)

	_, err := LoadTargets(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestLoadTargets_DuplicateLabelsRejected(t *testing.T) {
	path := writeTargets(t, `
targets:
  - label: team
    source: a.csv
    calendar: A
  - label: team
    source: b.csv
    calendar: B
`)

	_, err := LoadTargets(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate target label")
}

func TestLoadTargets_MissingFile(t *testing.T) {
	_, err := LoadTargets(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "targets.yaml", cfg.Sync.TargetsFile)
	assert.Equal(t, "ics", cfg.Sync.Backend)
	assert.True(t, cfg.Sync.IsValidBackend())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SYNC_BACKEND", "sqlite")
	t.Setenv("SYNC_STATE_DIR", "/var/lib/sheetcal")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Sync.Backend)
	assert.Equal(t, "/var/lib/sheetcal", cfg.Sync.StateDir)
}
