package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, "producaomes.json", cfg.SnapshotFile)
	assert.Equal(t, "cpfs_nao_encontrados.json", cfg.NotFoundFile)
	assert.Equal(t, "created_users.json", cfg.CreatedFile)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 500*time.Millisecond, cfg.Pace)
	assert.Contains(t, cfg.AllowedLocations, "SAMU")
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ROSTER_ALLOWED_LOCATIONS", "SAMU, PAAR")
	t.Setenv("SYNC_CONCURRENCY", "3")
	t.Setenv("SYNC_PACE", "50ms")

	cfg := FromEnv()

	assert.Equal(t, []string{"SAMU", "PAAR"}, cfg.AllowedLocations)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 50*time.Millisecond, cfg.Pace)
}

func TestFromEnvIgnoresBadNumbers(t *testing.T) {
	t.Setenv("SYNC_CONCURRENCY", "zero")
	t.Setenv("SYNC_PACE", "-1s")

	cfg := FromEnv()

	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 500*time.Millisecond, cfg.Pace)
}

func TestRequireChat(t *testing.T) {
	var cfg Config
	require.Error(t, cfg.RequireChat())

	cfg.ChatAPIURL = "https://api.example.test/"
	require.Error(t, cfg.RequireChat())

	cfg.ChatAPIToken = "token"
	require.NoError(t, cfg.RequireChat())
}

func TestRequireSchedule(t *testing.T) {
	var cfg Config
	require.Error(t, cfg.RequireSchedule())

	cfg.ScheduleAPIURL = "https://shifts.example.test/"
	cfg.ScheduleAPIToken = "token"
	require.NoError(t, cfg.RequireSchedule())
}
