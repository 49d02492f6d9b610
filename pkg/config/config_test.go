package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromFile_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "conf.ini")

	cfg, err := NewConfigFromFile(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	assert.Equal(t, "sqlite", cfg.GetString(KeyDBType))
	assert.Equal(t, 8091, cfg.GetInt(KeyServerPort))
	assert.False(t, cfg.GetBool(KeyServerDebug))
	assert.Empty(t, cfg.GetString(KeyTaskCategoryMergeCron))
	assert.Equal(t, "0 */10 * * * *", cfg.GetString(KeyTaskRankingRebuildCron))
	assert.Equal(t, 30, cfg.GetIntOrDefault(KeyRateLimitVotesPerMinute, 1))
}

func TestNewConfigFromFile_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.ini")
	require.NoError(t, os.WriteFile(path, []byte("[Database]\nType = mysql\nHost = db.local\n"), 0644))
	t.Setenv("ANHEYU_DATABASE_HOST", "db.override")

	cfg, err := NewConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.GetString(KeyDBType))
	assert.Equal(t, "db.override", cfg.GetString(KeyDBHost))
}

func TestNewConfigFromFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.ini")
	require.NoError(t, os.WriteFile(path, []byte("[Database\nType = sqlite\n"), 0644))

	_, err := NewConfigFromFile(path)
	assert.Error(t, err)
}

func TestGetIntOrDefault(t *testing.T) {
	cfg := NewConfigFromValues(map[string]interface{}{
		KeyRateLimitVoteBurst:      "0",
		KeyRateLimitVotesPerMinute: "12",
	})
	assert.Equal(t, 12, cfg.GetIntOrDefault(KeyRateLimitVotesPerMinute, 30))
	assert.Equal(t, 10, cfg.GetIntOrDefault(KeyRateLimitVoteBurst, 10))
	assert.Equal(t, 7, cfg.GetIntOrDefault(KeyRedisDB, 7))
}
