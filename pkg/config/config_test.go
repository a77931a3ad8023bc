package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "America/Sao_Paulo", c.Timezone)
	assert.Equal(t, "percentile", c.Entry.Policy)
	assert.Equal(t, 65.0, c.Entry.AssertMin)
	assert.Equal(t, 3.0, c.Entry.GainMin)
	assert.Equal(t, 200, c.Universe.MaxSize)
	assert.Equal(t, 5*time.Minute, c.Worker.Interval)
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
entry:
  policy: dualside
  assert_min: 70
worker:
  interval: 1m
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("ASSERT_MIN", "55")
	t.Setenv("INTERVALO", "120")
	t.Setenv("RUN_ONCE", "1")
	t.Setenv("ENTRADA_JSON", "/tmp/feed.json")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "dualside", c.Entry.Policy)
	assert.Equal(t, 55.0, c.Entry.AssertMin, "env wins over yaml")
	assert.Equal(t, 2*time.Minute, c.Worker.Interval)
	assert.True(t, c.Worker.RunOnce)
	assert.Equal(t, "/tmp/feed.json", c.Files.Feed)
}

func TestValidateRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("ENTRY_POLICY", "coinflip")
	_, err := LoadWithEnv("")
	require.Error(t, err)
}

func TestKafkaBrokersFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	c, err := LoadWithEnv("")
	require.NoError(t, err)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Kafka.Brokers)
}
