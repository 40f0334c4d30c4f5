package di

import (
	"os"
	"testing"

	"browser-task/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainer(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Dir = t.TempDir()
	cfg.Artifacts.Dir = t.TempDir()

	c, err := NewContainer(cfg, Options{Name: "test"})
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Runner)
	assert.NotNil(t, c.Metrics)
	assert.NotNil(t, c.NewServer())

	entries, err := os.ReadDir(cfg.Log.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "log file created")
}
