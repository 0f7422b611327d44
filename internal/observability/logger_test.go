package observability

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/purehyperbole/ringwalk/internal/config"
)

func TestSetupLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "node.log")

	logger, err := SetupLogger(config.LogConfig{
		Level:   "info",
		Format:  "json",
		Outputs: []string{path},
	})
	require.Nil(t, err)

	logger.Debug("hidden")
	zap.L().Info("ping returned home", zap.Uint16("origin", 9001), zap.Uint32("hops", 4))
	require.Nil(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.Nil(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.Nil(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "ping returned home", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, float64(9001), entry["origin"])
	assert.Equal(t, float64(4), entry["hops"])
}

func TestSetupLoggerRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rotated.log")

	logger, err := SetupLogger(config.LogConfig{
		Level:   "debug",
		Format:  "console",
		Outputs: []string{filepath.Join(dir, "ignored.log")},
		Rotation: config.RotationConfig{
			Enable:   true,
			Filename: path,
		},
	})
	require.Nil(t, err)

	logger.Debug("relayed ping")
	logger.Sync()

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Contains(t, string(data), "relayed ping")
}
