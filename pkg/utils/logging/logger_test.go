package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLoggerWithDir_WritesJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	restore := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(restore) })

	logger, err := InitLoggerWithDir("test", dir)
	require.NoError(t, err)

	logger.Debug("debug entry", zap.String("scheme_id", "scheme-1"))
	_ = logger.Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "test_"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &line))
	assert.Equal(t, "debug entry", line["msg"])
	assert.Equal(t, "scheme-1", line["scheme_id"])
	assert.Equal(t, "test", line["environment"])
	assert.Contains(t, line, "timestamp")

	assert.Same(t, logger, zap.L())
}
