package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplog(t *testing.T) {
	t.Run("debug messages are hidden unless enabled", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := NewSplogWithConfig(SplogConfig{Writer: &buf})
		require.NoError(t, err)

		splog.Debug("walked %d commits", 3)
		splog.Warn("skipped %d stacks", 2)
		require.Equal(t, "⚠️  skipped 2 stacks\n", buf.String())
	})

	t.Run("debug mode prints debug messages", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := NewSplogWithConfig(SplogConfig{Writer: &buf, Debug: true})
		require.NoError(t, err)

		splog.Debug("walked %d commits", 3)
		splog.Warn("careful")
		require.Equal(t, "walked 3 commits\n⚠️  careful\n", buf.String())
	})

	t.Run("file log receives everything", func(t *testing.T) {
		var buf bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "logs", "workspace.log")
		splog, err := NewSplogWithConfig(SplogConfig{Writer: &buf, LogFile: logFile})
		require.NoError(t, err)

		splog.Debug("only in the file")
		splog.Warn("failed %s", "badly")
		require.NoError(t, splog.Close())

		require.Equal(t, "⚠️  failed badly\n", buf.String())
		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		require.Contains(t, string(data), "only in the file")
		require.Contains(t, string(data), "failed badly")
	})
}

func TestLogFilePath(t *testing.T) {
	t.Setenv(EnvLogFile, "")
	require.Equal(t, "configured.log", LogFilePath("configured.log"))

	t.Setenv(EnvLogFile, "/tmp/override.log")
	require.Equal(t, "/tmp/override.log", LogFilePath("configured.log"))
}

func TestNewRotatingWriter(t *testing.T) {
	t.Setenv(EnvLogMaxSize, "5")
	t.Setenv(EnvLogMaxBackups, "0")
	t.Setenv(EnvLogMaxAge, "not a number")

	w := newRotatingWriter("x.log")
	require.Equal(t, 5, w.MaxSize)
	require.Equal(t, 0, w.MaxBackups)
	require.Equal(t, 30, w.MaxAge)
}
