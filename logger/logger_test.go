package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("bogus"))
}

func TestInitWithFile(t *testing.T) {
	defer Set(zap.NewNop())
	logFile := filepath.Join(t.TempDir(), "export.log")
	InitWithFileConfig("debug", DefaultFileConfig(logFile), false)
	Log.Info("wrote file", zap.String("path", "data_0.vtk"))
	Log.Debug("section", zap.String("name", "POINTS"))
	Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"wrote file"`)
	assert.Contains(t, string(data), `"path":"data_0.vtk"`)
	assert.Contains(t, string(data), `"name":"POINTS"`)
}
