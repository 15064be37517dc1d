package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuildLevels(t *testing.T) {
	l, cleanup := Build(Options{Level: "warn", JSON: true})
	defer cleanup()
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l2, cleanup2 := Build(Options{Level: "nonsense", Development: true})
	defer cleanup2()
	assert.True(t, l2.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l2.Core().Enabled(zapcore.DebugLevel))
}

func TestBuildWritesRotatedFileAsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	l, cleanup := Build(Options{
		Level:  "info",
		Fields: map[string]string{"app": "realestate-crm"},
		Rotate: FileRotate{Enable: true, Filename: path},
	})
	l.Info("lead created")
	ToStdLogger(l, zapcore.InfoLevel).Print("from gorm")
	cleanup()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"lead created"`)
	assert.Contains(t, string(b), `"app":"realestate-crm"`)
	assert.Contains(t, string(b), "from gorm")
}
