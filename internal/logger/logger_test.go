package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorLogReceivesOnlyWarningsAndErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "error.log")
	require.NoError(t, OpenErrorLog(path))
	defer CloseLogFile()

	Infof("fetched %s", "http://example.com")
	Debugf("not persisted")
	Warnf("slow response from %s", "example.org")
	Errorf("boom: %d", 42)

	CloseLogFile()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "[WARNING]")
	assert.Contains(t, content, "slow response from example.org")
	assert.Contains(t, content, "boom: 42")
	assert.NotContains(t, content, "fetched")
	assert.NotContains(t, content, "not persisted")
}

func TestGetColorFuncFallsBackToWhite(t *testing.T) {
	fn := GetColorFunc("no-such-color")
	assert.Contains(t, fn("text"), "text")
}
