package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogKeepsConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Writer: &buf, MaxLines: 2})
	require.NoError(t, err)

	l.Log("one")
	l.Log("two")
	l.Log("three")

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "two"))
	assert.True(t, strings.HasSuffix(lines[1], "three"))
	assert.Contains(t, buf.String(), "msg=three")
	assert.Contains(t, buf.String(), "source=console")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Writer: &buf, Level: "warn"})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "book", "b1")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "book=b1")
}

func TestParseLevel(t *testing.T) {
	_, err := ParseLevel("loud")
	assert.Error(t, err)
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", lvl.String())
}

func TestWithSharesConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Writer: &buf})
	require.NoError(t, err)
	child := l.With("component", "shelf")
	child.Log("placed")
	assert.Len(t, l.Lines(), 1)
	assert.Contains(t, buf.String(), "component=shelf")
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	l, err := New(Options{Path: path})
	require.NoError(t, err)
	l.Error("boom")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=boom")
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Log("x")
		l.Info("x")
		_ = l.With("a", 1)
		_ = l.Close()
	})
	assert.Nil(t, l.Lines())
}
