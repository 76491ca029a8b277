package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"dEbUg", LevelDebug},
		{"info", LevelInfo},
		{"Warn", LevelWarn},
		{"warning", LevelWarn},
		{" error ", LevelError},
		{"", LevelInfo},
		{"trace", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLevel(tt.input), tt.input)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("Json"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat(""))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
}

func TestValidLevelAndFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidLevel("WARNING"))
	assert.True(t, ValidLevel(""))
	assert.False(t, ValidLevel("trace"))
	assert.True(t, ValidFormat("JSON"))
	assert.False(t, ValidFormat("yaml"))
}

func TestNew_JSONWithRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	ctx := WithRequestID(context.Background(), "req-1")
	logger.InfoContext(ctx, "saved", "endpoints", 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "saved", rec["msg"])
	assert.Equal(t, "req-1", rec[RequestIDAttr])
	assert.Equal(t, float64(2), rec["endpoints"])
}

func TestNew_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(Config{Level: LevelWarn, Output: &buf})
	logger.Info("hidden")
	logger.With("component", "store").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "component=store")
	assert.NotContains(t, out, RequestIDAttr)
}

func TestNew_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "ourohead.log")
	var buf bytes.Buffer
	logger, closeFn, err := New(Config{Level: LevelInfo, Output: &buf, File: path})
	require.NoError(t, err)

	logger.Info("to both", "n", 1)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"))
	assert.Contains(t, string(data), `"msg":"to both"`)
	assert.Contains(t, buf.String(), "to both")
}

func TestRequestID_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, RequestID(context.Background()))
}

func TestNop(t *testing.T) {
	t.Parallel()
	logger := Nop()
	logger.Error("nothing")
	assert.False(t, logger.Enabled(context.Background(), LevelError))
}
