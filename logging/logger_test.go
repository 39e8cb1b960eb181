package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"", LogLevelInfo, false},
		{"warning", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"loud", LogLevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNetLogger_AttachesContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf}).
		WithComponent("engine").
		WithNetwork("network_1").
		WithRun("run-1")

	l.LogTaskExecution("summarize", "summarizer", time.Second, nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "task.execution.completed", entry["msg"])
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "network_1", entry["network_id"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "summarize", entry["task"])
}

func TestNetLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "text", Output: &buf})

	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.LogToolCall("web_search", time.Millisecond, errors.New("boom"))
	assert.Contains(t, buf.String(), "tool.call.failed")
	assert.Contains(t, buf.String(), "boom")
}
