package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"", InfoLevel, false},
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{" warning ", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"trace", "", true},
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

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := WithMachine(WithComponent(New(Config{Level: InfoLevel, JSONOutput: true, Output: &buf}), "provision"), "dut01")

	logger.Debug().Msg("hidden")
	logger.Info().Int64("id", 42).Msg("machine resolved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "provision", entry["component"])
	assert.Equal(t, "dut01", entry["machine"])
	assert.Equal(t, "machine resolved", entry["message"])
	assert.Equal(t, float64(42), entry["id"])
	assert.Contains(t, entry, "time")
}

func TestNew_ConsoleOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Level: DebugLevel, Output: &buf})
	logger.Debug().Str("phase", "kernel").Msg("phase started")

	out := buf.String()
	assert.Contains(t, out, "phase started")
	assert.Contains(t, out, "phase=")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestNew_ErrorLevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Level: ErrorLevel, JSONOutput: true, Output: &buf})
	logger.Warn().Msg("ignored")
	assert.Empty(t, buf.String())

	logger.Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}
