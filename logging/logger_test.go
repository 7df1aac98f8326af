package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/tokamak-network/dao-action-builder/logging/colors"
)

// TestAddAndRemoveWriter will test to Logger.AddWriter and Logger.RemoveWriter functions to ensure that they work as expected.
func TestAddAndRemoveWriter(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel, false)

	var structured, unstructured bytes.Buffer
	logger.AddWriter(&structured, STRUCTURED)
	logger.AddWriter(&unstructured, UNSTRUCTURED)
	assert.Len(t, logger.writers, 2)

	// Duplicates are ignored, whatever the format
	logger.AddWriter(&structured, STRUCTURED)
	logger.AddWriter(&unstructured, STRUCTURED)
	assert.Len(t, logger.writers, 2)

	logger.RemoveWriter(&unstructured)
	assert.Len(t, logger.writers, 1)
	logger.RemoveWriter(&unstructured)
	assert.Len(t, logger.writers, 1)
	logger.RemoveWriter(&structured)
	assert.Len(t, logger.writers, 0)
}

// TestStructuredOutput checks that structured writers receive JSON with the sub-logger context, the error and any
// structured info attached.
func TestStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buf)
	subLogger := logger.NewSubLogger("module", CALLDATA_SERVICE)

	subLogger.Warn(colors.Red, "decode ", "failed", errors.New("short calldata"), StructuredLogInfo{"length": 3})

	var event map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "warn", event["level"])
	assert.Equal(t, CALLDATA_SERVICE, event["module"])
	assert.Equal(t, "decode failed", event["message"])
	assert.Equal(t, "short calldata", event["error"])
	assert.Equal(t, map[string]any{"length": float64(3)}, event["info"])
}

// TestLevelFiltering checks that events below the logger level are dropped and that SetLevel takes effect.
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.WarnLevel, false, &buf)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.SetLevel(zerolog.DebugLevel)
	assert.Equal(t, zerolog.DebugLevel, logger.Level())
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

// TestDisabledColors verifies that unstructured writers never receive ANSI sequences, even when the message is built
// with color functions.
func TestDisabledColors(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel, false)

	var buf bytes.Buffer
	logger.AddWriter(&buf, UNSTRUCTURED)

	colors.DisableColor()
	logger.Info(colors.GreenBold, "foo")

	assert.Contains(t, buf.String(), "foo")
	assert.False(t, strings.Contains(buf.String(), "\x1b["))
}

// TestPanic checks that Panic logs the message and then panics with it.
func TestPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buf)

	assert.PanicsWithValue(t, "boom", func() {
		logger.Panic("boom")
	})
	assert.Contains(t, buf.String(), "boom")
}
