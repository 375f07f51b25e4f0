package shared

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := SetupLogger(&buf, "info", "json", false)
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("Dealt", "seat", 2)

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "Dealt", line["msg"])
		assert.EqualValues(t, 2, line["seat"])
	})

	t.Run("debug flag wins", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := SetupLogger(&buf, "warn", "text", true)
		require.NoError(t, err)
		assert.Equal(t, log.DebugLevel, logger.GetLevel())
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		_, err := SetupLogger(&bytes.Buffer{}, "loud", "text", false)
		assert.Error(t, err)
		_, err = SetupLogger(&bytes.Buffer{}, "info", "xml", false)
		assert.Error(t, err)
	})
}
