package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(&buf, "debug")
	assert.Equal(t, logrus.DebugLevel, log.Level)

	log.WithField("sessionId", "guest_1").Info("cart loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cart loaded", entry["message"])
	assert.Equal(t, "info", entry["severity"])
	assert.Equal(t, "guest_1", entry["sessionId"])
	assert.Contains(t, entry, "timestamp")
}

func TestParseLevelFallsBack(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, NewJSON(&bytes.Buffer{}, "loud").Level)
	assert.Equal(t, logrus.WarnLevel, NewText(&bytes.Buffer{}, "").Level)
	assert.Equal(t, logrus.ErrorLevel, NewText(&bytes.Buffer{}, "error").Level)
}
