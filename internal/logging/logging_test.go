package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/LeJamon/pixpressd/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithOutput(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("hash", "AB").Debug("applied transaction")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "applied transaction", line["msg"])
	assert.Equal(t, "AB", line["hash"])
	assert.Equal(t, "debug", line["level"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithOutput(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	assert.Zero(t, buf.Len())
	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(config.LogConfig{Level: "chatty", Format: "text"})
	assert.Error(t, err)
	_, err = New(config.LogConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
