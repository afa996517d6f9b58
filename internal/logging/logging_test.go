package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("userauth-api", "test", "info", "json", &buf)

	logger.Info("hello", "k", "v")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "userauth-api", record["service"])
	assert.Equal(t, "test", record["version"])
	assert.Equal(t, "v", record["k"])
}

func TestSetup_TextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("svc", "v1", "warn", "text", &buf)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "msg=kept")
	assert.Contains(t, buf.String(), "service=svc")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestLogError(t *testing.T) {
	t.Run("oops error carries code and context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("svc", "v1", "debug", "json", &buf)

		err := oops.Code("DB_QUERY_FAILED").With("table", "users").Wrap(errors.New("boom"))
		LogError(logger, "query failed", err)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "query failed", record["msg"])
		assert.Equal(t, "DB_QUERY_FAILED", record["code"])
		assert.Contains(t, record["error"], "boom")
		assert.NotNil(t, record["context"])
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("svc", "v1", "debug", "json", &buf)

		LogError(logger, "failed", errors.New("plain"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "plain", record["error"])
		assert.Nil(t, record["code"])
	})
}
