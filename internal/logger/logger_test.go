package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// bufferedLogger builds a logger from the production config writing to buf
func bufferedLogger(t *testing.T, buf *bytes.Buffer) *zap.Logger {
	t.Helper()
	config, err := Config("production", "debug")
	require.NoError(t, err)

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config.EncoderConfig),
		zapcore.AddSync(buf),
		config.Level,
	)
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
}

func TestProperty_ProductionLogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("production entries are JSON with level, timestamp and message", prop.ForAll(
		func(message string, level string) bool {
			var buf bytes.Buffer
			logger := bufferedLogger(t, &buf)

			switch level {
			case "debug":
				logger.Debug(message)
			case "warn":
				logger.Warn(message)
			case "error":
				logger.Error(message)
			default:
				logger.Info(message)
			}
			logger.Sync()

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}
			_, hasTimestamp := entry["timestamp"]
			return hasTimestamp && entry["level"] == level && entry["msg"] == message
		},
		gen.AnyString(),
		gen.OneConstOf("debug", "info", "warn", "error"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestErrorLogsCarryFieldsAndStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferedLogger(t, &buf)

	logger.Error("Catalog query failed", zap.String("resource", "brands"))
	logger.Sync()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "brands", entry["resource"])
	assert.Contains(t, entry, "stacktrace")
}

func TestConfig_Levels(t *testing.T) {
	prod, err := Config("production", "")
	require.NoError(t, err)
	assert.Equal(t, "json", prod.Encoding)
	assert.Equal(t, zapcore.InfoLevel, prod.Level.Level())
	assert.Equal(t, []string{"stdout"}, prod.OutputPaths)

	dev, err := Config("development", "")
	require.NoError(t, err)
	assert.Equal(t, "console", dev.Encoding)
	assert.Equal(t, zapcore.DebugLevel, dev.Level.Level())

	quiet, err := Config("development", "warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, quiet.Level.Level())

	_, err = Config("production", "loud")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	logger, err := New("production", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
