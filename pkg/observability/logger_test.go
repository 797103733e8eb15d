package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(logrus.InfoLevel, FormatJSON, &buf)

	t.Run("debug not logged at info level", func(t *testing.T) {
		buf.Reset()
		logger.Debug("debug message")
		assert.Zero(t, buf.Len())
	})

	t.Run("info logged as json", func(t *testing.T) {
		buf.Reset()
		logger.WithField("identifier", "foo-plugin").Info("info message")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "info message", entry["msg"])
		assert.Equal(t, "foo-plugin", entry["identifier"])
	})
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(logrus.DebugLevel, FormatText, &buf)

	logger.Debug("hello")
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel(" WARN "))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("bogus"))
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseLogFormat("JSON"))
	assert.Equal(t, FormatText, ParseLogFormat("text"))
	assert.Equal(t, FormatText, ParseLogFormat(""))
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(logrus.InfoLevel, FormatJSON, &buf)

	ctx := WithLogger(context.Background(), logger)
	ctx = WithRunID(ctx, "run-123")

	assert.Same(t, logger, GetLogger(ctx))
	assert.Equal(t, "run-123", GetRunID(ctx))

	FromContext(ctx).Info("from context")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-123", entry["run_id"])
	assert.NotContains(t, entry, "trace_id")
}

func TestContextLogger_TraceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(logrus.InfoLevel, FormatJSON, &buf)

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(WithLogger(context.Background(), logger), "op")
	defer span.End()

	FromContext(ctx).Info("traced")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
}

func TestGetLogger_DefaultsToStandard(t *testing.T) {
	assert.Same(t, logrus.StandardLogger(), GetLogger(context.Background()))
	assert.Empty(t, GetRunID(context.Background()))
}
