package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmlink-api/pkg/logger"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestNew_JSONConCamposFijos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "WARN", Service: "farmlink", Output: &buf})

	log.Info().Msg("no sale")
	assert.Zero(t, buf.Len(), "info queda por debajo de warn")

	log.Named("purchase").Warn().Str("listing_id", "l1").Msg("stock insuficiente")
	m := decodeLine(t, &buf)
	assert.Equal(t, "farmlink", m["service"])
	assert.Equal(t, "purchase", m["component"])
	assert.Equal(t, "l1", m["listing_id"])
	assert.Equal(t, "warn", m["level"])
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "verboso", Output: &buf})
	log.Debug().Msg("oculto")
	assert.Zero(t, buf.Len())
	log.Info().Msg("visible")
	assert.Equal(t, "visible", decodeLine(t, &buf)["message"])
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	root := logger.New(logger.Config{Output: &buf})
	reqLog := root.WithStr("request_id", "req-1")
	ctx := reqLog.IntoContext(context.Background())

	logger.FromContext(ctx, root).Info().Msg("hola")
	assert.Equal(t, "req-1", decodeLine(t, &buf)["request_id"])

	assert.Same(t, root, logger.FromContext(context.Background(), root))
	assert.NotNil(t, logger.FromContext(context.Background(), nil))
}
