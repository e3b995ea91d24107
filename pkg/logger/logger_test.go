package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromWriter_ComponenteYNivel(t *testing.T) {
	var buf bytes.Buffer
	l := FromWriter(&buf, "warn").Component("workflow")

	l.Info().Msg("descartado por nivel")
	assert.Zero(t, buf.Len(), "info no se escribe con nivel warn")

	l.Warn().Str("factura_id", "f-1").Msg("transición rechazada")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "workflow", entry["component"])
	assert.Equal(t, "f-1", entry["factura_id"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "transición rechazada", entry["message"])
}

func TestParseLevel_DesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	FromWriter(&buf, "ruidoso").Debug().Msg("x")
	assert.Zero(t, buf.Len())
	FromWriter(&buf, "ruidoso").Info().Msg("y")
	assert.NotZero(t, buf.Len())
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error().Msg("nada") })
}
