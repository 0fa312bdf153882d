package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
}

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	base := &Logger{zl: zerolog.New(&buf)}

	base.Component("report").Info().Msg("hola")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "report", entry["component"])
	assert.Equal(t, "hola", entry["message"])
}

func TestParseLevel_MayusculasYEspacios(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, parseLevel(" TRACE "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
}

func TestNew_SalidaJSONConServicio(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Service: "inventory-valuation", Output: &buf})

	l.Info().Msg("filtrado")
	l.Warn().Msg("visible")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "inventory-valuation", entry["service"])
	assert.Equal(t, zerolog.WarnLevel, l.Level())
}

func TestNop_NoEscribe(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, Nop().Level())
}
