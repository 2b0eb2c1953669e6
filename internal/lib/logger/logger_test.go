package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogger_ProdSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := setupLogger(EnvProd, &buf)

	log.Debug("hidden")
	log.Info("visible", slog.String("op", "test"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"op":"test"`)
}

func TestSetupLogger_DevWritesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := setupLogger(EnvDev, &buf)

	log.Debug("debug line")
	assert.Contains(t, buf.String(), "debug line")
}

func TestSetupLogger_LocalPretty(t *testing.T) {
	var buf bytes.Buffer
	log := setupLogger(EnvLocal, &buf).With(slog.String("op", "pretty"))

	log.Error("boom", slog.Any("error", errors.New("db is down")))

	out := buf.String()
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "db is down")
	assert.Contains(t, out, "pretty")
}
