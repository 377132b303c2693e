package slogpretty_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/linemk/coin-trader/internal/lib/logger/handlers/slogpretty"
)

func TestPrettyHandler(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	opts := slogpretty.PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug}}
	log := slog.New(opts.NewPrettyHandler(&buf))

	log.With(slog.String("op", "test.op")).Error("order rejected", slog.Any("error", errors.New("insufficient balance")))

	out := buf.String()
	assert.Contains(t, out, "ERROR:")
	assert.Contains(t, out, "order rejected")
	assert.Contains(t, out, `"op": "test.op"`)
	assert.Contains(t, out, `"error": "insufficient balance"`)
}
