package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With(zap.String("component", "orders"))

	log.Info("order created", zap.String("order_number", "MB-1-ABCD"))
	log.Debug("noise")

	entries := logs.All()
	require.Len(t, entries, 2)
	ctx := entries[0].ContextMap()
	require.Equal(t, "orders", ctx["component"])
	require.Equal(t, "MB-1-ABCD", ctx["order_number"])
}

func TestNewZapLoggerBuilds(t *testing.T) {
	for _, enc := range []string{"json", "console"} {
		l := NewZapLogger(&ZapLoggerConfig{Encoding: enc, Level: "debug", IsDevelopment: enc == "console"})
		require.NotNil(t, l)
		l.Debug("hello")
	}
}
