package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		want  zapcore.Level
	}{
		{name: "開発環境は debug から出力", env: "development", level: "", want: zapcore.DebugLevel},
		{name: "本番環境は info から出力", env: "production", level: "", want: zapcore.InfoLevel},
		{name: "LOG_LEVEL で上書きできる", env: "production", level: "warn", want: zapcore.WarnLevel},
		{name: "不正なレベルは無視される", env: "development", level: "invalid_level", want: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLogger(tt.env, tt.level)
			require.NotNil(t, l)
			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestInit(t *testing.T) {
	original := Get()
	defer Set(original)

	l := Init("production", "error")
	require.NotNil(t, l)
	assert.Equal(t, l, Get())
	assert.False(t, Get().Core().Enabled(zapcore.WarnLevel))
}

func TestSet(t *testing.T) {
	original := Get()
	defer Set(original)

	newLogger := zap.NewNop()
	Set(newLogger)

	assert.Equal(t, newLogger, Get())
}

func TestOperation_AddsOperationField(t *testing.T) {
	original := Get()
	defer Set(original)

	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))

	Operation("create_reservation", zap.String("restaurant_id", "R1")).Info("予約を作成しました")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "create_reservation", fields["operation"])
	assert.Equal(t, "R1", fields["restaurant_id"])
}

func TestPackageLevelFunctions(t *testing.T) {
	original := Get()
	defer Set(original)

	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))

	Debug("debug")
	Info("info", zap.Int("party_size", 4))
	Warn("warn")
	Error("error", zap.String("error_code", "no_capacity"))
	With(zap.String("key", "value")).Info("with")

	assert.Equal(t, 5, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("info").Len())
	assert.Equal(t, 1, logs.FilterField(zap.String("key", "value")).Len())

	assert.NotPanics(t, func() {
		_ = Sync()
	})
}
