package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldLog(t *testing.T) {
	sl := NewSystemLogger(nil, SystemLoggerConfig{MinLevel: LevelWarn})

	assert.False(t, sl.shouldLog(LevelDebug))
	assert.False(t, sl.shouldLog(LevelInfo))
	assert.True(t, sl.shouldLog(LevelWarn))
	assert.True(t, sl.shouldLog(LevelError))
	assert.True(t, sl.shouldLog(LevelFatal))
}

func TestExtractComponent(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"/home/dev/better-pay/provider/iyzico/iyzico.go", "provider/iyzico"},
		{"/home/dev/better-pay/handler/handler.go", "handler"},
		{"/some/other/path/main.go", "path"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractComponent(tt.file), "file %s", tt.file)
	}
}

func TestContextLoggerChaining(t *testing.T) {
	sl := NewSystemLogger(nil, SystemLoggerConfig{MinLevel: LevelInfo})

	cl := sl.WithContext(LogContext{}).
		SetProvider("iyzico").
		SetRequestID("req-123").
		AddField("paymentId", "pay-1")

	require.NotNil(t, cl)
	assert.Equal(t, "iyzico", cl.context.Provider)
	assert.Equal(t, "req-123", cl.context.RequestID)
	assert.Equal(t, "pay-1", cl.context.Fields["paymentId"])
}

func TestGetGlobalLogger_FallsBackToConsole(t *testing.T) {
	sl := GetGlobalLogger()
	require.NotNil(t, sl)
	assert.Equal(t, "better-pay", sl.service)
	assert.True(t, sl.enableConsole)
	assert.False(t, sl.enableOpenSearch)
}
