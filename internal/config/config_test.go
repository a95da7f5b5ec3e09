package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	LoadConfig()

	assert.Equal(t, "scan2cad", Issuer)
	assert.Equal(t, 24, TokenTTLHours)
	assert.Equal(t, "postgres", NotificationStore)
	assert.Equal(t, []string{"http://localhost:", "http://127.0.0.1:"}, AllowedOrigins)
	assert.False(t, IsProduction)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("STORAGE_BACKEND", "MEMORY")
	t.Setenv("TOKEN_TTL_HOURS", "not-a-number")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("MERCADOPAGO_MOCK", "yes")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://portal.scan2cad.io , ,http://localhost:")
	LoadConfig()

	assert.True(t, IsProduction)
	assert.Equal(t, "memory", StorageBackend)
	assert.Equal(t, 24, TokenTTLHours)
	assert.Equal(t, int64(1048576), MaxUploadBytes)
	assert.True(t, PaymentGatewayMock)
	assert.Equal(t, int64(-1001), TelegramChatID)
	assert.Equal(t, []string{"https://portal.scan2cad.io", "http://localhost:"}, AllowedOrigins)
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		LogLevel = in
		assert.Equal(t, want, SlogLevel(), in)
	}
}
