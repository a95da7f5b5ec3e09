package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	JwtSecret     string
	Issuer        string
	TokenTTLHours int
	DbHost        string
	DbPort        string
	DbUser        string
	DbPassword    string
	DbName        string
	ServerPort    string
	LogLevel      string
	IsProduction  bool

	AllowedOrigins []string

	// StorageBackend selects the object store: minio or memory.
	StorageBackend string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	UploadPolicyFile string
	// MaxUploadBytes bounds one multipart request body; 0 disables the cap.
	MaxUploadBytes int64

	MercadoPagoAccessToken string
	PaymentGatewayMock     bool

	TelegramToken  string
	TelegramChatID int64

	// NotificationStore selects the notification backend: postgres or dynamodb.
	NotificationStore  string
	NotificationsTable string
	AWSRegion          string
	AWSAccessKey       string
	AWSSecretKey       string
	DynamoDBEndpoint   string

	PortalURL string

	ReservedAdminEmail    string
	ReservedAdminPassword string
)

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	JwtSecret = getEnv("JWT_SECRET", "defaultsecret")
	Issuer = getEnv("JWT_ISSUER", "scan2cad")
	TokenTTLHours = getEnvInt("TOKEN_TTL_HOURS", 24)
	DbHost = getEnv("DB_HOST", "localhost")
	DbPort = getEnv("DB_PORT", "5432")
	DbUser = getEnv("DB_USER", "postgres")
	DbPassword = getEnv("DB_PASSWORD", "password")
	DbName = getEnv("DB_NAME", "scan2cad")
	ServerPort = getEnv("SERVER_PORT", "8080")
	LogLevel = getEnv("LOG_LEVEL", "info")
	IsProduction = strings.EqualFold(getEnv("APP_ENV", "development"), "production")

	AllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:,http://127.0.0.1:"))

	StorageBackend = strings.ToLower(getEnv("STORAGE_BACKEND", "minio"))
	MinioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	MinioSecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")
	MinioBucket = getEnv("MINIO_BUCKET", "scan2cad")
	MinioUseSSL, _ = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	UploadPolicyFile = getEnv("UPLOAD_POLICY_FILE", "")
	MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_BYTES", 0))

	MercadoPagoAccessToken = getEnv("MERCADOPAGO_ACCESS_TOKEN", "")
	PaymentGatewayMock = isTruthy(getEnv("PAYMENT_GATEWAY_MOCK", getEnv("MERCADOPAGO_MOCK", "")))

	TelegramToken = getEnv("TELEGRAM_TOKEN", "")
	TelegramChatID, _ = strconv.ParseInt(getEnv("TELEGRAM_CHAT_ID", "0"), 10, 64)

	NotificationStore = strings.ToLower(getEnv("NOTIFICATION_STORE", "postgres"))
	NotificationsTable = getEnv("NOTIFICATIONS_TABLE", "notifications")
	AWSRegion = getEnv("AWS_REGION", "us-east-1")
	AWSAccessKey = getEnv("AWS_ACCESS_KEY_ID", "")
	AWSSecretKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", "")

	PortalURL = getEnv("PORTAL_URL", "http://localhost:5173")

	ReservedAdminEmail = getEnv("ADMIN_EMAIL", "admin@scan2cad.local")
	ReservedAdminPassword = getEnv("ADMIN_PASSWORD", "")
}

// SlogLevel maps LOG_LEVEL onto slog.
func SlogLevel() slog.Level {
	switch strings.ToLower(LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
