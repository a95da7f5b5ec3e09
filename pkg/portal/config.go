package portal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

const (
	ProductionOrigin  = "https://portal.scan2cad.io"
	DevelopmentOrigin = "http://localhost:5173"
)

// Config selects the API and socket endpoints. Explicit URLs win over the
// environment defaults.
type Config struct {
	Env            Environment   `env:"SCAN2CAD_ENV" envDefault:"development"`
	APIURL         string        `env:"SCAN2CAD_API_URL"`
	SocketURL      string        `env:"SCAN2CAD_SOCKET_URL"`
	TokenFile      string        `env:"SCAN2CAD_TOKEN_FILE"`
	RequestTimeout time.Duration `env:"SCAN2CAD_REQUEST_TIMEOUT" envDefault:"30s"`
	UploadTimeout  time.Duration `env:"SCAN2CAD_UPLOAD_TIMEOUT" envDefault:"30m"`
	PollInterval   time.Duration `env:"SCAN2CAD_POLL_INTERVAL" envDefault:"20s"`
	Debounce       time.Duration `env:"SCAN2CAD_DEBOUNCE" envDefault:"500ms"`
}

// LoadConfig reads the client settings from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse client config: %w", err)
	}
	return cfg.Resolve()
}

// Resolve fills the endpoint URLs for the selected environment.
func (c Config) Resolve() (Config, error) {
	var origin, socketOrigin string
	switch c.Env {
	case Development, "":
		c.Env = Development
		origin, socketOrigin = DevelopmentOrigin, "ws://localhost:5173"
	case Production:
		origin, socketOrigin = ProductionOrigin, "wss://portal.scan2cad.io"
	default:
		return Config{}, fmt.Errorf("unknown environment %q", c.Env)
	}
	if c.APIURL == "" {
		c.APIURL = origin + "/api"
	}
	if c.SocketURL == "" {
		c.SocketURL = socketOrigin + "/socket"
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.TokenFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			c.TokenFile = filepath.Join(dir, "scan2cad", "token")
		}
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.UploadTimeout <= 0 {
		c.UploadTimeout = 30 * time.Minute
	}
	return c, nil
}
