package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	// Header and idle timeouts only: the websocket endpoint hijacks its
	// connection, so full read/write timeouts would cut live conversations.
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
	IdleTimeout       time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`

	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	WSTokenSecret string        `envconfig:"WS_TOKEN_SECRET" required:"true"`
	WSTokenTTL    time.Duration `envconfig:"WS_TOKEN_TTL" default:"2m"`

	DBPath            string `envconfig:"DB_PATH" default:"chatspace.db"`
	UploadDir         string `envconfig:"UPLOAD_DIR" default:"uploads"`
	MaxUploadBytes    int64  `envconfig:"MAX_UPLOAD_BYTES" default:"8388608"`
	AllowedExtensions string `envconfig:"ALLOWED_EXTENSIONS" default:"png,jpg,jpeg,gif"`

	TemplateDir string `envconfig:"TEMPLATE_DIR" default:"web/templates"`

	// Relay settings. Leaving RelayBind empty disables cross-instance fan-out.
	RelayBind  string `envconfig:"RELAY_BIND" default:""`
	RelayPeers string `envconfig:"RELAY_PEERS" default:""`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("CHATSPACE", &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &cfg, nil
}

// Extensions returns the allow-list as a normalized slice, lowercase and
// without dots.
func (c *Config) Extensions() []string {
	var out []string
	for _, e := range strings.Split(c.AllowedExtensions, ",") {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// Peers splits the comma-separated relay peer list.
func (c *Config) Peers() []string {
	if c.RelayPeers == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(c.RelayPeers, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
