package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// envConfig mirrors the Config fields that can be set through the
// environment. Unset variables stay zero and do not overlay.
type envConfig struct {
	ServerEndpointAddr string        `env:"BLOG_SERVER_ADDR"`
	Transport          string        `env:"BLOG_TRANSPORT"`
	TokenFile          string        `env:"BLOG_TOKEN_FILE"`
	RequestTimeout     time.Duration `env:"BLOG_REQUEST_TIMEOUT"`
}

// parseEnv overlays cfg with values from environment variables using
// go-envconfig. Malformed values panic, matching the JSON stage.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := envconfig.Process(context.Background(), &ec); err != nil {
		panic(err)
	}

	if ec.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = ec.ServerEndpointAddr
	}
	if ec.Transport != "" {
		cfg.Transport = ec.Transport
	}
	if ec.TokenFile != "" {
		cfg.TokenFile = ec.TokenFile
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
}
