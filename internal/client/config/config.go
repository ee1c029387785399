package config

import "time"

// Config holds runtime settings for the blog CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the HTTP API or host:port of the
//     gRPC endpoint, depending on Transport.
//   - Transport: "http" or "grpc".
//   - TokenFile: path of the file the session token is persisted to
//     between invocations; empty means ~/.blog_token.
//   - RequestTimeout: per-operation deadline applied by the CLI.
type Config struct {
	ServerEndpointAddr string
	Transport          string
	TokenFile          string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:3000"
	c.Transport = "http"
	c.TokenFile = ""
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays
// values from JSON (if present), environment variables, and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
