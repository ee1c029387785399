package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dberestov/miniblog/internal/flagx"
	"github.com/dberestov/miniblog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It
// relies on timex.Duration so JSON can specify the timeout either as a
// string like "10s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	Transport          string         `json:"transport"`
	TokenFile          string         `json:"token_file"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with values loaded from the JSON file named by
// the -c/-config flags. When no file is named, cfg is left untouched.
// Read or unmarshal errors panic; the config stage runs before any
// remote work starts.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.Transport != "" {
		cfg.Transport = jc.Transport
	}
	if jc.TokenFile != "" {
		cfg.TokenFile = jc.TokenFile
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}
