package config

import (
	"flag"
	"os"

	"github.com/dberestov/miniblog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address of the backend endpoint (default from Config)
//	-t string   transport, "http" or "grpc"
//	-f string   path of the token file
//
// The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with flags
// owned by other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address of the backend endpoint")
	fs.StringVar(&cfg.Transport, "t", cfg.Transport, "transport to use: http or grpc")
	fs.StringVar(&cfg.TokenFile, "f", cfg.TokenFile, "path of the token file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
