package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dberestov/miniblog/internal/client/blog"
	"github.com/dberestov/miniblog/internal/client/config"
)

// App wires the unified blog client, the token file and the
// interactive reader together.
type App struct {
	config   *config.Config
	client   *blog.Client
	tokens   *TokenFile
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	transport, err := transportFromName(c.Transport)
	if err != nil {
		return nil, err
	}

	apiClient, err := blog.New(transport, c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	tokens, err := NewTokenFile(c.TokenFile)
	if err != nil {
		return nil, err
	}

	// Restore a saved session, if any. A stale token is fine: the next
	// authenticated call surfaces Unauthorized and the user logs in
	// again.
	token, err := tokens.Load()
	if err != nil {
		log.Printf("could not read token file: %s", err)
	} else if token != "" {
		apiClient.SetToken(token)
	}

	return &App{config: c, client: apiClient, tokens: tokens, reader: bufio.NewReader(os.Stdin)}, nil
}

func transportFromName(name string) (blog.Transport, error) {
	switch name {
	case "http":
		return blog.TransportHTTP, nil
	case "grpc":
		return blog.TransportGRPC, nil
	default:
		return 0, fmt.Errorf("unknown transport %q (want http or grpc)", name)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.client.Token() != ""
}

// opCtx derives the per-operation context with the configured timeout.
func (a *App) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
