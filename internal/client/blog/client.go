package blog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dberestov/miniblog/internal/client/models"
	"github.com/dberestov/miniblog/internal/logging"
)

// Transport selects which wire protocol a Client speaks. The set is
// closed: every dispatch site switches over exactly these two values.
type Transport int

const (
	TransportHTTP Transport = iota + 1
	TransportGRPC
)

func (t Transport) String() string {
	switch t {
	case TransportHTTP:
		return "http"
	case TransportGRPC:
		return "grpc"
	default:
		return fmt.Sprintf("transport(%d)", int(t))
	}
}

// defaultPageSize is applied when a caller lists posts without a
// positive limit, before the page translation divides by it.
const defaultPageSize = 10

// Client is the unified blog API client. It dispatches every operation
// to the sub-client selected at construction and keeps the session
// token consistent between the two: the token lives in a single
// lock-guarded cell shared by pointer with the active sub-client, so a
// token stored by either side is immediately visible to the other.
//
// All methods are safe for concurrent use.
type Client struct {
	transport Transport
	addr      string
	http      *httpClient
	grpc      *grpcClient
	session   *session
	log       logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used for dispatch-level debug logging.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New constructs a Client for the given transport and endpoint
// address. Construction fails when the transport cannot be set up
// (unusable gRPC target, unknown transport value).
func New(t Transport, addr string, opts ...Option) (*Client, error) {
	c := &Client{
		transport: t,
		addr:      addr,
		session:   &session{},
		log:       logging.NewSlogLogger(slog.New(slog.DiscardHandler)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "blog_client", "transport", t.String())

	switch t {
	case TransportHTTP:
		c.http = newHTTPClient(addr, c.session)
	case TransportGRPC:
		grpcClient, err := newGRPCClient(addr, c.session)
		if err != nil {
			return nil, err
		}
		c.grpc = grpcClient
	default:
		return nil, newError(KindTransport, fmt.Sprintf("unknown transport %d", int(t)))
	}
	return c, nil
}

// Transport reports which protocol this client was constructed for.
func (c *Client) Transport() Transport { return c.transport }

// Addr reports the endpoint address the client was constructed with.
func (c *Client) Addr() string { return c.addr }

// SetToken replaces the session token, e.g. with one restored from a
// credential file.
func (c *Client) SetToken(token string) { c.session.set(token) }

// Token returns the current session token, or "" when absent.
func (c *Client) Token() string { return c.session.get() }

// ClearToken drops the session token. Subsequent write calls go out
// unauthenticated.
func (c *Client) ClearToken() { c.session.clear() }

// Register creates an account. On success the issued token (which may
// be empty on the gRPC path) is stored in the session before Register
// returns, so any later call through this client sees it.
func (c *Client) Register(ctx context.Context, username, email, password string) (*models.AuthResult, error) {
	c.log.Debug(ctx, "register", "username", username)
	switch c.transport {
	case TransportHTTP:
		return c.http.register(ctx, username, email, password)
	case TransportGRPC:
		return c.grpc.register(ctx, username, email, password)
	default:
		return nil, newError(KindTransport, "client not initialized")
	}
}

// Login authenticates and stores the issued token in the session
// before returning.
func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	c.log.Debug(ctx, "login", "username", username)
	switch c.transport {
	case TransportHTTP:
		return c.http.login(ctx, username, password)
	case TransportGRPC:
		return c.grpc.login(ctx, username, password)
	default:
		return nil, newError(KindTransport, "client not initialized")
	}
}

// Logout invalidates the session server-side where the transport
// supports it (gRPC only; the REST API keeps no session state) and
// always clears the local token.
func (c *Client) Logout(ctx context.Context) error {
	c.log.Debug(ctx, "logout")
	defer c.session.clear()
	if c.transport == TransportGRPC {
		return c.grpc.logout(ctx)
	}
	return nil
}

// CreatePost creates a post. The current token is attached when
// present; when absent the request goes out unauthenticated and the
// service rejects it.
func (c *Client) CreatePost(ctx context.Context, title, content string) (*models.Post, error) {
	c.log.Debug(ctx, "create post", "title", title)
	switch c.transport {
	case TransportHTTP:
		return c.http.createPost(ctx, title, content)
	case TransportGRPC:
		return c.grpc.createPost(ctx, title, content)
	default:
		return nil, newError(KindTransport, "client not initialized")
	}
}

// GetPost fetches a post by id. No token is required.
func (c *Client) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	switch c.transport {
	case TransportHTTP:
		return c.http.getPost(ctx, id)
	case TransportGRPC:
		return c.grpc.getPost(ctx, id)
	default:
		return nil, newError(KindTransport, "client not initialized")
	}
}

// UpdatePost partially updates a post: nil title or content leaves the
// field unchanged.
func (c *Client) UpdatePost(ctx context.Context, id int64, title, content *string) (*models.Post, error) {
	c.log.Debug(ctx, "update post", "id", id)
	switch c.transport {
	case TransportHTTP:
		return c.http.updatePost(ctx, id, title, content)
	case TransportGRPC:
		return c.grpc.updatePost(ctx, id, title, content)
	default:
		return nil, newError(KindTransport, "client not initialized")
	}
}

// DeletePost deletes a post by id.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	c.log.Debug(ctx, "delete post", "id", id)
	switch c.transport {
	case TransportHTTP:
		return c.http.deletePost(ctx, id)
	case TransportGRPC:
		return c.grpc.deletePost(ctx, id)
	default:
		return newError(KindTransport, "client not initialized")
	}
}

// ListPosts returns one page of posts. A non-positive limit defaults
// to defaultPageSize and a negative offset to 0. The REST API pages by
// (limit, offset) natively; for gRPC the façade owns the translation
// to (page, page_size) and reshapes the response so callers see the
// same envelope on both transports.
func (c *Client) ListPosts(ctx context.Context, limit, offset int64) (*models.PostPage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	switch c.transport {
	case TransportHTTP:
		return c.http.listPosts(ctx, limit, offset)
	case TransportGRPC:
		page, pageSize := pageForOffset(limit, offset)
		resp, err := c.grpc.listPosts(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		posts := make([]models.Post, 0, len(resp.Posts))
		for _, p := range resp.Posts {
			posts = append(posts, *postFromProto(p))
		}
		return &models.PostPage{
			Posts:  posts,
			Total:  resp.TotalCount,
			Limit:  limit,
			Offset: offset,
		}, nil
	default:
		return nil, newError(KindTransport, "client not initialized")
	}
}

// Close releases the underlying connection handle.
func (c *Client) Close() error {
	switch c.transport {
	case TransportHTTP:
		c.http.close()
		return nil
	case TransportGRPC:
		return c.grpc.close()
	default:
		return nil
	}
}

// pageForOffset translates (limit, offset) paging into 1-based
// (page, page_size) paging. The caller guarantees limit > 0.
func pageForOffset(limit, offset int64) (page, pageSize int32) {
	return int32(offset/limit) + 1, int32(limit)
}
