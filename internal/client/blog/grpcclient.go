package blog

import (
	"context"
	"time"

	"github.com/dberestov/miniblog/internal/blogpb"
	"github.com/dberestov/miniblog/internal/client/models"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// grpcClient talks to the gRPC flavor of the blog API. One instance
// owns one *grpc.ClientConn; the stubs are cheap copies sharing that
// connection, never a fresh dial per call. The session is the cell
// shared with the owning Client.
type grpcClient struct {
	conn    *grpc.ClientConn
	auth    blogpb.AuthServiceClient
	posts   blogpb.PostServiceClient
	session *session
}

func newGRPCClient(addr string, s *session) (*grpcClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, wrapError(KindTransport, "create channel", err)
	}
	return &grpcClient{
		conn:    conn,
		auth:    blogpb.NewAuthServiceClient(conn),
		posts:   blogpb.NewPostServiceClient(conn),
		session: s,
	}, nil
}

// withAuth returns ctx with the outgoing call metadata: a request id,
// and the bearer token when one is present. The token value is
// formatted identically to the HTTP Authorization header.
func (c *grpcClient) withAuth(ctx context.Context) context.Context {
	ctx = metadata.AppendToOutgoingContext(ctx, "x-request-id", uuid.NewString())
	if bearer, ok := c.session.bearer(); ok {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", bearer)
	}
	return ctx
}

func (c *grpcClient) register(ctx context.Context, username, email, password string) (*models.AuthResult, error) {
	resp, err := c.auth.Register(ctx, &blogpb.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, mapGRPCError(err)
	}

	if resp.Token != "" {
		c.session.set(resp.Token)
	}

	// The register response carries only the new user id; echo back the
	// submitted identity fields the way the HTTP body would.
	return &models.AuthResult{
		Token: resp.Token,
		User: models.User{
			ID:        resp.UserId,
			Username:  username,
			Email:     email,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

func (c *grpcClient) login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	resp, err := c.auth.Login(ctx, &blogpb.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, mapGRPCError(err)
	}
	if resp.User == nil {
		return nil, newError(KindInvalidRequest, "no user data in response")
	}

	if resp.Token != "" {
		c.session.set(resp.Token)
	}

	return &models.AuthResult{
		Token: resp.Token,
		User: models.User{
			ID:        resp.User.Id,
			Username:  resp.User.Username,
			Email:     resp.User.Email,
			CreatedAt: resp.User.CreatedAt,
		},
	}, nil
}

func (c *grpcClient) logout(ctx context.Context) error {
	token := c.session.get()
	if token == "" {
		return nil
	}
	if _, err := c.auth.Logout(c.withAuth(ctx), &blogpb.LogoutRequest{Token: token}); err != nil {
		return mapGRPCError(err)
	}
	return nil
}

func (c *grpcClient) createPost(ctx context.Context, title, content string) (*models.Post, error) {
	resp, err := c.posts.CreatePost(c.withAuth(ctx), &blogpb.CreatePostRequest{
		Title:   title,
		Content: content,
	})
	if err != nil {
		return nil, mapGRPCError(err)
	}
	return postFromProto(resp), nil
}

func (c *grpcClient) getPost(ctx context.Context, id int64) (*models.Post, error) {
	resp, err := c.posts.GetPost(ctx, &blogpb.GetPostRequest{Id: id})
	if err != nil {
		return nil, mapGRPCError(err)
	}
	return postFromProto(resp), nil
}

func (c *grpcClient) updatePost(ctx context.Context, id int64, title, content *string) (*models.Post, error) {
	resp, err := c.posts.UpdatePost(c.withAuth(ctx), &blogpb.UpdatePostRequest{
		Id:      id,
		Title:   title,
		Content: content,
	})
	if err != nil {
		return nil, mapGRPCError(err)
	}
	return postFromProto(resp), nil
}

func (c *grpcClient) deletePost(ctx context.Context, id int64) error {
	resp, err := c.posts.DeletePost(c.withAuth(ctx), &blogpb.DeletePostRequest{Id: id})
	if err != nil {
		return mapGRPCError(err)
	}
	if !resp.Success {
		return newError(KindTransport, resp.Message)
	}
	return nil
}

func (c *grpcClient) listPosts(ctx context.Context, page, pageSize int32) (*blogpb.ListPostsResponse, error) {
	resp, err := c.posts.ListPosts(ctx, &blogpb.ListPostsRequest{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, mapGRPCError(err)
	}
	return resp, nil
}

func (c *grpcClient) close() error {
	return c.conn.Close()
}

func postFromProto(p *blogpb.Post) *models.Post {
	return &models.Post{
		ID:        p.Id,
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorId,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
