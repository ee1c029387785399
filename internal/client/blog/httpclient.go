package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dberestov/miniblog/internal/client/models"
	"github.com/google/uuid"
)

// httpClient talks to the REST flavor of the blog API. One instance
// owns one *http.Client shared across concurrent calls; the session is
// the cell shared with the owning Client.
type httpClient struct {
	baseURL string
	hc      *http.Client
	session *session
}

func newHTTPClient(baseURL string, s *session) *httpClient {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 10 * time.Second},
		session: s,
	}
}

func (c *httpClient) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updatePostRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// send performs one round trip. A JSON body is attached when body is
// non-nil; the bearer header is attached when withAuth is set and a
// token is present, and omitted entirely otherwise.
func (c *httpClient) send(ctx context.Context, method, path string, body any, withAuth bool) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, wrapError(KindSerialization, "encode request body", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), rd)
	if err != nil {
		return nil, wrapError(KindTransport, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	if withAuth {
		if bearer, ok := c.session.bearer(); ok {
			req.Header.Set("Authorization", bearer)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, wrapError(KindTransport, "request failed", err)
	}
	return resp, nil
}

// decode consumes resp and unmarshals a 200/201 body into out. Any
// other status is normalized via mapHTTPStatus.
func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapError(KindTransport, "read response body", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if err := json.Unmarshal(raw, out); err != nil {
			return wrapError(KindSerialization, fmt.Sprintf("decode response: %s", err), err)
		}
		return nil
	default:
		return mapHTTPStatus(resp.StatusCode, raw)
	}
}

func (c *httpClient) register(ctx context.Context, username, email, password string) (*models.AuthResult, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/register", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, false)
	if err != nil {
		return nil, err
	}

	var out models.AuthResult
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	c.session.set(out.Token)
	return &out, nil
}

func (c *httpClient) login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/auth/login", loginRequest{
		Username: username,
		Password: password,
	}, false)
	if err != nil {
		return nil, err
	}

	var out models.AuthResult
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	c.session.set(out.Token)
	return &out, nil
}

func (c *httpClient) createPost(ctx context.Context, title, content string) (*models.Post, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/protected/posts", createPostRequest{
		Title:   title,
		Content: content,
	}, true)
	if err != nil {
		return nil, err
	}

	var out models.Post
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) getPost(ctx context.Context, id int64) (*models.Post, error) {
	resp, err := c.send(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, false)
	if err != nil {
		return nil, err
	}

	var out models.Post
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) updatePost(ctx context.Context, id int64, title, content *string) (*models.Post, error) {
	resp, err := c.send(ctx, http.MethodPut, fmt.Sprintf("/api/protected/posts/%d", id), updatePostRequest{
		Title:   title,
		Content: content,
	}, true)
	if err != nil {
		return nil, err
	}

	var out models.Post
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) deletePost(ctx context.Context, id int64) error {
	resp, err := c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/protected/posts/%d", id), nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	raw, _ := io.ReadAll(resp.Body)
	return mapHTTPStatus(resp.StatusCode, raw)
}

func (c *httpClient) listPosts(ctx context.Context, limit, offset int64) (*models.PostPage, error) {
	path := fmt.Sprintf("/api/posts?limit=%d&offset=%d", limit, offset)
	resp, err := c.send(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return nil, err
	}

	var out models.PostPage
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) close() {
	c.hc.CloseIdleConnections()
}
