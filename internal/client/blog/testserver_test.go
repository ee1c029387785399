package blog

// In-process stand-ins for the remote blog service, one store exposed
// through both wire fronts so the façade can be exercised end to end
// on each transport against identical semantics.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dberestov/miniblog/internal/blogpb"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var (
	errBadCredentials = errors.New("invalid credentials")
	errNoAuth         = errors.New("missing or invalid token")
	errUserExists     = errors.New("user already exists")
	errPostMissing    = errors.New("post not found")
	errNotAuthor      = errors.New("not the author")
)

type fakeUser struct {
	id        int64
	username  string
	email     string
	password  string
	createdAt string
}

type fakePost struct {
	id        int64
	title     string
	content   string
	authorID  int64
	createdAt string
	updatedAt string
}

// fakeStore is the single source of truth behind both fronts.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*fakeUser
	tokens   map[string]int64
	posts    map[int64]*fakePost
	nextUser int64
	nextPost int64
	clock    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[string]*fakeUser),
		tokens: make(map[string]int64),
		posts:  make(map[int64]*fakePost),
	}
}

// now returns a strictly increasing RFC3339-shaped timestamp so
// "updated_at bumped" is observable even within one test run.
func (s *fakeStore) now() string {
	s.clock++
	return fmt.Sprintf("2024-01-01T00:00:00.%09dZ", s.clock)
}

func (s *fakeStore) register(username, email, password string) (*fakeUser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return nil, "", errUserExists
	}
	s.nextUser++
	u := &fakeUser{id: s.nextUser, username: username, email: email, password: password, createdAt: s.now()}
	s.users[username] = u
	token := fmt.Sprintf("tok-%s-%d", username, s.nextUser)
	s.tokens[token] = u.id
	return u, token, nil
}

func (s *fakeStore) login(username, password string) (*fakeUser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok || u.password != password {
		return nil, "", errBadCredentials
	}
	token := fmt.Sprintf("tok-%s-login-%d", username, s.clock+1)
	s.clock++
	s.tokens[token] = u.id
	return u, token, nil
}

func (s *fakeStore) userFor(token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	if !ok {
		return 0, errNoAuth
	}
	return id, nil
}

func (s *fakeStore) createPost(authorID int64, title, content string) *fakePost {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPost++
	ts := s.now()
	p := &fakePost{id: s.nextPost, title: title, content: content, authorID: authorID, createdAt: ts, updatedAt: ts}
	s.posts[p.id] = p
	return p
}

func (s *fakeStore) getPost(id int64) (*fakePost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, errPostMissing
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) updatePost(userID, id int64, title, content *string) (*fakePost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, errPostMissing
	}
	if p.authorID != userID {
		return nil, errNotAuthor
	}
	if title != nil {
		p.title = *title
	}
	if content != nil {
		p.content = *content
	}
	p.updatedAt = s.now()
	cp := *p
	return &cp, nil
}

func (s *fakeStore) deletePost(userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return errPostMissing
	}
	if p.authorID != userID {
		return errNotAuthor
	}
	delete(s.posts, id)
	return nil
}

func (s *fakeStore) listPosts(limit, offset int64) ([]*fakePost, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*fakePost, 0, len(s.posts))
	for _, p := range s.posts {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].id < all[j].id })
	total := int64(len(all))
	if offset >= total {
		return nil, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total
}

/*************
 * HTTP front
 *************/

func userJSON(u *fakeUser) map[string]any {
	return map[string]any{"id": u.id, "username": u.username, "email": u.email, "created_at": u.createdAt}
}

func postJSON(p *fakePost) map[string]any {
	return map[string]any{
		"id": p.id, "title": p.title, "content": p.content,
		"author_id": p.authorID, "created_at": p.createdAt, "updated_at": p.updatedAt,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *fakeStore) httpAuthorized(r *http.Request) (int64, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0, false
	}
	id, err := s.userFor(strings.TrimPrefix(auth, "Bearer "))
	return id, err == nil
}

func newHTTPFront(store *fakeStore) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Username, Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		u, token, err := store.register(req.Username, req.Email, req.Password)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"token": token, "user": userJSON(u)})
	})

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		u, token, err := store.login(req.Username, req.Password)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": userJSON(u)})
	})

	mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
		offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
		if limit <= 0 {
			limit = 10
		}
		posts, total := store.listPosts(limit, offset)
		out := make([]map[string]any, 0, len(posts))
		for _, p := range posts {
			out = append(out, postJSON(p))
		}
		writeJSON(w, http.StatusOK, map[string]any{"posts": out, "total": total, "limit": limit, "offset": offset})
	})

	mux.HandleFunc("GET /api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		p, err := store.getPost(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, postJSON(p))
	})

	mux.HandleFunc("POST /api/protected/posts", func(w http.ResponseWriter, r *http.Request) {
		userID, ok := store.httpAuthorized(r)
		if !ok {
			http.Error(w, errNoAuth.Error(), http.StatusUnauthorized)
			return
		}
		var req struct{ Title, Content string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusCreated, postJSON(store.createPost(userID, req.Title, req.Content)))
	})

	mux.HandleFunc("PUT /api/protected/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		userID, ok := store.httpAuthorized(r)
		if !ok {
			http.Error(w, errNoAuth.Error(), http.StatusUnauthorized)
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var req struct{ Title, Content *string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		p, err := store.updatePost(userID, id, req.Title, req.Content)
		switch {
		case errors.Is(err, errPostMissing):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, errNotAuthor):
			http.Error(w, err.Error(), http.StatusForbidden)
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusOK, postJSON(p))
		}
	})

	mux.HandleFunc("DELETE /api/protected/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		userID, ok := store.httpAuthorized(r)
		if !ok {
			http.Error(w, errNoAuth.Error(), http.StatusUnauthorized)
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		err := store.deletePost(userID, id)
		switch {
		case errors.Is(err, errPostMissing):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, errNotAuthor):
			http.Error(w, err.Error(), http.StatusForbidden)
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	return mux
}

/*************
 * gRPC front
 *************/

type grpcFront struct {
	store *fakeStore
}

func (g *grpcFront) authorized(ctx context.Context) (int64, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	vals := md.Get("authorization")
	if len(vals) == 0 || !strings.HasPrefix(vals[0], "Bearer ") {
		return 0, status.Error(codes.Unauthenticated, errNoAuth.Error())
	}
	id, err := g.store.userFor(strings.TrimPrefix(vals[0], "Bearer "))
	if err != nil {
		return 0, status.Error(codes.Unauthenticated, errNoAuth.Error())
	}
	return id, nil
}

func (g *grpcFront) Register(ctx context.Context, in *blogpb.RegisterRequest) (*blogpb.RegisterResponse, error) {
	u, token, err := g.store.register(in.Username, in.Email, in.Password)
	if err != nil {
		return nil, status.Error(codes.AlreadyExists, err.Error())
	}
	return &blogpb.RegisterResponse{UserId: u.id, Token: token}, nil
}

func (g *grpcFront) Login(ctx context.Context, in *blogpb.LoginRequest) (*blogpb.LoginResponse, error) {
	u, token, err := g.store.login(in.Username, in.Password)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	return &blogpb.LoginResponse{
		Token: token,
		User:  &blogpb.User{Id: u.id, Username: u.username, Email: u.email, CreatedAt: u.createdAt},
	}, nil
}

func (g *grpcFront) Logout(ctx context.Context, in *blogpb.LogoutRequest) (*blogpb.LogoutResponse, error) {
	g.store.mu.Lock()
	delete(g.store.tokens, in.Token)
	g.store.mu.Unlock()
	return &blogpb.LogoutResponse{Success: true}, nil
}

func (g *grpcFront) ValidateToken(ctx context.Context, in *blogpb.ValidateTokenRequest) (*blogpb.ValidateTokenResponse, error) {
	id, err := g.store.userFor(in.Token)
	if err != nil {
		return &blogpb.ValidateTokenResponse{Valid: false}, nil
	}
	return &blogpb.ValidateTokenResponse{Valid: true, UserId: id}, nil
}

func postProto(p *fakePost) *blogpb.Post {
	return &blogpb.Post{
		Id: p.id, Title: p.title, Content: p.content,
		AuthorId: p.authorID, CreatedAt: p.createdAt, UpdatedAt: p.updatedAt,
	}
}

func (g *grpcFront) CreatePost(ctx context.Context, in *blogpb.CreatePostRequest) (*blogpb.Post, error) {
	userID, err := g.authorized(ctx)
	if err != nil {
		return nil, err
	}
	return postProto(g.store.createPost(userID, in.Title, in.Content)), nil
}

func (g *grpcFront) GetPost(ctx context.Context, in *blogpb.GetPostRequest) (*blogpb.Post, error) {
	p, err := g.store.getPost(in.Id)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return postProto(p), nil
}

func (g *grpcFront) UpdatePost(ctx context.Context, in *blogpb.UpdatePostRequest) (*blogpb.Post, error) {
	userID, err := g.authorized(ctx)
	if err != nil {
		return nil, err
	}
	p, err := g.store.updatePost(userID, in.Id, in.Title, in.Content)
	switch {
	case errors.Is(err, errPostMissing):
		return nil, status.Error(codes.NotFound, err.Error())
	case errors.Is(err, errNotAuthor):
		return nil, status.Error(codes.PermissionDenied, err.Error())
	case err != nil:
		return nil, status.Error(codes.Internal, err.Error())
	}
	return postProto(p), nil
}

func (g *grpcFront) DeletePost(ctx context.Context, in *blogpb.DeletePostRequest) (*blogpb.DeletePostResponse, error) {
	userID, err := g.authorized(ctx)
	if err != nil {
		return nil, err
	}
	err = g.store.deletePost(userID, in.Id)
	switch {
	case errors.Is(err, errPostMissing):
		return nil, status.Error(codes.NotFound, err.Error())
	case errors.Is(err, errNotAuthor):
		return nil, status.Error(codes.PermissionDenied, err.Error())
	case err != nil:
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &blogpb.DeletePostResponse{Success: true}, nil
}

func (g *grpcFront) ListPosts(ctx context.Context, in *blogpb.ListPostsRequest) (*blogpb.ListPostsResponse, error) {
	page, pageSize := in.Page, in.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	offset := int64(page-1) * int64(pageSize)
	posts, total := g.store.listPosts(int64(pageSize), offset)
	out := make([]*blogpb.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, postProto(p))
	}
	totalPages := int32((total + int64(pageSize) - 1) / int64(pageSize))
	return &blogpb.ListPostsResponse{
		Posts: out, TotalCount: total,
		Page: page, PageSize: pageSize, TotalPages: totalPages,
	}, nil
}

/*************
 * Harness
 *************/

// startHTTPFront serves the store over REST and returns a façade bound
// to it.
func startHTTPFront(t *testing.T, store *fakeStore) *Client {
	t.Helper()
	srv := httptest.NewServer(newHTTPFront(store))
	t.Cleanup(srv.Close)

	c, err := New(TransportHTTP, srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// startGRPCFront serves the store over gRPC on a loopback listener and
// returns a façade bound to it.
func startGRPCFront(t *testing.T, store *fakeStore) *Client {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	front := &grpcFront{store: store}
	srv := grpc.NewServer()
	blogpb.RegisterAuthServiceServer(srv, front)
	blogpb.RegisterPostServiceServer(srv, front)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := New(TransportGRPC, lis.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// eachTransport runs fn once per transport against a fresh store.
func eachTransport(t *testing.T, fn func(t *testing.T, c *Client, store *fakeStore)) {
	t.Run("http", func(t *testing.T) {
		store := newFakeStore()
		fn(t, startHTTPFront(t, store), store)
	})
	t.Run("grpc", func(t *testing.T) {
		store := newFakeStore()
		fn(t, startGRPCFront(t, store), store)
	})
}
