package blogpb

// User is the wire representation of a registered account.
type User struct {
	Id        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// Post is the wire representation of a blog post.
type Post struct {
	Id        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	AuthorId  int64  `json:"author_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserId  int64  `json:"user_id"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type LogoutRequest struct {
	Token string `json:"token"`
}

type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

type ValidateTokenResponse struct {
	Valid    bool   `json:"valid"`
	UserId   int64  `json:"user_id"`
	Username string `json:"username"`
}

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type GetPostRequest struct {
	Id int64 `json:"id"`
}

// UpdatePostRequest carries a partial update: nil fields are left
// untouched by the server.
type UpdatePostRequest struct {
	Id      int64   `json:"id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type DeletePostRequest struct {
	Id int64 `json:"id"`
}

type DeletePostResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ListPostsRequest struct {
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

type ListPostsResponse struct {
	Posts      []*Post `json:"posts"`
	TotalCount int64   `json:"total_count"`
	Page       int32   `json:"page"`
	PageSize   int32   `json:"page_size"`
	TotalPages int32   `json:"total_pages"`
}
